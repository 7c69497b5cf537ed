package layout

import (
	"math/rand/v2"

	"github.com/ByLCY/sketchdeck/internal/logger"
)

// Options 配置文档构建阶段的依赖。
type Options struct {
	// SeedSource 只在创建文档时调用一次，用于确定种子计数器的初始值。
	// 为空时使用进程级随机源。
	SeedSource SeedSource
	// Measurer 为空时使用 DefaultEstimator。
	Measurer Measurer
	Logger   *logger.Logger
}

// SeedSource 是随机源的最小抽象，*rand.Rand 即满足该接口。
type SeedSource interface {
	Int64N(n int64) int64
}

// 种子初始值落在 [seedMin, seedMin+seedSpan) 区间。
const (
	seedMin  = 100000
	seedSpan = 900000
)

type globalSource struct{}

func (globalSource) Int64N(n int64) int64 { return rand.Int64N(n) }

type fixedSource int64

func (s fixedSource) Int64N(n int64) int64 {
	v := (int64(s) - seedMin) % n
	if v < 0 {
		v += n
	}
	return v
}

// FixedSeed 返回一个确定的随机源，使文档的种子计数器从 base 开始
// （base 不在默认区间时按区间取模）。测试用它获得可复现的种子。
func FixedSeed(base int64) SeedSource { return fixedSource(base) }
