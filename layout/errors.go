package layout

import (
	"errors"

	"github.com/ByLCY/sketchdeck/theme"
)

var (
	// ErrDuplicateIdentity 表示同一文档内重复使用了元素标识。
	ErrDuplicateIdentity = errors.New("元素标识重复")
	// ErrEmptyIdentity 表示元素标识为空字符串。
	ErrEmptyIdentity = errors.New("元素标识为空")
	// ErrUnknownSlide 表示 finalize 的标识没有通过 BeginSlide 注册。
	ErrUnknownSlide = errors.New("未注册的幻灯片")
	// ErrInvalidDimension 表示坐标或尺寸为负数或非有限值。
	ErrInvalidDimension = errors.New("非法尺寸")
	// ErrUnknownTheme 与 theme.ErrUnknownTheme 相同，方便只依赖 layout 的调用方匹配。
	ErrUnknownTheme = theme.ErrUnknownTheme
)
