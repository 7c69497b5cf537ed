package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FontFamily 枚举文本可用的字体族。零值为无衬线字体。
type FontFamily int

const (
	FontSans      FontFamily = iota // 常规无衬线（Nunito）
	FontHandDrawn                   // 手写体（Excalifont），最宽
	FontDisplay                     // 标题展示体（Lilita One）
	FontMono                        // 等宽/代码（Comic Shanns）
)

var fontFamilyNames = map[FontFamily]string{
	FontSans:      "sans-serif",
	FontHandDrawn: "hand-drawn",
	FontDisplay:   "display",
	FontMono:      "mono",
}

func (f FontFamily) String() string {
	if name, ok := fontFamilyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFontFamily 解析字体族名称，兼容若干常见别名。
func ParseFontFamily(value string) (FontFamily, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sans", "sans-serif", "normal", "nunito":
		return FontSans, nil
	case "hand-drawn", "handdrawn", "hand", "excalifont":
		return FontHandDrawn, nil
	case "display", "heading", "lilita":
		return FontDisplay, nil
	case "mono", "code", "monospace":
		return FontMono, nil
	default:
		return FontSans, fmt.Errorf("未知字体族 %q", value)
	}
}

// DefaultLineHeight 是固定行高系数。
const DefaultLineHeight = 1.25

// Calibration 是估算器使用的可替换标定表：各字体族的字符宽度系数与行高系数。
// 这些系数按西里尔字母在 Excalidraw 中的渲染结果测得，只是近似值。
type Calibration struct {
	LineHeight  float64
	Multipliers map[FontFamily]float64
	Fallback    float64
}

// DefaultCalibration 返回内置标定表。
func DefaultCalibration() Calibration {
	return Calibration{
		LineHeight: DefaultLineHeight,
		Multipliers: map[FontFamily]float64{
			FontHandDrawn: 0.85,
			FontMono:      0.68,
			FontDisplay:   0.65,
			FontSans:      0.62,
		},
		Fallback: 0.62,
	}
}

// Multiplier 返回字体族的宽度系数，未登记的字体族使用 Fallback。
func (c Calibration) Multiplier(family FontFamily) float64 {
	if m, ok := c.Multipliers[family]; ok {
		return m
	}
	return c.Fallback
}

// Measurer 在没有渲染后端的情况下预测文本的宽高。
type Measurer interface {
	Measure(text string, fontSize float64, family FontFamily) (width, height float64)
}

// Estimator 是基于字符数的文本尺寸估算器，纯函数、无副作用。
// 只保证相对顺序（更长的字符串估算更宽），不保证亚像素精度。
type Estimator struct {
	cal Calibration
}

var _ Measurer = Estimator{}

// NewEstimator 使用给定标定表创建估算器；缺失的字段回落到默认值。
func NewEstimator(cal Calibration) Estimator {
	def := DefaultCalibration()
	if cal.LineHeight <= 0 {
		cal.LineHeight = def.LineHeight
	}
	if cal.Fallback <= 0 {
		cal.Fallback = def.Fallback
	}
	merged := make(map[FontFamily]float64, len(def.Multipliers))
	for k, v := range def.Multipliers {
		merged[k] = v
	}
	for k, v := range cal.Multipliers {
		if v > 0 {
			merged[k] = v
		}
	}
	cal.Multipliers = merged
	return Estimator{cal: cal}
}

// DefaultEstimator 返回使用内置标定表的估算器。
func DefaultEstimator() Estimator { return NewEstimator(DefaultCalibration()) }

// Calibration 返回估算器当前使用的标定表。
func (e Estimator) Calibration() Calibration { return e.cal }

// Measure 实现 Measurer：宽度 = 最长行字符数 × 字号 × 系数，高度 = 行数 × 字号 × 行高系数。
func (e Estimator) Measure(text string, fontSize float64, family FontFamily) (float64, float64) {
	return e.Width(text, fontSize, family), e.Height(text, fontSize)
}

// Width 估算文本宽度。
func (e Estimator) Width(text string, fontSize float64, family FontFamily) float64 {
	maxLen := 0
	for _, line := range strings.Split(text, "\n") {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	return float64(maxLen) * fontSize * e.multiplier(family)
}

// Height 估算文本高度。
func (e Estimator) Height(text string, fontSize float64) float64 {
	lines := strings.Count(text, "\n") + 1
	return float64(lines) * fontSize * e.lineHeight()
}

func (e Estimator) multiplier(family FontFamily) float64 {
	if e.cal.Multipliers == nil {
		return DefaultCalibration().Multiplier(family)
	}
	return e.cal.Multiplier(family)
}

func (e Estimator) lineHeight() float64 {
	if e.cal.LineHeight <= 0 {
		return DefaultLineHeight
	}
	return e.cal.LineHeight
}

// CenterInRect 计算使文本在矩形内居中的左上角坐标。内容溢出时可能返回负偏移。
func CenterInRect(m Measurer, text string, fontSize float64, family FontFamily, rect Bounds) (float64, float64) {
	w, h := m.Measure(text, fontSize, family)
	return rect.X + (rect.Width-w)/2, rect.Y + (rect.Height-h)/2
}

// CenterInCircle 计算使文本在圆（外接正方形）内居中的左上角坐标。
func CenterInCircle(m Measurer, text string, fontSize float64, family FontFamily, circle Circle) (float64, float64) {
	w, h := m.Measure(text, fontSize, family)
	return circle.X + (circle.Diameter-w)/2, circle.Y + (circle.Diameter-h)/2
}
