package layout

// 该文件定义文档元素与幻灯片范围，供布局计算、导出与调试 JSON 共用。

// Kind 标记元素的变体类型，取值来自固定枚举。
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindDiamond   Kind = "diamond"
	KindLine      Kind = "line"
	KindText      Kind = "text"
)

// Align 是文本的水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Transparent 表示不绘制对应的描边或填充。
const Transparent = "transparent"

// Element 是文档中的一个基本图元（形状或文本）。
// 坐标位于文档坐标系，Y 在多张幻灯片间单调增长。
type Element struct {
	ID              string  `json:"id"`
	Kind            Kind    `json:"kind"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	StrokeColor     string  `json:"strokeColor"`
	BackgroundColor string  `json:"backgroundColor"`
	StrokeWidth     float64 `json:"strokeWidth"`
	Opacity         int     `json:"opacity"`   // 0-100
	Roundness       int     `json:"roundness"` // 0 表示直角
	Seed            int64   `json:"seed"`

	Text   *TextAttrs   `json:"text,omitempty"`
	Points [][2]float64 `json:"points,omitempty"` // 仅 line 使用，相对 (X, Y)
}

// TextAttrs 仅在 Kind 为 text 时出现；文本颜色使用 Element.StrokeColor。
type TextAttrs struct {
	Content  string     `json:"content"`
	FontSize float64    `json:"fontSize"`
	Family   FontFamily `json:"family"`
	Align    Align      `json:"align"`
}

// Bottom 返回元素底边的 Y 坐标。
func (e Element) Bottom() float64 { return e.Y + e.Height }

// Right 返回元素右边的 X 坐标。
func (e Element) Right() float64 { return e.X + e.Width }

func (e Element) clone() Element {
	out := e
	if e.Text != nil {
		t := *e.Text
		out.Text = &t
	}
	if e.Points != nil {
		out.Points = append([][2]float64(nil), e.Points...)
	}
	return out
}

// Slide 记录一张幻灯片背景在文档中的纵向范围。
type Slide struct {
	ID     string  `json:"id"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Bounds 是轴对齐的矩形区域。
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Circle 用外接正方形的左上角与直径描述一个圆。
type Circle struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
}
