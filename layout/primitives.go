package layout

// 基本图元工厂。每个构造函数只追加一个元素并返回它的副本。

// NoRoundness 用于显式关闭矩形圆角（ShapeStyle.Roundness 的零值表示使用默认圆角）。
const NoRoundness = -1

const (
	defaultStrokeWidth = 2.0
	defaultOpacity     = 100
	rectRoundness      = 3
	lineRoundness      = 2

	defaultRectFill      = "#f8f9fa"
	defaultRectStroke    = "#ced4da"
	defaultDiamondFill   = "#ffd43b"
	defaultDiamondStroke = "#f59f00"
	defaultLineColor     = "#ced4da"
	defaultTextColor     = "#1e1e1e"
	defaultTextSize      = 16.0

	shadowOffset  = 6.0
	shadowFill    = "#adb5bd"
	shadowOpacity = 40
)

// ShapeStyle 描述矩形、椭圆与菱形的外观；零值字段使用各自的默认值。
type ShapeStyle struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     int // 0 表示默认 100
	Roundness   int // 0 表示默认，NoRoundness 表示直角
}

// LineStyle 描述线段外观。
type LineStyle struct {
	Color string
	Width float64
}

// TextStyle 描述文本外观。
type TextStyle struct {
	Size   float64
	Family FontFamily
	Color  string
	Align  Align
}

func (s ShapeStyle) resolve(fill, stroke string, roundness int) ShapeStyle {
	if s.Fill == "" {
		s.Fill = fill
	}
	if s.Stroke == "" {
		s.Stroke = stroke
	}
	if s.StrokeWidth == 0 {
		s.StrokeWidth = defaultStrokeWidth
	}
	if s.Opacity == 0 {
		s.Opacity = defaultOpacity
	}
	switch s.Roundness {
	case 0:
		s.Roundness = roundness
	case NoRoundness:
		s.Roundness = 0
	}
	return s
}

func (s TextStyle) resolve() TextStyle {
	if s.Size == 0 {
		s.Size = defaultTextSize
	}
	if s.Color == "" {
		s.Color = defaultTextColor
	}
	if s.Align == "" {
		s.Align = AlignLeft
	}
	return s
}

func shape(kind Kind, id string, x, y, w, h float64, s ShapeStyle) Element {
	return Element{
		ID:              id,
		Kind:            kind,
		X:               x,
		Y:               y,
		Width:           w,
		Height:          h,
		StrokeColor:     s.Stroke,
		BackgroundColor: s.Fill,
		StrokeWidth:     s.StrokeWidth,
		Opacity:         s.Opacity,
		Roundness:       s.Roundness,
	}
}

func (b *batch) rect(id string, x, y, w, h float64, s ShapeStyle) (Element, error) {
	s = s.resolve(defaultRectFill, defaultRectStroke, rectRoundness)
	return b.add(shape(KindRectangle, id, x, y, w, h, s))
}

func (b *batch) ellipse(id string, x, y, w, h float64, s ShapeStyle) (Element, error) {
	s = s.resolve(defaultRectFill, defaultRectStroke, NoRoundness)
	return b.add(shape(KindEllipse, id, x, y, w, h, s))
}

func (b *batch) diamond(id string, x, y, w, h float64, s ShapeStyle) (Element, error) {
	s = s.resolve(defaultDiamondFill, defaultDiamondStroke, NoRoundness)
	return b.add(shape(KindDiamond, id, x, y, w, h, s))
}

func (b *batch) line(id string, x, y, length float64, s LineStyle) (Element, error) {
	if s.Color == "" {
		s.Color = defaultLineColor
	}
	if s.Width == 0 {
		s.Width = defaultStrokeWidth
	}
	return b.add(Element{
		ID:              id,
		Kind:            KindLine,
		X:               x,
		Y:               y,
		Width:           length,
		Height:          0,
		StrokeColor:     s.Color,
		BackgroundColor: Transparent,
		StrokeWidth:     s.Width,
		Opacity:         defaultOpacity,
		Roundness:       lineRoundness,
		Points:          [][2]float64{{0, 0}, {length, 0}},
	})
}

func (b *batch) text(id string, x, y float64, content string, s TextStyle) (Element, error) {
	s = s.resolve()
	w, h := b.measure(content, s.Size, s.Family)
	return b.add(Element{
		ID:              id,
		Kind:            KindText,
		X:               x,
		Y:               y,
		Width:           w,
		Height:          h,
		StrokeColor:     s.Color,
		BackgroundColor: Transparent,
		StrokeWidth:     defaultStrokeWidth,
		Opacity:         defaultOpacity,
		Text: &TextAttrs{
			Content:  content,
			FontSize: s.Size,
			Family:   s.Family,
			Align:    s.Align,
		},
	})
}

// shadow 必须在被投影元素之前调用，使其绘制在下方。
func (b *batch) shadow(id string, x, y, w, h float64) (Element, error) {
	return b.rect(id+"-shadow", x+shadowOffset, y+shadowOffset, w, h, ShapeStyle{
		Fill:    shadowFill,
		Stroke:  Transparent,
		Opacity: shadowOpacity,
	})
}

// Rect 追加一个矩形。
func (d *Document) Rect(id string, x, y, w, h float64, style ShapeStyle) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.rect(id, x, y, w, h, style)
		return err
	})
	return out, err
}

// Ellipse 追加一个椭圆（w == h 时为圆）。
func (d *Document) Ellipse(id string, x, y, w, h float64, style ShapeStyle) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.ellipse(id, x, y, w, h, style)
		return err
	})
	return out, err
}

// Diamond 追加一个菱形。
func (d *Document) Diamond(id string, x, y, w, h float64, style ShapeStyle) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.diamond(id, x, y, w, h, style)
		return err
	})
	return out, err
}

// Line 追加一条从 (x, y) 向右长 length 的水平线段。
func (d *Document) Line(id string, x, y, length float64, style LineStyle) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.line(id, x, y, length, style)
		return err
	})
	return out, err
}

// Text 追加一个文本元素，宽高由文档的估算器计算。
func (d *Document) Text(id string, x, y float64, content string, style TextStyle) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.text(id, x, y, content, style)
		return err
	})
	return out, err
}

// Shadow 在 (x+6, y+6) 处追加一个低不透明度、无描边的矩形，标识为 id + "-shadow"。
// 调用方需在被投影元素之前调用。
func (d *Document) Shadow(id string, x, y, w, h float64) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.shadow(id, x, y, w, h)
		return err
	})
	return out, err
}
