package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/sketchdeck/theme"
)

// 画布几何常量（文档坐标，单位为像素）。
const (
	SlideX           = 15.0
	SlideWidth       = 977.0
	ContentX         = 42.0
	ContentWidth     = 900.0
	CardLeftX        = 42.0
	CardLeftWidth    = 430.0
	CardRightX       = 492.0
	CardRightWidth   = 450.0
	GapBetweenSlides = 120.0

	// TrailingGap 是组件之后的默认留白。
	TrailingGap = 20.0
)

const (
	white     = "#ffffff"
	bodyColor = "#495057"
	mutedText = "#868e96"

	bannerWidth   = 750.0
	bannerHeight  = 90.0
	bannerIcon    = 60.0
	bannerIconPad = 20.0
	badgeX        = 810.0
	badgeWidth    = 130.0
	badgeHeight   = 35.0
	badgeStride   = 40.0

	sectionHeight = 70.0

	blockCircle = 50.0
	blockHeight = 60.0
	durationX   = 836.0

	cardHeaderHeight = 36.0
	cardTagHeight    = 27.0
	cardTagMinWidth  = 80.0
	cardTitleOffset  = 50.0
	cardBodyOffset   = 82.0
	defaultRowHeight = 200.0

	compareItemStride = 35.0
	compareItemTop    = 50.0
	negativeMarker    = "❌"
	positiveMarker    = "✅"

	tipFontSize   = 17.0
	tipEmojiSize  = 28.0
	tipMinHeight  = 60.0
	tipEmojiGap   = 12.0
	defaultEmoji  = "💡"
	bulletSize    = 10.0
	bulletItemGap = 8.0
	dotSize       = 12.0
	dotStride     = 18.0
	separatorPad  = 50.0
)

// Badge 是标题横幅右侧的一枚小标签。
type Badge struct {
	Label string
	Theme theme.Name
}

// BannerSpec 描述标题横幅；Theme 为空时使用 purple。
type BannerSpec struct {
	Title    string
	Subtitle string
	IconText string
	Theme    theme.Name
	Badges   []Badge
}

// CardSpec 描述一张内容卡片；Theme 为空时使用 orange。
type CardSpec struct {
	Title  string
	Body   string
	Tag    string
	Theme  theme.Name
	Shadow bool
}

// RowSpec 配置 N 卡片行；零值字段使用默认值（高 200、间距 20、内边距 0）。
type RowSpec struct {
	Height  float64
	Gap     float64
	Padding float64
}

// ComparisonSpec 描述左右对比块；Height 为 0 时按条目数自动计算。
type ComparisonSpec struct {
	NegativeTitle string
	NegativeItems []string
	PositiveTitle string
	PositiveItems []string
	Height        float64
}

// TipSpec 描述提示框；Emoji 为空时使用 💡，Theme 为空时使用 yellow。
type TipSpec struct {
	Text  string
	Emoji string
	Theme theme.Name
}

// BulletSpec 描述项目符号列表；Theme 决定圆点颜色（默认 blue）。
type BulletSpec struct {
	Items    []string
	Color    string
	FontSize float64
	Theme    theme.Name
}

// DotsSpec 描述进度点；下标小于 Active 的点使用主题填充色。
type DotsSpec struct {
	Total  int
	Active int
	Theme  theme.Name
}

func resolveTheme(name, fallback theme.Name) (theme.Theme, error) {
	if name == "" {
		name = fallback
	}
	return theme.Lookup(name)
}

func (d *Document) trace(component, id string, y, bottom float64) {
	d.log.WithFields(map[string]any{
		"component": component,
		"id":        id,
		"y":         y,
		"bottom":    bottom,
	}).Debug("组件已生成")
}

// TitleBanner 生成彩色横幅：圆形图标、大标题、可选副标题与右侧徽章。
// 返回横幅（或最后一枚徽章）底部加 TrailingGap。
func (d *Document) TitleBanner(id string, y float64, spec BannerSpec) (float64, error) {
	var bottom float64
	err := d.emit(func(b *batch) error {
		c, err := resolveTheme(spec.Theme, theme.Purple)
		if err != nil {
			return err
		}
		x := ContentX
		if _, err := b.rect(id+"-bg", x, y, bannerWidth, bannerHeight, ShapeStyle{Fill: c.Fill, Stroke: c.Stroke}); err != nil {
			return err
		}

		icon := Circle{X: x + bannerIconPad, Y: y + 15, Diameter: bannerIcon}
		if _, err := b.ellipse(id+"-icon", icon.X, icon.Y, icon.Diameter, icon.Diameter, ShapeStyle{Fill: c.Accent, Stroke: c.Stroke}); err != nil {
			return err
		}
		if spec.IconText != "" {
			const iconFont = 26.0
			ix, iy := CenterInCircle(b.doc.measurer, spec.IconText, iconFont, FontSans, icon)
			if _, err := b.text(id+"-icon-text", ix, iy, spec.IconText, TextStyle{Size: iconFont, Color: white, Align: AlignCenter}); err != nil {
				return err
			}
		}

		if _, err := b.text(id+"-title", x+95, y+15, spec.Title, TextStyle{Size: 36, Family: FontHandDrawn, Color: white}); err != nil {
			return err
		}
		if spec.Subtitle != "" {
			if _, err := b.text(id+"-subtitle", x+95, y+55, spec.Subtitle, TextStyle{Size: 20, Color: c.Light}); err != nil {
				return err
			}
		}

		bottom = y + bannerHeight
		for i, badge := range spec.Badges {
			bc, err := resolveTheme(badge.Theme, theme.Blue)
			if err != nil {
				return fmt.Errorf("徽章 %d: %w", i, err)
			}
			by := y + 10 + float64(i)*badgeStride
			box := Bounds{X: badgeX, Y: by, Width: badgeWidth, Height: badgeHeight}
			if _, err := b.rect(fmt.Sprintf("%s-badge-%d", id, i), box.X, box.Y, box.Width, box.Height, ShapeStyle{Fill: bc.Fill, Stroke: bc.Stroke}); err != nil {
				return err
			}
			lx, ly := CenterInRect(b.doc.measurer, badge.Label, 16, FontSans, box)
			if _, err := b.text(fmt.Sprintf("%s-badge-text-%d", id, i), lx, ly, badge.Label, TextStyle{Size: 16, Color: white}); err != nil {
				return err
			}
			bottom = math.Max(bottom, by+badgeHeight)
		}
		bottom += TrailingGap
		return nil
	})
	if err != nil {
		return y, fmt.Errorf("标题横幅 %q: %w", id, err)
	}
	d.trace("banner", id, y, bottom)
	return bottom, nil
}

// SectionHeader 生成通栏彩色标题条，固定高 70，之后留白 20。
func (d *Document) SectionHeader(id string, y float64, title string, name theme.Name) (float64, error) {
	err := d.emit(func(b *batch) error {
		c, err := resolveTheme(name, theme.Blue)
		if err != nil {
			return err
		}
		if _, err := b.rect(id+"-bg", ContentX, y, ContentWidth, sectionHeight, ShapeStyle{Fill: c.Accent, Stroke: c.Stroke}); err != nil {
			return err
		}
		_, err = b.text(id+"-text", ContentX+40, y+14, title, TextStyle{Size: 35, Family: FontDisplay, Color: white})
		return err
	})
	if err != nil {
		return y, fmt.Errorf("分节标题 %q: %w", id, err)
	}
	bottom := y + sectionHeight + TrailingGap
	d.trace("section", id, y, bottom)
	return bottom, nil
}

// BlockNumber 生成带序号的圆形徽章、说明文字与可选的时长标签。
// 固定占用 60，不额外留白，由调用方决定后续间距。
func (d *Document) BlockNumber(id string, y float64, number int, label, duration string, name theme.Name) (float64, error) {
	err := d.emit(func(b *batch) error {
		c, err := resolveTheme(name, theme.Blue)
		if err != nil {
			return err
		}
		x := ContentX + 47
		if _, err := b.ellipse(id+"-circle", x, y, blockCircle, blockCircle, ShapeStyle{Fill: c.Fill, Stroke: c.Stroke}); err != nil {
			return err
		}
		num := fmt.Sprint(number)
		const numFont = 23.0
		nx, ny := CenterInCircle(b.doc.measurer, num, numFont, FontSans, Circle{X: x, Y: y, Diameter: blockCircle})
		if _, err := b.text(id+"-num", nx, ny, num, TextStyle{Size: numFont, Color: white}); err != nil {
			return err
		}
		if _, err := b.text(id+"-label", x+60, y+10, label, TextStyle{Size: 16, Color: bodyColor}); err != nil {
			return err
		}
		if duration != "" {
			if _, err := b.text(id+"-dur", durationX, y+15, duration, TextStyle{Size: 12, Color: mutedText}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return y, fmt.Errorf("区块序号 %q: %w", id, err)
	}
	bottom := y + blockHeight
	d.trace("block", id, y, bottom)
	return bottom, nil
}

// ContentCard 生成内容卡片：主体、顶部 36 的标题条、可选标签徽章、标题与正文。
// 返回 y + h + 20。
func (d *Document) ContentCard(id string, x, y, w, h float64, spec CardSpec) (float64, error) {
	var bottom float64
	err := d.emit(func(b *batch) (err error) {
		bottom, err = b.card(id, x, y, w, h, spec)
		return err
	})
	if err != nil {
		return y, fmt.Errorf("内容卡片 %q: %w", id, err)
	}
	d.trace("card", id, y, bottom)
	return bottom, nil
}

func (b *batch) card(id string, x, y, w, h float64, spec CardSpec) (float64, error) {
	c, err := resolveTheme(spec.Theme, theme.Orange)
	if err != nil {
		return y, err
	}
	if spec.Shadow {
		if _, err := b.shadow(id, x, y, w, h); err != nil {
			return y, err
		}
	}
	if _, err := b.rect(id+"-body", x, y, w, h, ShapeStyle{Fill: c.Background, Stroke: c.Stroke}); err != nil {
		return y, err
	}
	if _, err := b.rect(id+"-header", x, y, w, cardHeaderHeight, ShapeStyle{Fill: c.Fill, Stroke: c.Stroke}); err != nil {
		return y, err
	}
	if spec.Tag != "" {
		const tagFont = 14.0
		tw, _ := b.measure(spec.Tag, tagFont, FontSans)
		tagW := math.Max(tw+24, cardTagMinWidth)
		tag := Bounds{X: x + w - tagW - 15, Y: y + 5, Width: tagW, Height: cardTagHeight}
		if _, err := b.rect(id+"-tag-bg", tag.X, tag.Y, tag.Width, tag.Height, ShapeStyle{Fill: c.Accent, Stroke: c.Stroke}); err != nil {
			return y, err
		}
		tx, ty := CenterInRect(b.doc.measurer, spec.Tag, tagFont, FontSans, tag)
		if _, err := b.text(id+"-tag-text", tx, ty, spec.Tag, TextStyle{Size: tagFont, Color: white, Align: AlignCenter}); err != nil {
			return y, err
		}
	}
	if _, err := b.text(id+"-title", x+20, y+cardTitleOffset, spec.Title, TextStyle{Size: 21}); err != nil {
		return y, err
	}
	if _, err := b.text(id+"-body-text", x+20, y+cardBodyOffset, spec.Body, TextStyle{Size: 16, Color: bodyColor}); err != nil {
		return y, err
	}
	return y + h + TrailingGap, nil
}

// Cards 把内容区宽度平均分给 N 张带阴影的卡片，卡片等高，间距固定。
// 返回所有卡片底部的最大值；空序列不生成任何元素并原样返回 y。
func (d *Document) Cards(id string, y float64, cards []CardSpec, row RowSpec) (float64, error) {
	n := len(cards)
	if n == 0 {
		return y, nil
	}
	if row.Height == 0 {
		row.Height = defaultRowHeight
	}
	if row.Gap == 0 {
		row.Gap = TrailingGap
	}
	available := ContentWidth - 2*row.Padding
	cardW := (available - float64(n-1)*row.Gap) / float64(n)
	startX := ContentX + row.Padding

	bottom := y
	err := d.emit(func(b *batch) error {
		for i, card := range cards {
			card.Shadow = true
			x := startX + float64(i)*(cardW+row.Gap)
			cb, err := b.card(fmt.Sprintf("%s-card-%d", id, i), x, y, cardW, row.Height, card)
			if err != nil {
				return fmt.Errorf("卡片 %d: %w", i, err)
			}
			bottom = math.Max(bottom, cb)
		}
		return nil
	})
	if err != nil {
		return y, fmt.Errorf("卡片行 %q: %w", id, err)
	}
	d.trace("cards", id, y, bottom)
	return bottom, nil
}

// TwoCards 是两张并排卡片的便捷形式。
func (d *Document) TwoCards(id string, y float64, left, right CardSpec, height float64) (float64, error) {
	if left.Theme == "" {
		left.Theme = theme.Orange
	}
	if right.Theme == "" {
		right.Theme = theme.Purple
	}
	return d.Cards(id, y, []CardSpec{left, right}, RowSpec{Height: height})
}

type comparisonColumn struct {
	suffix       string
	x, w         float64
	title        string
	items        []string
	marker       string
	bodyFill     string
	bodyStroke   string
	headerFill   string
	headerStroke string
}

// Comparison 生成左右两栏（负面/正面）的对比块，两栏共享同一高度。
func (d *Document) Comparison(id string, y float64, spec ComparisonSpec) (float64, error) {
	h := spec.Height
	if h == 0 {
		n := max(len(spec.NegativeItems), len(spec.PositiveItems))
		h = compareItemTop + float64(n)*compareItemStride + TrailingGap
	}
	columns := []comparisonColumn{
		{
			suffix: "neg", x: CardLeftX, w: CardLeftWidth,
			title: spec.NegativeTitle, items: spec.NegativeItems, marker: negativeMarker,
			bodyFill: "#fff5f5", bodyStroke: "#fa5252", headerFill: "#fa5252", headerStroke: "#e03131",
		},
		{
			suffix: "pos", x: CardRightX, w: CardRightWidth,
			title: spec.PositiveTitle, items: spec.PositiveItems, marker: positiveMarker,
			bodyFill: "#ebfbee", bodyStroke: "#40c057", headerFill: "#40c057", headerStroke: "#2f9e44",
		},
	}
	err := d.emit(func(b *batch) error {
		for _, col := range columns {
			prefix := id + "-" + col.suffix
			if _, err := b.shadow(prefix, col.x, y, col.w, h); err != nil {
				return err
			}
			if _, err := b.rect(prefix+"-body", col.x, y, col.w, h, ShapeStyle{Fill: col.bodyFill, Stroke: col.bodyStroke}); err != nil {
				return err
			}
			if _, err := b.rect(prefix+"-header", col.x, y, col.w, cardHeaderHeight, ShapeStyle{Fill: col.headerFill, Stroke: col.headerStroke}); err != nil {
				return err
			}
			if _, err := b.text(prefix+"-title", col.x+15, y+8, col.title, TextStyle{Size: 15, Color: white}); err != nil {
				return err
			}
			for i, item := range col.items {
				iy := y + compareItemTop + float64(i)*compareItemStride
				if _, err := b.text(fmt.Sprintf("%s-item-%d", prefix, i), col.x+20, iy, col.marker+" "+item, TextStyle{Size: 16, Color: bodyColor}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return y, fmt.Errorf("对比块 %q: %w", id, err)
	}
	bottom := y + h + TrailingGap
	d.trace("comparison", id, y, bottom)
	return bottom, nil
}

// TipBox 生成通栏提示框，高度按正文估算高度自适应（至少 60）。
func (d *Document) TipBox(id string, y float64, spec TipSpec) (float64, error) {
	emoji := spec.Emoji
	if emoji == "" {
		emoji = defaultEmoji
	}
	var boxH float64
	err := d.emit(func(b *batch) error {
		c, err := resolveTheme(spec.Theme, theme.Yellow)
		if err != nil {
			return err
		}
		_, th := b.measure(spec.Text, tipFontSize, FontSans)
		boxH = math.Max(th+30, tipMinHeight)
		if _, err := b.rect(id+"-bg", ContentX, y, ContentWidth, boxH, ShapeStyle{Fill: c.Background, Stroke: c.Stroke}); err != nil {
			return err
		}
		if _, err := b.text(id+"-emoji", ContentX+15, y+12, emoji, TextStyle{Size: tipEmojiSize}); err != nil {
			return err
		}
		// emoji 的实际宽度约等于字号，估算值偏小，取两者较大者
		ew, _ := b.measure(emoji, tipEmojiSize, FontSans)
		textX := ContentX + 15 + math.Max(ew, tipEmojiSize) + tipEmojiGap
		_, err = b.text(id+"-text", textX, y+15, spec.Text, TextStyle{Size: tipFontSize, Color: bodyColor})
		return err
	})
	if err != nil {
		return y, fmt.Errorf("提示框 %q: %w", id, err)
	}
	bottom := y + boxH + TrailingGap
	d.trace("tip", id, y, bottom)
	return bottom, nil
}

// BulletList 为每一项生成一个圆点与一行文本，纵向步长为该项估算高度加 8。
// 返回最后位置加 10。
func (d *Document) BulletList(id string, x, y float64, spec BulletSpec) (float64, error) {
	size := spec.FontSize
	if size == 0 {
		size = defaultTextSize
	}
	color := spec.Color
	if color == "" {
		color = bodyColor
	}
	cursor := y
	err := d.emit(func(b *batch) error {
		c, err := resolveTheme(spec.Theme, theme.Blue)
		if err != nil {
			return err
		}
		for i, item := range spec.Items {
			if _, err := b.ellipse(fmt.Sprintf("%s-bullet-%d", id, i), x, cursor+4, bulletSize, bulletSize, ShapeStyle{Fill: c.Fill, Stroke: c.Stroke}); err != nil {
				return err
			}
			el, err := b.text(fmt.Sprintf("%s-item-%d", id, i), x+20, cursor, item, TextStyle{Size: size, Color: color})
			if err != nil {
				return err
			}
			cursor += el.Height + bulletItemGap
		}
		return nil
	})
	if err != nil {
		return y, fmt.Errorf("项目列表 %q: %w", id, err)
	}
	bottom := cursor + 10
	d.trace("bullets", id, y, bottom)
	return bottom, nil
}

// ProgressDots 生成一行小菱形，前 Active 个使用主题填充色，其余使用主题背景色。
func (d *Document) ProgressDots(id string, x, y float64, spec DotsSpec) (float64, error) {
	if spec.Total < 0 {
		return y, fmt.Errorf("进度点 %q: %w: total=%d", id, ErrInvalidDimension, spec.Total)
	}
	err := d.emit(func(b *batch) error {
		c, err := resolveTheme(spec.Theme, theme.Yellow)
		if err != nil {
			return err
		}
		for i := 0; i < spec.Total; i++ {
			fill := c.Background
			if i < spec.Active {
				fill = c.Fill
			}
			if _, err := b.diamond(fmt.Sprintf("%s-dot-%d", id, i), x+float64(i)*dotStride, y, dotSize, dotSize, ShapeStyle{Fill: fill, Stroke: c.Stroke}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return y, fmt.Errorf("进度点 %q: %w", id, err)
	}
	bottom := y + TrailingGap
	d.trace("dots", id, y, bottom)
	return bottom, nil
}

// Separator 生成横跨内容区（两侧各缩进 50）的分隔线。
func (d *Document) Separator(id string, y float64, color string) (float64, error) {
	err := d.emit(func(b *batch) error {
		_, err := b.line(id, ContentX+separatorPad, y, ContentWidth-2*separatorPad, LineStyle{Color: color})
		return err
	})
	if err != nil {
		return y, fmt.Errorf("分隔线 %q: %w", id, err)
	}
	bottom := y + TrailingGap
	d.trace("separator", id, y, bottom)
	return bottom, nil
}
