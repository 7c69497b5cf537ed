// Package compose 把解析后的 deck 文档排版为 layout.Document：
// 按声明顺序放置幻灯片，在每张幻灯片内自上而下串联各组件的游标。
package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/sketchdeck/binding"
	"github.com/ByLCY/sketchdeck/dsl"
	"github.com/ByLCY/sketchdeck/internal/logger"
	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/theme"
)

var (
	// ErrUnknownCommand 表示幻灯片或组件块中出现了不认识的命令。
	ErrUnknownCommand = errors.New("未知命令")
	// ErrBadArgument 表示命令参数缺失、重复或取值非法。
	ErrBadArgument = errors.New("参数错误")
)

// 幻灯片背景的初始高度，排版结束后会被实际高度覆盖。
const defaultSlideGuess = 800.0

// Options 配置排版过程。
type Options struct {
	Logger     *logger.Logger
	SeedSource layout.SeedSource
	Measurer   layout.Measurer
}

// Result 是排版结果。
type Result struct {
	Document *layout.Document
	// Meta 是 meta 段中的键值（已做占位符替换）。
	Meta map[string]string
	// Bottom 是最后一张幻灯片内容的底部 Y。
	Bottom float64
}

type composer struct {
	doc  *layout.Document
	data any
	log  *logger.Logger
}

// Build 排版整个 deck。data 为 ${path} 占位符提供取值，可以为 nil。
func Build(deck *dsl.Document, data any, opts Options) (*Result, error) {
	if deck == nil {
		return nil, fmt.Errorf("deck 为空")
	}
	doc := layout.New(layout.Options{SeedSource: opts.SeedSource, Measurer: opts.Measurer, Logger: opts.Logger})
	c := &composer{doc: doc, data: data, log: opts.Logger}

	meta := map[string]string{}
	for k, v := range deck.Meta() {
		meta[k] = binding.Interpolate(v, data)
	}

	y, bottom := 0.0, 0.0
	for _, slide := range deck.Slides() {
		b, err := c.slide(slide, y)
		if err != nil {
			return nil, err
		}
		bottom = b
		y = layout.NextSlideY(b)
	}
	c.log.WithFields(map[string]any{
		"deck":     deck.Name,
		"slides":   len(doc.Slides()),
		"elements": doc.Len(),
	}).Debug("排版完成")
	return &Result{Document: doc, Meta: meta, Bottom: bottom}, nil
}

var slideSchema = argSchema{values: []string{"height", "min-height"}}

// slide 排版一张幻灯片，返回其内容底部（不含底部内边距）。
func (c *composer) slide(s *dsl.SlideSection, y float64) (float64, error) {
	a, err := parseArgs(s.Pos, "slide "+s.ID, s.Params, slideSchema, c.data)
	if err != nil {
		return y, err
	}
	guess, err := a.number("height", defaultSlideGuess)
	if err != nil {
		return y, err
	}
	minHeight, err := a.number("min-height", 0)
	if err != nil {
		return y, err
	}
	if _, err := c.doc.BeginSlide(s.ID, y, guess); err != nil {
		return y, fmt.Errorf("%s: %w", s.Pos, err)
	}

	pos := layout.SlideContentTop(y)
	for _, st := range s.Block.Statements {
		if st.Command == nil {
			return y, fmt.Errorf("%s: %w: 幻灯片 %s 内只允许组件命令", statementPos(st, s.Pos), ErrBadArgument, s.ID)
		}
		next, err := c.command(st.Command, pos)
		if err != nil {
			return y, err
		}
		pos = next
	}

	height, err := c.doc.CloseSlide(s.ID, pos)
	if err != nil {
		return y, fmt.Errorf("%s: %w", s.Pos, err)
	}
	if height < minHeight {
		if err := c.doc.FinalizeSlideHeight(s.ID, minHeight); err != nil {
			return y, fmt.Errorf("%s: %w", s.Pos, err)
		}
		height = minHeight
	}
	c.log.WithFields(map[string]any{"slide": s.ID, "y": y, "height": height}).Info("幻灯片已排版")
	return y + height - layout.SlidePadding, nil
}

func (c *composer) command(cmd *dsl.Command, y float64) (float64, error) {
	var (
		next float64
		err  error
	)
	switch cmd.Name {
	case "banner":
		next, err = c.banner(cmd, y)
	case "section":
		next, err = c.section(cmd, y)
	case "block":
		next, err = c.blockNumber(cmd, y)
	case "card":
		next, err = c.card(cmd, y)
	case "cards":
		next, err = c.cards(cmd, y)
	case "compare":
		next, err = c.compare(cmd, y)
	case "tip":
		next, err = c.tip(cmd, y)
	case "bullets":
		next, err = c.bullets(cmd, y)
	case "dots":
		next, err = c.dots(cmd, y)
	case "separator":
		next, err = c.separator(cmd, y)
	case "spacer":
		next, err = c.spacer(cmd, y)
	default:
		return y, fmt.Errorf("%s: %w %q", cmd.Pos, ErrUnknownCommand, cmd.Name)
	}
	if err != nil {
		if errors.Is(err, ErrBadArgument) || errors.Is(err, ErrUnknownCommand) {
			return y, err
		}
		return y, fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return next, nil
}

func (c *composer) banner(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"theme", "icon", "title", "subtitle"}}, c.data)
	if err != nil {
		return y, err
	}
	spec := layout.BannerSpec{
		Title:    a.text("title", a.content()),
		Subtitle: a.text("subtitle", ""),
		IconText: a.text("icon", ""),
	}
	if spec.Theme, err = a.theme("theme"); err != nil {
		return y, err
	}
	themeName := ""
	if cmd.Block != nil {
		fields := map[string]*string{"title": &spec.Title, "subtitle": &spec.Subtitle, "icon": &spec.IconText, "theme": &themeName}
		for _, st := range cmd.Block.Statements {
			switch {
			case st.Assignment != nil:
				if err := c.assign(st.Assignment, fields); err != nil {
					return y, err
				}
			case st.Command != nil && st.Command.Name == "badge":
				badge, err := c.badge(st.Command)
				if err != nil {
					return y, err
				}
				spec.Badges = append(spec.Badges, badge)
			default:
				return y, unexpected(st, cmd)
			}
		}
	}
	if themeName != "" {
		if spec.Theme, err = parseTheme(cmd.Pos, themeName); err != nil {
			return y, err
		}
	}
	return c.doc.TitleBanner(a.id, y, spec)
}

// badge 解析 `badge "标签" [主题]`。
func (c *composer) badge(cmd *dsl.Command) (layout.Badge, error) {
	if len(cmd.Args) == 0 || len(cmd.Args) > 2 {
		return layout.Badge{}, fmt.Errorf("%s: %w: badge 需要标签与可选的主题", cmd.Pos, ErrBadArgument)
	}
	badge := layout.Badge{Label: interpolate(cmd.Args[0], c.data)}
	if len(cmd.Args) == 2 {
		name, err := parseTheme(cmd.Args[1].Pos, interpolate(cmd.Args[1], c.data))
		if err != nil {
			return layout.Badge{}, err
		}
		badge.Theme = name
	}
	return badge, nil
}

func (c *composer) section(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"theme"}}, c.data)
	if err != nil {
		return y, err
	}
	name, err := a.theme("theme")
	if err != nil {
		return y, err
	}
	return c.doc.SectionHeader(a.id, y, a.content(), name)
}

func (c *composer) blockNumber(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"number", "duration", "theme"}}, c.data)
	if err != nil {
		return y, err
	}
	number, err := a.integer("number", 1)
	if err != nil {
		return y, err
	}
	name, err := a.theme("theme")
	if err != nil {
		return y, err
	}
	return c.doc.BlockNumber(a.id, y, number, a.content(), a.text("duration", ""), name)
}

var cardValues = []string{"theme", "tag", "title", "body"}

// cardSpec 读取卡片的参数与块内字段。
func (c *composer) cardSpec(a *args, block *dsl.Block) (layout.CardSpec, error) {
	spec := layout.CardSpec{
		Title:  a.text("title", a.content()),
		Body:   a.text("body", ""),
		Tag:    a.text("tag", ""),
		Shadow: a.flags["shadow"],
	}
	themeName := a.text("theme", "")
	if block != nil {
		fields := map[string]*string{"title": &spec.Title, "body": &spec.Body, "tag": &spec.Tag, "theme": &themeName}
		for _, st := range block.Statements {
			switch {
			case st.Assignment != nil:
				if err := c.assign(st.Assignment, fields); err != nil {
					return spec, err
				}
			case st.Text != nil:
				spec.Body = joinLines(spec.Body, binding.Interpolate(string(st.Text.Value), c.data))
			default:
				return spec, fmt.Errorf("%s: %w: card 内只允许字段与文本", statementPos(st, a.pos), ErrBadArgument)
			}
		}
	}
	if themeName != "" {
		name, err := parseTheme(a.pos, themeName)
		if err != nil {
			return spec, err
		}
		spec.Theme = name
	}
	return spec, nil
}

func (c *composer) card(cmd *dsl.Command, y float64) (float64, error) {
	schema := argSchema{id: true, values: append([]string{"x", "width", "height"}, cardValues...), flags: []string{"shadow"}}
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, schema, c.data)
	if err != nil {
		return y, err
	}
	x, err := a.number("x", layout.ContentX)
	if err != nil {
		return y, err
	}
	w, err := a.number("width", layout.ContentWidth)
	if err != nil {
		return y, err
	}
	h, err := a.number("height", 200)
	if err != nil {
		return y, err
	}
	spec, err := c.cardSpec(a, cmd.Block)
	if err != nil {
		return y, err
	}
	return c.doc.ContentCard(a.id, x, y, w, h, spec)
}

func (c *composer) cards(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"height", "gap", "padding"}}, c.data)
	if err != nil {
		return y, err
	}
	var row layout.RowSpec
	if row.Height, err = a.number("height", 0); err != nil {
		return y, err
	}
	if row.Gap, err = a.number("gap", 0); err != nil {
		return y, err
	}
	if row.Padding, err = a.number("padding", 0); err != nil {
		return y, err
	}

	var specs []layout.CardSpec
	if cmd.Block != nil {
		for _, st := range cmd.Block.Statements {
			if st.Command == nil || st.Command.Name != "card" {
				return y, unexpected(st, cmd)
			}
			inner := st.Command
			ca, err := parseArgs(inner.Pos, inner.Name, inner.Args, argSchema{values: cardValues, flags: []string{"shadow"}}, c.data)
			if err != nil {
				return y, err
			}
			spec, err := c.cardSpec(ca, inner.Block)
			if err != nil {
				return y, err
			}
			specs = append(specs, spec)
		}
	}
	return c.doc.Cards(a.id, y, specs, row)
}

func (c *composer) compare(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"height"}}, c.data)
	if err != nil {
		return y, err
	}
	spec := layout.ComparisonSpec{}
	if spec.Height, err = a.number("height", 0); err != nil {
		return y, err
	}
	if cmd.Block != nil {
		for _, st := range cmd.Block.Statements {
			if st.Command == nil {
				return y, unexpected(st, cmd)
			}
			col := st.Command
			title := ""
			if len(col.Args) > 0 {
				title = interpolate(col.Args[0], c.data)
			}
			items, err := c.literals(col.Block, col)
			if err != nil {
				return y, err
			}
			switch col.Name {
			case "negative":
				spec.NegativeTitle, spec.NegativeItems = title, items
			case "positive":
				spec.PositiveTitle, spec.PositiveItems = title, items
			default:
				return y, fmt.Errorf("%s: %w %q（compare 只接受 negative/positive）", col.Pos, ErrUnknownCommand, col.Name)
			}
		}
	}
	return c.doc.Comparison(a.id, y, spec)
}

func (c *composer) tip(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"emoji", "theme"}}, c.data)
	if err != nil {
		return y, err
	}
	name, err := a.theme("theme")
	if err != nil {
		return y, err
	}
	text := a.content()
	if cmd.Block != nil {
		lines, err := c.literals(cmd.Block, cmd)
		if err != nil {
			return y, err
		}
		text = joinLines(text, strings.Join(lines, "\n"))
	}
	return c.doc.TipBox(a.id, y, layout.TipSpec{Text: text, Emoji: a.text("emoji", ""), Theme: name})
}

func (c *composer) bullets(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"x", "size", "color", "theme"}}, c.data)
	if err != nil {
		return y, err
	}
	x, err := a.number("x", layout.ContentX)
	if err != nil {
		return y, err
	}
	size, err := a.number("size", 0)
	if err != nil {
		return y, err
	}
	name, err := a.theme("theme")
	if err != nil {
		return y, err
	}
	items, err := c.literals(cmd.Block, cmd)
	if err != nil {
		return y, err
	}
	return c.doc.BulletList(a.id, x, y, layout.BulletSpec{Items: items, Color: a.text("color", ""), FontSize: size, Theme: name})
}

func (c *composer) dots(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"x", "total", "active", "theme"}}, c.data)
	if err != nil {
		return y, err
	}
	x, err := a.number("x", layout.ContentX)
	if err != nil {
		return y, err
	}
	total, err := a.integer("total", 0)
	if err != nil {
		return y, err
	}
	active, err := a.integer("active", 0)
	if err != nil {
		return y, err
	}
	name, err := a.theme("theme")
	if err != nil {
		return y, err
	}
	return c.doc.ProgressDots(a.id, x, y, layout.DotsSpec{Total: total, Active: active, Theme: name})
}

func (c *composer) separator(cmd *dsl.Command, y float64) (float64, error) {
	a, err := parseArgs(cmd.Pos, cmd.Name, cmd.Args, argSchema{id: true, values: []string{"color"}}, c.data)
	if err != nil {
		return y, err
	}
	return c.doc.Separator(a.id, y, a.text("color", ""))
}

// spacer 只移动游标，不生成元素。
func (c *composer) spacer(cmd *dsl.Command, y float64) (float64, error) {
	if len(cmd.Args) != 1 || cmd.Block != nil {
		return y, fmt.Errorf("%s: %w: spacer 需要一个数值", cmd.Pos, ErrBadArgument)
	}
	dy, err := parseNumber(cmd.Args[0], c.data)
	if err != nil {
		return y, err
	}
	return y + dy, nil
}

// literals 收集块内的字符串字面量；块为空时返回 nil。
func (c *composer) literals(block *dsl.Block, owner *dsl.Command) ([]string, error) {
	if block == nil {
		return nil, nil
	}
	var out []string
	for _, st := range block.Statements {
		if st.Text == nil {
			return nil, unexpected(st, owner)
		}
		out = append(out, binding.Interpolate(string(st.Text.Value), c.data))
	}
	return out, nil
}

// assign 把块内赋值写入 fields 中对应的字符串；未知字段报错。
func (c *composer) assign(st *dsl.Assignment, fields map[string]*string) error {
	dst, ok := fields[st.Key]
	if !ok {
		return fmt.Errorf("%s: %w: 未知字段 %q", st.Pos, ErrBadArgument, st.Key)
	}
	*dst = c.value(st.Value)
	return nil
}

func (c *composer) value(v *dsl.Value) string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return binding.Interpolate(string(*v.String), c.data)
	case v.Array != nil:
		lines := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			lines = append(lines, c.value(item))
		}
		return strings.Join(lines, "\n")
	default:
		return v.Text()
	}
}

func joinLines(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n" + b
	}
}

func unexpected(st *dsl.Statement, owner *dsl.Command) error {
	what := "语句"
	switch {
	case st.Command != nil:
		return fmt.Errorf("%s: %w %q（位于 %s 内）", st.Command.Pos, ErrUnknownCommand, st.Command.Name, owner.Name)
	case st.Assignment != nil:
		what = "字段 " + st.Assignment.Key
	case st.Text != nil:
		what = "文本"
	}
	return fmt.Errorf("%s: %w: %s 不接受%s", statementPos(st, owner.Pos), ErrBadArgument, owner.Name, what)
}

func statementPos(st *dsl.Statement, fallback lexer.Position) lexer.Position {
	switch {
	case st.Command != nil:
		return st.Command.Pos
	case st.Assignment != nil:
		return st.Assignment.Pos
	case st.Text != nil:
		return st.Text.Pos
	default:
		return fallback
	}
}

// Themes 返回可在 deck 中使用的主题名。
func Themes() []theme.Name { return theme.Names() }
