package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/sketchdeck/internal/logger"
	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/renderer"
)

// 支持的输出格式。
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrNoFont 表示文档含有文本，但没有为对应字体族配置任何字体。
var ErrNoFont = errors.New("没有可用的字体")

const (
	pxToPt         = 72.0 / 96
	maxCornerPx    = 32.0
	cornerFraction = 0.25
)

// Info 写入 PDF 文档属性。
type Info struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
}

// Options configures the canvas renderer.
type Options struct {
	Format string
	// DPI 只影响 PNG 输出，默认 96（一个文档像素对应一个图像像素）。
	DPI float64
	// Fonts 为各字体族指定字体文件；缺失的字体族使用 SystemFont。
	Fonts      map[layout.FontFamily]string
	SystemFont string
	Info       Info
	Logger     *logger.Logger
}

// Renderer draws a layout document via github.com/tdewolff/canvas.
// Document coordinates are CSS pixels; canvas works in millimetres.
type Renderer struct {
	opts Options

	fontMu       sync.Mutex
	fontFamilies map[layout.FontFamily]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	if opts.DPI <= 0 {
		opts.DPI = 96
	}
	return &Renderer{
		opts:         opts,
		fontFamilies: map[layout.FontFamily]*canvas.FontFamily{},
	}
}

// page 是一页输出在文档坐标中的范围。
type page struct {
	bounds layout.Bounds
}

// Render 按配置的格式输出文档。PDF 每张幻灯片一页；PNG/SVG 输出整个文档的外接矩形。
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染文档为空")
	}
	if doc.Len() == 0 {
		return nil, fmt.Errorf("缺少可渲染的元素")
	}
	switch strings.ToLower(r.opts.Format) {
	case FormatPDF:
		return r.renderPDF(doc)
	case FormatPNG:
		return r.renderImage(doc, renderers.PNG(canvas.DPI(r.opts.DPI)))
	case FormatSVG:
		return r.renderImage(doc, renderers.SVG())
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.opts.Format)
	}
}

// pages 为每张已登记的幻灯片生成一页；没有幻灯片时整个文档作为一页。
func pages(doc *layout.Document) []page {
	all := doc.Bounds()
	slides := doc.Slides()
	if len(slides) == 0 {
		return []page{{bounds: all}}
	}
	out := make([]page, 0, len(slides))
	for _, s := range slides {
		out = append(out, page{bounds: layout.Bounds{X: all.X, Y: s.Y, Width: all.Width, Height: s.Height}})
	}
	return out
}

func (r *Renderer) renderPDF(doc *layout.Document) ([]byte, error) {
	ps := pages(doc)
	els := doc.Elements()

	var buf bytes.Buffer
	first := ps[0].bounds
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	r.applyInfo(writer)
	for i, p := range ps {
		w, h := toMm(p.bounds.Width), toMm(p.bounds.Height)
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawElements(ctx, p.bounds, els); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
		r.opts.Logger.WithFields(map[string]any{"page": i + 1, "width": w, "height": h}).Debug("PDF 页面已绘制")
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderImage(doc *layout.Document, write canvas.Writer) ([]byte, error) {
	bounds := doc.Bounds()
	c := canvas.New(toMm(bounds.Width), toMm(bounds.Height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	if err := r.drawElements(ctx, bounds, doc.Elements()); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := write(&buf, c); err != nil {
		return nil, fmt.Errorf("写入 %s 失败: %w", r.opts.Format, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyInfo(writer *pdf.PDF) {
	info := r.opts.Info
	writer.SetInfo(info.Title, info.Subject, strings.Join(info.Keywords, ", "), info.Author, "sketchdeck")
}

// drawElements 以绘制顺序绘制与 view 纵向相交的元素，坐标相对 view 的左上角。
func (r *Renderer) drawElements(ctx *canvas.Context, view layout.Bounds, els []layout.Element) error {
	for _, el := range els {
		if el.Bottom() < view.Y || el.Y > view.Y+view.Height {
			continue
		}
		x, y := toMm(el.X-view.X), toMm(el.Y-view.Y)
		var err error
		switch el.Kind {
		case layout.KindRectangle:
			r.applyShape(ctx, el)
			ctx.DrawPath(x, y, rectPath(el))
		case layout.KindEllipse:
			r.applyShape(ctx, el)
			rx, ry := toMm(el.Width)/2, toMm(el.Height)/2
			ctx.DrawPath(x+rx, y+ry, canvas.Ellipse(rx, ry))
		case layout.KindDiamond:
			r.applyShape(ctx, el)
			ctx.DrawPath(x, y, diamondPath(toMm(el.Width), toMm(el.Height)))
		case layout.KindLine:
			ctx.SetFillColor(canvas.Transparent)
			ctx.SetStrokeColor(paint(el.StrokeColor, el.Opacity))
			ctx.SetStrokeWidth(toMm(el.StrokeWidth))
			ctx.DrawPath(x, y, linePath(el))
		case layout.KindText:
			err = r.drawText(ctx, x, y, el)
		default:
			err = fmt.Errorf("元素 %q: 未知类型 %q", el.ID, el.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) applyShape(ctx *canvas.Context, el layout.Element) {
	ctx.SetFillColor(paint(el.BackgroundColor, el.Opacity))
	ctx.SetStrokeColor(paint(el.StrokeColor, el.Opacity))
	ctx.SetStrokeWidth(toMm(el.StrokeWidth))
}

// rectPath 按 Excalidraw 的自适应圆角绘制矩形：短边的四分之一，最多 32px。
func rectPath(el layout.Element) *canvas.Path {
	w, h := toMm(el.Width), toMm(el.Height)
	if el.Roundness <= 0 {
		return canvas.Rectangle(w, h)
	}
	radius := math.Min(math.Min(el.Width, el.Height)*cornerFraction, maxCornerPx)
	return canvas.RoundedRectangle(w, h, toMm(radius))
}

func diamondPath(w, h float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(w/2, 0)
	p.LineTo(w, h/2)
	p.LineTo(w/2, h)
	p.LineTo(0, h/2)
	p.Close()
	return p
}

func linePath(el layout.Element) *canvas.Path {
	points := el.Points
	if len(points) < 2 {
		points = [][2]float64{{0, 0}, {el.Width, el.Height}}
	}
	p := &canvas.Path{}
	p.MoveTo(toMm(points[0][0]), toMm(points[0][1]))
	for _, pt := range points[1:] {
		p.LineTo(toMm(pt[0]), toMm(pt[1]))
	}
	return p
}

func (r *Renderer) drawText(ctx *canvas.Context, x, y float64, el layout.Element) error {
	if el.Text == nil {
		return fmt.Errorf("元素 %q: 文本属性缺失", el.ID)
	}
	if el.Text.Content == "" {
		return nil
	}
	family, err := r.ensureFontFamily(el.Text.Family)
	if err != nil {
		return fmt.Errorf("元素 %q: %w", el.ID, err)
	}
	face := family.Face(el.Text.FontSize*pxToPt, paint(el.StrokeColor, el.Opacity), canvas.FontRegular, canvas.FontNormal)

	var textAlign canvas.TextAlign
	anchorX := x
	switch el.Text.Align {
	case layout.AlignCenter:
		textAlign = canvas.Center
		anchorX = x + toMm(el.Width)/2
	case layout.AlignRight:
		textAlign = canvas.Right
		anchorX = x + toMm(el.Width)
	default:
		textAlign = canvas.Left
	}

	lineHeight := toMm(el.Text.FontSize * layout.DefaultLineHeight)
	ascent := face.Metrics().Ascent
	for i, line := range strings.Split(el.Text.Content, "\n") {
		baseline := y + float64(i)*lineHeight + ascent
		ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line, textAlign))
	}
	return nil
}

// ensureFontFamily 按需加载字体族；只有在文档真正包含文本时才会触及字体。
func (r *Renderer) ensureFontFamily(f layout.FontFamily) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[f]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily(f.String())
	switch path := r.opts.Fonts[f]; {
	case path != "":
		if err := family.LoadFontFile(path, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", path, err)
		}
	case r.opts.SystemFont != "":
		if err := family.LoadSystemFont(r.opts.SystemFont, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载系统字体 %s 失败: %w", r.opts.SystemFont, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoFont, f)
	}
	r.opts.Logger.With("family", f.String()).Debug("字体已加载")
	r.fontFamilies[f] = family
	return family, nil
}

// paint 把 "#rrggbb" 或 transparent 转换为颜色，并按 0-100 的不透明度缩放。
func paint(hex string, opacity int) color.Color {
	if hex == "" || strings.EqualFold(hex, layout.Transparent) {
		return canvas.Transparent
	}
	c := canvas.Hex(hex)
	if opacity >= 100 {
		return c
	}
	a := float64(max(opacity, 0)) / 100
	// color.RGBA 是预乘 alpha 的，四个分量一起缩放
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// toMm 将文档像素转换为毫米。
func toMm(px float64) float64 { return px * layout.PxToMm }
