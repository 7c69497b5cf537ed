package canvasrenderer

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/sketchdeck/layout"
)

// shapesOnly 构造两张只含形状的幻灯片，渲染时不需要任何字体。
func shapesOnly(t *testing.T) *layout.Document {
	t.Helper()
	d := layout.New(layout.Options{SeedSource: layout.FixedSeed(100000)})
	y := 0.0
	for _, id := range []string{"one", "two"} {
		if _, err := d.BeginSlide(id, y, 200); err != nil {
			t.Fatalf("创建幻灯片失败: %v", err)
		}
		if _, err := d.Shadow(id+"-card", 42, y+30, 300, 100); err != nil {
			t.Fatalf("创建阴影失败: %v", err)
		}
		if _, err := d.Ellipse(id+"-dot", 60, y+40, 50, 50, layout.ShapeStyle{Fill: "#228be6", Stroke: "#1971c2"}); err != nil {
			t.Fatalf("创建圆形失败: %v", err)
		}
		if _, err := d.Diamond(id+"-dia", 400, y+40, 12, 12, layout.ShapeStyle{}); err != nil {
			t.Fatalf("创建菱形失败: %v", err)
		}
		if _, err := d.Line(id+"-sep", 92, y+160, 800, layout.LineStyle{Color: "#be4bdb"}); err != nil {
			t.Fatalf("创建分隔线失败: %v", err)
		}
		if _, err := d.CloseSlide(id, y+170); err != nil {
			t.Fatalf("确定幻灯片高度失败: %v", err)
		}
		y = layout.NextSlideY(y + 200)
	}
	return d
}

func TestRenderPDF(t *testing.T) {
	r := NewRenderer(Options{Info: Info{Title: "Demo"}})
	data, err := r.Render(shapesOnly(t))
	if err != nil {
		t.Fatalf("渲染 PDF 失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("输出不是 PDF: %q", data[:min(len(data), 16)])
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Fatalf("PDF 缺少结尾标记")
	}
}

func TestRenderPNGMatchesBounds(t *testing.T) {
	d := shapesOnly(t)
	r := NewRenderer(Options{Format: FormatPNG})
	data, err := r.Render(d)
	if err != nil {
		t.Fatalf("渲染 PNG 失败: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("解码 PNG 失败: %v", err)
	}
	b := d.Bounds()
	if dx := float64(img.Bounds().Dx()); math.Abs(dx-b.Width) > 1 {
		t.Fatalf("PNG 宽度期望约 %g，实际 %g", b.Width, dx)
	}
	if dy := float64(img.Bounds().Dy()); math.Abs(dy-b.Height) > 1 {
		t.Fatalf("PNG 高度期望约 %g，实际 %g", b.Height, dy)
	}
}

func TestRenderSVG(t *testing.T) {
	r := NewRenderer(Options{Format: FormatSVG})
	data, err := r.Render(shapesOnly(t))
	if err != nil {
		t.Fatalf("渲染 SVG 失败: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("输出不是 SVG")
	}
}

func TestRenderTextWithoutFontFails(t *testing.T) {
	d := layout.New(layout.Options{})
	if _, err := d.Text("t", 0, 0, "hello", layout.TextStyle{}); err != nil {
		t.Fatalf("创建文本失败: %v", err)
	}
	_, err := NewRenderer(Options{}).Render(d)
	if err == nil || !strings.Contains(err.Error(), ErrNoFont.Error()) {
		t.Fatalf("期望缺少字体的错误，实际 %v", err)
	}

	_, err = NewRenderer(Options{Fonts: map[layout.FontFamily]string{layout.FontSans: "/nonexistent/font.ttf"}}).Render(d)
	if err == nil {
		t.Fatalf("字体文件不存在时应返回错误")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	r := NewRenderer(Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("空文档应返回错误")
	}
	if _, err := r.Render(layout.New(layout.Options{})); err == nil {
		t.Fatalf("没有元素的文档应返回错误")
	}
	if _, err := NewRenderer(Options{Format: "gif"}).Render(shapesOnly(t)); err == nil {
		t.Fatalf("未知格式应返回错误")
	}
}

func TestPaintOpacity(t *testing.T) {
	if _, _, _, a := paint("transparent", 100).RGBA(); a != 0 {
		t.Fatalf("transparent 应完全透明")
	}
	_, _, _, a := paint("#adb5bd", 40).RGBA()
	if want := uint32(0xffff * 40 / 100); math.Abs(float64(a)-float64(want)) > 0x200 {
		t.Fatalf("不透明度 40 的 alpha 期望约 %d，实际 %d", want, a)
	}
	_, _, _, full := paint("#adb5bd", 100).RGBA()
	if full != 0xffff {
		t.Fatalf("不透明度 100 应完全不透明，实际 %d", full)
	}
}

func TestPagesFollowSlides(t *testing.T) {
	ps := pages(shapesOnly(t))
	if len(ps) != 2 {
		t.Fatalf("期望每张幻灯片一页，实际 %d 页", len(ps))
	}
	if ps[0].bounds.Y != 0 || ps[1].bounds.Y != 320 {
		t.Fatalf("页面起点错误: %+v", ps)
	}
	if ps[0].bounds.Height != 200 || ps[1].bounds.Height != 200 {
		t.Fatalf("页面高度应等于幻灯片高度: %+v", ps)
	}

	d := layout.New(layout.Options{})
	if _, err := d.Rect("r", 10, 10, 50, 20, layout.ShapeStyle{}); err != nil {
		t.Fatalf("创建矩形失败: %v", err)
	}
	if ps := pages(d); len(ps) != 1 || ps[0].bounds != d.Bounds() {
		t.Fatalf("没有幻灯片时应整体一页: %+v", ps)
	}
}
