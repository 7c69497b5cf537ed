package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/sketchdeck/config"
	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/renderer"
	canvasrenderer "github.com/ByLCY/sketchdeck/renderer/canvas"
	"github.com/ByLCY/sketchdeck/renderer/excalidraw"
)

// outputPaths 是一次构建要写出的产物路径；空字符串表示不输出。
type outputPaths struct {
	Excalidraw string
	Preview    string
	Debug      string
}

// withDefaults 用配置中的路径补齐未在命令行给出的项。
func (p outputPaths) withDefaults(cfg config.OutputConfig) outputPaths {
	if p.Excalidraw == "" {
		p.Excalidraw = cfg.Excalidraw
	}
	if p.Preview == "" {
		p.Preview = cfg.Preview
	}
	if p.Debug == "" {
		p.Debug = cfg.Debug
	}
	return p
}

type artifact struct {
	Kind string
	Path string
	Size int
}

// writeOutputs 依次写出 Excalidraw 文档、调试 JSON 与预览。
func (e *environment) writeOutputs(doc *layout.Document, meta map[string]string, paths outputPaths) ([]artifact, error) {
	var out []artifact

	if paths.Excalidraw != "" {
		data, err := excalidraw.New().Render(doc)
		if err != nil {
			return nil, fmt.Errorf("导出 Excalidraw 失败: %w", err)
		}
		if err := writeFile(paths.Excalidraw, data); err != nil {
			return nil, err
		}
		out = append(out, artifact{Kind: "excalidraw", Path: paths.Excalidraw, Size: len(data)})
	}

	if paths.Debug != "" {
		if err := os.MkdirAll(filepath.Dir(paths.Debug), 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(doc, paths.Debug); err != nil {
			return nil, fmt.Errorf("写入调试 JSON 失败: %w", err)
		}
		out = append(out, artifact{Kind: "debug", Path: paths.Debug})
	}

	if paths.Preview != "" {
		r, format, err := e.previewRenderer(paths.Preview, meta)
		if err != nil {
			return nil, err
		}
		data, err := r.Render(doc)
		if err != nil {
			return nil, fmt.Errorf("渲染预览失败: %w", err)
		}
		if err := writeFile(paths.Preview, data); err != nil {
			return nil, err
		}
		out = append(out, artifact{Kind: format, Path: paths.Preview, Size: len(data)})
	}

	for _, a := range out {
		e.log.WithFields(map[string]any{"kind": a.Kind, "path": a.Path, "bytes": a.Size}).Info("已写出")
	}
	return out, nil
}

func (e *environment) previewRenderer(path string, meta map[string]string) (renderer.Renderer, string, error) {
	fonts, err := e.cfg.FontFiles()
	if err != nil {
		return nil, "", err
	}
	format := config.FormatFromPath(path, e.cfg.Renderer.Format)
	var keywords []string
	for _, k := range strings.Split(meta["keywords"], ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return canvasrenderer.NewRenderer(canvasrenderer.Options{
		Format:     format,
		DPI:        e.cfg.Renderer.DPI,
		Fonts:      fonts,
		SystemFont: e.cfg.Renderer.SystemFont,
		Info: canvasrenderer.Info{
			Title:    meta["title"],
			Subject:  meta["subject"],
			Keywords: keywords,
			Author:   meta["author"],
		},
		Logger: e.log,
	}), format, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	summaryLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(12)
	summaryPath  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// renderSummary 生成构建结束后的简要报告。
func renderSummary(title string, doc *layout.Document, artifacts []artifact) string {
	var b strings.Builder
	b.WriteString(summaryTitle.Render(title))
	b.WriteString("\n")
	line := func(label, value string) {
		b.WriteString(summaryLabel.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	line("slides", fmt.Sprint(len(doc.Slides())))
	line("elements", fmt.Sprint(doc.Len()))
	bounds := doc.Bounds()
	line("bounds", fmt.Sprintf("%.0f×%.0f", bounds.Width, bounds.Height))
	for _, a := range artifacts {
		value := summaryPath.Render(a.Path)
		if a.Size > 0 {
			value += fmt.Sprintf(" (%d bytes)", a.Size)
		}
		line(a.Kind, value)
	}
	return b.String()
}
