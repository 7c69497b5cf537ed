package excalidraw

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/renderer"
)

// ErrNonFinite 表示元素的某个数值字段不是有限数，无法写入场景文件。
var ErrNonFinite = errors.New("数值不是有限数")

// 场景信封的固定取值。
const (
	SceneType       = "excalidraw"
	SceneVersion    = 2
	DefaultSource   = "https://excalidraw.com"
	DefaultBackdrop = "#f8f9fa"
)

// Exporter 把文档序列化为可直接拖入 Excalidraw 的 JSON 场景。
type Exporter struct {
	Source     string
	Background string
	// Compact 为 true 时不缩进输出。
	Compact bool
}

var _ renderer.Renderer = (*Exporter)(nil)

// New 返回使用默认信封字段的导出器。
func New() *Exporter {
	return &Exporter{Source: DefaultSource, Background: DefaultBackdrop}
}

// Scene 是 .excalidraw 文件的顶层结构。
type Scene struct {
	Type     string         `json:"type"`
	Version  int            `json:"version"`
	Source   string         `json:"source"`
	Elements []any          `json:"elements"`
	AppState AppState       `json:"appState"`
	Files    map[string]any `json:"files"`
}

// AppState 是画布的视图状态。
type AppState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	GridSize            int    `json:"gridSize"`
	GridStep            int    `json:"gridStep"`
	GridModeEnabled     bool   `json:"gridModeEnabled"`
}

type roundness struct {
	Type int `json:"type"`
}

type baseElement struct {
	ID              string     `json:"id"`
	Type            string     `json:"type"`
	X               float64    `json:"x"`
	Y               float64    `json:"y"`
	Width           float64    `json:"width"`
	Height          float64    `json:"height"`
	Angle           float64    `json:"angle"`
	StrokeColor     string     `json:"strokeColor"`
	BackgroundColor string     `json:"backgroundColor"`
	FillStyle       string     `json:"fillStyle"`
	StrokeWidth     float64    `json:"strokeWidth"`
	StrokeStyle     string     `json:"strokeStyle"`
	Roughness       int        `json:"roughness"`
	Opacity         int        `json:"opacity"`
	GroupIDs        []string   `json:"groupIds"`
	FrameID         *string    `json:"frameId"`
	Roundness       *roundness `json:"roundness"`
	IsDeleted       bool       `json:"isDeleted"`
	BoundElements   []any      `json:"boundElements"`
	Locked          bool       `json:"locked"`
	Seed            int64      `json:"seed"`
	Version         int        `json:"version"`
	VersionNonce    int64      `json:"versionNonce"`
}

type textElement struct {
	baseElement
	Text          string  `json:"text"`
	FontSize      float64 `json:"fontSize"`
	FontFamily    int     `json:"fontFamily"`
	TextAlign     string  `json:"textAlign"`
	VerticalAlign string  `json:"verticalAlign"`
	ContainerID   *string `json:"containerId"`
	OriginalText  string  `json:"originalText"`
	AutoResize    bool    `json:"autoResize"`
	LineHeight    float64 `json:"lineHeight"`
}

type lineElement struct {
	baseElement
	Points         [][2]float64 `json:"points"`
	StartBinding   *string      `json:"startBinding"`
	EndBinding     *string      `json:"endBinding"`
	StartArrowhead *string      `json:"startArrowhead"`
	EndArrowhead   *string      `json:"endArrowhead"`
}

// FontCode 返回字体族在 Excalidraw 中的编号。
func FontCode(f layout.FontFamily) int {
	switch f {
	case layout.FontHandDrawn:
		return 5
	case layout.FontDisplay:
		return 7
	case layout.FontMono:
		return 8
	default:
		return 6
	}
}

// Render 实现 renderer.Renderer。
func (e *Exporter) Render(doc *layout.Document) ([]byte, error) {
	scene, err := e.Scene(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !e.Compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(scene); err != nil {
		return nil, fmt.Errorf("编码场景失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Scene 把文档转换为场景结构，元素保持文档中的绘制顺序。
func (e *Exporter) Scene(doc *layout.Document) (Scene, error) {
	if doc == nil {
		return Scene{}, fmt.Errorf("文档为空")
	}
	source := e.Source
	if source == "" {
		source = DefaultSource
	}
	background := e.Background
	if background == "" {
		background = DefaultBackdrop
	}

	els := doc.Elements()
	out := make([]any, 0, len(els))
	for _, el := range els {
		converted, err := convert(el)
		if err != nil {
			return Scene{}, err
		}
		out = append(out, converted)
	}
	return Scene{
		Type:     SceneType,
		Version:  SceneVersion,
		Source:   source,
		Elements: out,
		AppState: AppState{
			ViewBackgroundColor: background,
			GridSize:            20,
			GridStep:            5,
			GridModeEnabled:     false,
		},
		Files: map[string]any{},
	}, nil
}

func convert(el layout.Element) (any, error) {
	if err := checkFinite(el); err != nil {
		return nil, err
	}
	base := baseElement{
		ID:              el.ID,
		Type:            string(el.Kind),
		X:               el.X,
		Y:               el.Y,
		Width:           el.Width,
		Height:          el.Height,
		StrokeColor:     el.StrokeColor,
		BackgroundColor: el.BackgroundColor,
		FillStyle:       "solid",
		StrokeWidth:     el.StrokeWidth,
		StrokeStyle:     "solid",
		Roughness:       1,
		Opacity:         el.Opacity,
		GroupIDs:        []string{},
		BoundElements:   []any{},
		Seed:            el.Seed,
		Version:         1,
		VersionNonce:    1,
	}
	if el.Roundness > 0 {
		base.Roundness = &roundness{Type: el.Roundness}
	}

	switch el.Kind {
	case layout.KindText:
		if el.Text == nil {
			return nil, fmt.Errorf("元素 %q: 文本属性缺失", el.ID)
		}
		return textElement{
			baseElement:   base,
			Text:          el.Text.Content,
			FontSize:      el.Text.FontSize,
			FontFamily:    FontCode(el.Text.Family),
			TextAlign:     string(el.Text.Align),
			VerticalAlign: "top",
			OriginalText:  el.Text.Content,
			AutoResize:    true,
			LineHeight:    layout.DefaultLineHeight,
		}, nil
	case layout.KindLine:
		points := el.Points
		if len(points) == 0 {
			points = [][2]float64{{0, 0}, {el.Width, el.Height}}
		}
		return lineElement{baseElement: base, Points: points}, nil
	default:
		return base, nil
	}
}

func checkFinite(el layout.Element) error {
	values := map[string]float64{
		"x":           el.X,
		"y":           el.Y,
		"width":       el.Width,
		"height":      el.Height,
		"strokeWidth": el.StrokeWidth,
	}
	if el.Text != nil {
		values["fontSize"] = el.Text.FontSize
	}
	for i, p := range el.Points {
		values[fmt.Sprintf("points[%d].x", i)] = p[0]
		values[fmt.Sprintf("points[%d].y", i)] = p[1]
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("元素 %q 的 %s: %w", el.ID, name, ErrNonFinite)
		}
	}
	return nil
}
