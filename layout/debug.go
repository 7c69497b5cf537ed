package layout

import (
	"encoding/json"
	"os"
)

// Snapshot 是文档在某一时刻的可序列化视图，用于调试输出与测试比对。
type Snapshot struct {
	Elements []Element `json:"elements"`
	Slides   []Slide   `json:"slides"`
	Bounds   Bounds    `json:"bounds"`
}

// Snapshot 返回文档当前状态的副本。
func (d *Document) Snapshot() Snapshot {
	return Snapshot{
		Elements: d.Elements(),
		Slides:   d.Slides(),
		Bounds:   d.Bounds(),
	}
}

// Bounds 返回所有元素的外接矩形；空文档返回零值。
func (d *Document) Bounds() Bounds {
	if len(d.elements) == 0 {
		return Bounds{}
	}
	minX, minY := d.elements[0].X, d.elements[0].Y
	maxX, maxY := d.elements[0].Right(), d.elements[0].Bottom()
	for _, e := range d.elements[1:] {
		minX = min(minX, e.X)
		minY = min(minY, e.Y)
		maxX = max(maxX, e.Right())
		maxY = max(maxY, e.Bottom())
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
