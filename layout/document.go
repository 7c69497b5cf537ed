package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/sketchdeck/internal/logger"
)

// Document 持有有序的元素序列、已登记的幻灯片范围与种子计数器。
// 元素只追加、不删除、不重排；唯一允许的事后修改是 FinalizeSlideHeight。
// Document 不是并发安全的，但不同 Document 之间没有共享状态。
type Document struct {
	elements []Element
	index    map[string]int
	slides   []Slide
	slideIdx map[string]int
	seed     int64
	measurer Measurer
	log      *logger.Logger
}

// New 创建一个空文档。
func New(opts Options) *Document {
	src := opts.SeedSource
	if src == nil {
		src = globalSource{}
	}
	m := opts.Measurer
	if m == nil {
		m = DefaultEstimator()
	}
	return &Document{
		index:    map[string]int{},
		slideIdx: map[string]int{},
		seed:     seedMin + src.Int64N(seedSpan),
		measurer: m,
		log:      opts.Logger,
	}
}

// Measurer 返回文档使用的文本估算器。
func (d *Document) Measurer() Measurer { return d.measurer }

// Len 返回元素数量。
func (d *Document) Len() int { return len(d.elements) }

// Elements 以绘制顺序返回全部元素的副本。
func (d *Document) Elements() []Element {
	out := make([]Element, len(d.elements))
	for i, e := range d.elements {
		out[i] = e.clone()
	}
	return out
}

// Element 按标识查找元素。
func (d *Document) Element(id string) (Element, bool) {
	i, ok := d.index[id]
	if !ok {
		return Element{}, false
	}
	return d.elements[i].clone(), true
}

// Slides 返回已登记的幻灯片范围。
func (d *Document) Slides() []Slide {
	return append([]Slide(nil), d.slides...)
}

// batch 暂存一次组件调用产生的全部图元；只有在全部图元都合法时才提交，
// 因此失败的调用不会在文档中留下半个组件，也不会消耗种子。
type batch struct {
	doc   *Document
	elems []Element
	ids   map[string]struct{}
	seed  int64
}

func (d *Document) emit(fn func(b *batch) error) error {
	b := &batch{doc: d, ids: map[string]struct{}{}, seed: d.seed}
	if err := fn(b); err != nil {
		return err
	}
	for _, e := range b.elems {
		d.index[e.ID] = len(d.elements)
		d.elements = append(d.elements, e)
	}
	d.seed = b.seed
	return nil
}

func (b *batch) add(e Element) (Element, error) {
	if e.ID == "" {
		return Element{}, fmt.Errorf("%s: %w", e.Kind, ErrEmptyIdentity)
	}
	if err := validateElement(e); err != nil {
		return Element{}, fmt.Errorf("%s %q: %w", e.Kind, e.ID, err)
	}
	if _, ok := b.doc.index[e.ID]; ok {
		return Element{}, fmt.Errorf("%w: %q", ErrDuplicateIdentity, e.ID)
	}
	if _, ok := b.ids[e.ID]; ok {
		return Element{}, fmt.Errorf("%w: %q", ErrDuplicateIdentity, e.ID)
	}
	b.seed++
	e.Seed = b.seed
	b.ids[e.ID] = struct{}{}
	b.elems = append(b.elems, e)
	return e.clone(), nil
}

// measure 使用文档的估算器。
func (b *batch) measure(text string, size float64, family FontFamily) (float64, float64) {
	return b.doc.measurer.Measure(text, size, family)
}

func validateElement(e Element) error {
	for name, v := range map[string]float64{"x": e.X, "y": e.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidDimension, name, v)
		}
	}
	for name, v := range map[string]float64{"width": e.Width, "height": e.Height, "strokeWidth": e.StrokeWidth} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidDimension, name, v)
		}
	}
	if e.Opacity < 0 || e.Opacity > 100 {
		return fmt.Errorf("%w: opacity=%d", ErrInvalidDimension, e.Opacity)
	}
	if e.Text != nil {
		fs := e.Text.FontSize
		if math.IsNaN(fs) || math.IsInf(fs, 0) || fs <= 0 {
			return fmt.Errorf("%w: fontSize=%v", ErrInvalidDimension, fs)
		}
	}
	return nil
}
