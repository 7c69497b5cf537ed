package layout

import (
	"fmt"
	"math"
)

// SlidePadding 是幻灯片背景与其首个/末个组件之间的内边距。
const SlidePadding = 30.0

const (
	slideFill   = "#f8f9fa"
	slideStroke = "#ced4da"
)

// BeginSlide 生成幻灯片背景并登记其范围。heightGuess 只是临时高度，
// 内容排完后应调用 FinalizeSlideHeight 或 CloseSlide 修正。
func (d *Document) BeginSlide(id string, y, heightGuess float64) (Element, error) {
	var out Element
	err := d.emit(func(b *batch) (err error) {
		out, err = b.rect(id, SlideX, y, SlideWidth, heightGuess, ShapeStyle{Fill: slideFill, Stroke: slideStroke})
		return err
	})
	if err != nil {
		return Element{}, fmt.Errorf("幻灯片 %q: %w", id, err)
	}
	d.slideIdx[id] = len(d.slides)
	d.slides = append(d.slides, Slide{ID: id, Y: y, Height: heightGuess})
	d.log.WithFields(map[string]any{"slide": id, "y": y, "guess": heightGuess}).Debug("幻灯片已登记")
	return out, nil
}

// FinalizeSlideHeight 按标识找到此前登记的幻灯片背景并覆写其高度。
// 只修改这一个元素，其余元素保持不变。
func (d *Document) FinalizeSlideHeight(id string, height float64) error {
	si, ok := d.slideIdx[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlide, id)
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height < 0 {
		return fmt.Errorf("幻灯片 %q: %w: height=%v", id, ErrInvalidDimension, height)
	}
	ei := d.index[id]
	d.elements[ei].Height = height
	d.slides[si].Height = height
	d.log.WithFields(map[string]any{"slide": id, "height": height}).Debug("幻灯片高度已确定")
	return nil
}

// CloseSlide 以内容底部 bottomY 计算幻灯片高度（加上底部内边距）并确定之，返回最终高度。
func (d *Document) CloseSlide(id string, bottomY float64) (float64, error) {
	si, ok := d.slideIdx[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSlide, id)
	}
	height := bottomY - d.slides[si].Y + SlidePadding
	if err := d.FinalizeSlideHeight(id, height); err != nil {
		return 0, err
	}
	return height, nil
}

// SlideContentTop 返回幻灯片内第一个组件的起始 Y。
func SlideContentTop(slideY float64) float64 { return slideY + SlidePadding }

// NextSlideY 返回下一张幻灯片的起始 Y。
func NextSlideY(bottomY float64) float64 { return bottomY + GapBetweenSlides }
