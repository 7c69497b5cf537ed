// Package demo 通过 layout 的 Go API 构建一份三页的示例演示文稿。
// 同样的内容也以 deck 文本形式提供（Source），两者应产生相同的元素序列。
package demo

import (
	_ "embed"
	"fmt"

	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/theme"
)

// Source 是与 Build 等价的 deck 描述。
//
//go:embed demo.deck
var Source string

// Build 把三张示例幻灯片追加到 doc，返回最后一张幻灯片的底部 Y。
func Build(doc *layout.Document) (float64, error) {
	y := 0.0
	bottom, err := titleSlide(doc, y)
	if err != nil {
		return y, fmt.Errorf("幻灯片 1: %w", err)
	}
	y = layout.NextSlideY(bottom)
	bottom, err = contentSlide(doc, y)
	if err != nil {
		return y, fmt.Errorf("幻灯片 2: %w", err)
	}
	y = layout.NextSlideY(bottom)
	bottom, err = closingSlide(doc, y)
	if err != nil {
		return y, fmt.Errorf("幻灯片 3: %w", err)
	}
	return bottom, nil
}

func titleSlide(doc *layout.Document, y float64) (float64, error) {
	if _, err := doc.BeginSlide("s1-bg", y, 800); err != nil {
		return y, err
	}
	pos, err := doc.TitleBanner("s1-header", layout.SlideContentTop(y), layout.BannerSpec{
		Title:    "DEMO ПРЕЗЕНТАЦИЯ",
		Subtitle: "Пример canvas-презентации",
		Theme:    theme.Purple,
		IconText: "🎯",
		Badges:   []layout.Badge{{Label: "ДЕМО", Theme: theme.Blue}, {Label: "5 мин", Theme: theme.Green}},
	})
	if err != nil {
		return y, err
	}
	if pos, err = doc.SectionHeader("s1-section", pos, "ЧТО ТЫ УВИДИШЬ В ЭТОЙ ДЕМО", theme.Blue); err != nil {
		return y, err
	}
	pos, err = doc.TwoCards("s1-cards", pos,
		layout.CardSpec{
			Title: "📦 Компоненты",
			Body:  "Готовые визуальные блоки:\n• Заголовки и баннеры\n• Карточки контента\n• Сравнения\n• Подсказки",
			Tag:   "LEGO",
			Theme: theme.Orange,
		},
		layout.CardSpec{
			Title: "🎨 Стилизация",
			Body:  "Профессиональный дизайн:\n• 9 цветовых тем\n• Тени и глубина\n• Типографика\n• Скетч-стиль",
			Tag:   "ДИЗАЙН",
			Theme: theme.Purple,
		},
		220,
	)
	if err != nil {
		return y, err
	}
	if pos, err = doc.TipBox("s1-tip", pos, layout.TipSpec{Text: "Это всё генерируется автоматически из deck-файла!"}); err != nil {
		return y, err
	}
	if _, err := doc.CloseSlide("s1-bg", pos); err != nil {
		return y, err
	}
	return pos, nil
}

func contentSlide(doc *layout.Document, y float64) (float64, error) {
	if _, err := doc.BeginSlide("s2-bg", y, 100); err != nil {
		return y, err
	}
	pos, err := doc.BlockNumber("s2-block", layout.SlideContentTop(y), 1, "СРАВНЕНИЕ ПОДХОДОВ", "3 мин", theme.Blue)
	if err != nil {
		return y, err
	}
	pos += 20
	if pos, err = doc.SectionHeader("s2-section", pos, "🔧 РУЧНОЙ КОД vs ВАЙБКОДИНГ", theme.Green); err != nil {
		return y, err
	}
	pos, err = doc.Comparison("s2-compare", pos, layout.ComparisonSpec{
		NegativeTitle: "РУЧНОЙ КОД",
		NegativeItems: []string{"Часы на бойлерплейт", "Забытые edge cases", "Устаревшие паттерны"},
		PositiveTitle: "ВАЙБКОДИНГ",
		PositiveItems: []string{"Фокус на логике", "AI покрывает edge cases", "Актуальные best practices"},
	})
	if err != nil {
		return y, err
	}
	pos, err = doc.TipBox("s2-tip", pos, layout.TipSpec{
		Text:  "Вайбкодинг — это не замена программиста.\nЭто усилитель возможностей.",
		Emoji: "🧠",
	})
	if err != nil {
		return y, err
	}
	if pos, err = doc.Separator("s2-sep", pos, "#be4bdb"); err != nil {
		return y, err
	}
	pos += 10
	pos, err = doc.BulletList("s2-list", layout.ContentX+60, pos, layout.BulletSpec{
		Items: []string{
			"Используй AI как ассистента, а не замену",
			"Понимай что генерируется — не копируй слепо",
			"Строй свою библиотеку промптов и скиллов",
		},
		Theme: theme.Purple,
	})
	if err != nil {
		return y, err
	}
	// 进度点不推进游标，之后统一留白 30
	if _, err := doc.ProgressDots("s2-dots", layout.ContentX+350, pos, layout.DotsSpec{Total: 5, Active: 2}); err != nil {
		return y, err
	}
	pos += 30
	if _, err := doc.CloseSlide("s2-bg", pos); err != nil {
		return y, err
	}
	return pos, nil
}

func closingSlide(doc *layout.Document, y float64) (float64, error) {
	if _, err := doc.BeginSlide("s3-bg", y, 400); err != nil {
		return y, err
	}
	pos, err := doc.TitleBanner("s3-header", layout.SlideContentTop(y), layout.BannerSpec{
		Title:    "СПАСИБО!",
		Subtitle: "Подписывайся на канал",
		Theme:    theme.Green,
		IconText: "🔥",
		Badges:   []layout.Badge{{Label: "КОНЕЦ", Theme: theme.Red}},
	})
	if err != nil {
		return y, err
	}
	pos, err = doc.TipBox("s3-cta", pos, layout.TipSpec{
		Text:  "Ставь лайк, подписывайся, жми колокольчик! 🔔",
		Emoji: "🚀",
		Theme: theme.Cyan,
	})
	if err != nil {
		return y, err
	}
	if _, err := doc.CloseSlide("s3-bg", pos); err != nil {
		return y, err
	}
	return pos, nil
}
