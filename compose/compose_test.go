package compose

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/sketchdeck/dsl"
	"github.com/ByLCY/sketchdeck/internal/demo"
	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/theme"
)

func build(t *testing.T, src string, data any) (*Result, error) {
	t.Helper()
	deck, err := dsl.ParseString(src)
	require.NoError(t, err)
	return Build(deck, data, Options{SeedSource: layout.FixedSeed(500000)})
}

func TestDemoDeckMatchesGoAPI(t *testing.T) {
	t.Parallel()

	want := layout.New(layout.Options{SeedSource: layout.FixedSeed(500000)})
	wantBottom, err := demo.Build(want)
	require.NoError(t, err)

	res, err := build(t, demo.Source, nil)
	require.NoError(t, err)

	if diff := cmp.Diff(want.Elements(), res.Document.Elements()); diff != "" {
		t.Fatalf("deck 与 Go API 生成的元素不一致 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Slides(), res.Document.Slides()); diff != "" {
		t.Fatalf("幻灯片范围不一致 (-want +got):\n%s", diff)
	}
	require.Equal(t, wantBottom, res.Bottom)
	require.Equal(t, "DEMO ПРЕЗЕНТАЦИЯ", res.Meta["title"])
	require.Equal(t, "sketchdeck", res.Meta["author"])
}

func TestMetaInterpolation(t *testing.T) {
	t.Parallel()

	res, err := build(t, demo.Source, map[string]any{"author": "Ann"})
	require.NoError(t, err)
	require.Equal(t, "Ann", res.Meta["author"])
}

func TestSlidesAreThreaded(t *testing.T) {
	t.Parallel()

	src := `deck t v1 {
  slide a {
    section a-sec "A"
  }
  slide b {
    section b-sec theme green "B"
    spacer 40px
  }
}`
	res, err := build(t, src, nil)
	require.NoError(t, err)

	want := layout.New(layout.Options{SeedSource: layout.FixedSeed(500000)})
	_, err = want.BeginSlide("a", 0, defaultSlideGuess)
	require.NoError(t, err)
	pos, err := want.SectionHeader("a-sec", layout.SlideContentTop(0), "A", "")
	require.NoError(t, err)
	_, err = want.CloseSlide("a", pos)
	require.NoError(t, err)

	y := layout.NextSlideY(pos)
	_, err = want.BeginSlide("b", y, defaultSlideGuess)
	require.NoError(t, err)
	pos, err = want.SectionHeader("b-sec", layout.SlideContentTop(y), "B", theme.Green)
	require.NoError(t, err)
	_, err = want.CloseSlide("b", pos+40)
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(want.Elements(), res.Document.Elements()))
	require.Equal(t, pos+40, res.Bottom)
}

func TestSlideMinHeight(t *testing.T) {
	t.Parallel()

	res, err := build(t, `deck t v1 {
  slide a min-height 600 {
    separator a-sep
  }
  slide b {
    separator b-sep
  }
}`, nil)
	require.NoError(t, err)

	slides := res.Document.Slides()
	require.Len(t, slides, 2)
	require.Equal(t, 600.0, slides[0].Height)
	// 下一张幻灯片从被撑高的背景之后开始
	require.Equal(t, 600.0-layout.SlidePadding+layout.GapBetweenSlides, slides[1].Y)
	require.Equal(t, 80.0, slides[1].Height)
}

func TestComponentArguments(t *testing.T) {
	t.Parallel()

	res, err := build(t, `deck t v1 {
  slide s {
    card c x 100 width 300 height 150 theme blue tag "NEW" shadow {
      title: "${talk.title}"
      body: ["one", "two"]
    }
    bullets l size 18 color #ff0000 { "a" "b" }
    dots d total 3 active 1 theme green
    block n number 7 "Intro"
  }
}`, map[string]any{"talk": map[string]any{"title": "Go"}})
	require.NoError(t, err)
	doc := res.Document

	body, ok := doc.Element("c-body")
	require.True(t, ok)
	require.Equal(t, 100.0, body.X)
	require.Equal(t, 300.0, body.Width)
	require.Equal(t, 150.0, body.Height)
	require.Equal(t, theme.MustLookup(theme.Blue).Background, body.BackgroundColor)

	_, ok = doc.Element("c-shadow")
	require.True(t, ok)

	title, _ := doc.Element("c-title")
	require.Equal(t, "Go", title.Text.Content)
	text, _ := doc.Element("c-body-text")
	require.Equal(t, "one\ntwo", text.Text.Content)
	tag, _ := doc.Element("c-tag-text")
	require.Equal(t, "NEW", tag.Text.Content)

	item, _ := doc.Element("l-item-1")
	require.Equal(t, "#ff0000", item.StrokeColor)
	require.Equal(t, 18.0, item.Text.FontSize)
	require.Equal(t, layout.ContentX+20, item.X)

	dot, _ := doc.Element("d-dot-0")
	require.Equal(t, theme.MustLookup(theme.Green).Fill, dot.BackgroundColor)
	dot, _ = doc.Element("d-dot-1")
	require.Equal(t, theme.MustLookup(theme.Green).Background, dot.BackgroundColor)

	num, ok := doc.Element("n-num")
	require.True(t, ok)
	require.Equal(t, "7", num.Text.Content)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		target error
	}{
		{name: "unknown command", body: `wobble w`, target: ErrUnknownCommand},
		{name: "unknown argument", body: `section s colour red "x"`, target: ErrBadArgument},
		{name: "missing id", body: `section "x"`, target: ErrBadArgument},
		{name: "missing value", body: `separator s color`, target: ErrBadArgument},
		{name: "bad number", body: `dots d total many`, target: ErrBadArgument},
		{name: "unknown theme", body: `section s theme pink "x"`, target: theme.ErrUnknownTheme},
		{name: "duplicate id", body: "separator s; separator s", target: layout.ErrDuplicateIdentity},
		{name: "assignment in slide", body: `title: "x"`, target: ErrBadArgument},
		{name: "unknown compare column", body: `compare c { neutral "x" { "a" } }`, target: ErrUnknownCommand},
		{name: "unknown card field", body: `card c { colour: "x" }`, target: ErrBadArgument},
		{name: "bad spacer", body: `spacer`, target: ErrBadArgument},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			src := "deck t v1 {\n  slide s1 {\n    " + tt.body + "\n  }\n}"
			_, err := build(t, src, nil)
			require.Error(t, err)
			require.ErrorIs(t, err, tt.target)
			require.True(t, strings.HasPrefix(err.Error(), "3:"), "错误应带有行号: %v", err)
		})
	}
}

func TestBuildNilDeck(t *testing.T) {
	t.Parallel()

	_, err := Build(nil, nil, Options{})
	require.Error(t, err)
}
