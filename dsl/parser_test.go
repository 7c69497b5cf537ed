package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/sketchdeck/dsl"
)

const sampleDSL = `
deck Workshop v1 {
  meta {
    title: "Workshop"
    tags: [
      "demo"
      "internal"
    ]
  }

  // первый слайд
  slide s1 min-height 600 {
    banner s1-header theme purple icon "🎯" {
      title: "DEMO"
      subtitle: "Hello, ${user.name}!"
      badge "ДЕМО" blue
    }
    cards s1-cards height 220 {
      card { title: "A" body: "x" theme: orange tag: "LEGO" }
      card {
        title: "B"
      }
    }
    compare s1-cmp { negative "MANUAL" { "a" "b" } positive "AI" { "c" } }
    separator s1-sep color #be4bdb
    spacer -5
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Workshop" {
		t.Fatalf("expected deck name Workshop, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if doc.Sections[0].Kind() != "meta" || doc.Sections[1].Kind() != "slide" {
		t.Fatalf("unexpected section kinds: %s %s", doc.Sections[0].Kind(), doc.Sections[1].Kind())
	}

	meta := doc.Meta()
	if meta["title"] != "Workshop" {
		t.Fatalf("expected title Workshop, got %q", meta["title"])
	}
	if meta["tags"] != "demo\ninternal" {
		t.Fatalf("expected joined tags, got %q", meta["tags"])
	}

	slides := doc.Slides()
	if len(slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(slides))
	}
	slide := slides[0]
	if slide.ID != "s1" {
		t.Fatalf("expected slide s1, got %s", slide.ID)
	}
	if len(slide.Params) != 2 || slide.Params[0].Value != "min-height" || slide.Params[1].Value != "600" {
		t.Fatalf("unexpected slide params: %+v", slide.Params)
	}
	if slide.Pos.Line != 12 {
		t.Fatalf("expected slide on line 12, got %d", slide.Pos.Line)
	}

	stmts := slide.Block.Statements
	if len(stmts) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(stmts))
	}

	banner := stmts[0].Command
	if banner == nil || banner.Name != "banner" {
		t.Fatalf("expected banner command, got %+v", stmts[0])
	}
	if got := lexemesToString(banner.Args); got != "s1-header theme purple icon 🎯" {
		t.Fatalf("unexpected banner args: %s", got)
	}
	if !banner.Args[4].IsString() || banner.Args[1].IsString() {
		t.Fatalf("string detection is wrong: %+v", banner.Args)
	}
	sub := banner.Block.Statements[1].Assignment
	if sub == nil || !strings.Contains(sub.Value.Text(), "${user.name}") {
		t.Fatalf("expected interpolation in subtitle, got %+v", banner.Block.Statements[1])
	}
	badge := banner.Block.Statements[2].Command
	if badge == nil || badge.Name != "badge" || badge.Args[0].Value != "ДЕМО" {
		t.Fatalf("expected badge command, got %+v", banner.Block.Statements[2])
	}

	cards := stmts[1].Command
	if cards == nil || len(cards.Block.Statements) != 2 {
		t.Fatalf("expected 2 cards, got %+v", stmts[1])
	}
	first := cards.Block.Statements[0].Command
	if first == nil || len(first.Block.Statements) != 4 {
		t.Fatalf("inline card should hold 4 assignments, got %+v", first)
	}
	themeValue := first.Block.Statements[2].Assignment
	if themeValue == nil || themeValue.Value.Ident == nil || *themeValue.Value.Ident != "orange" {
		t.Fatalf("expected bare theme identifier, got %+v", first.Block.Statements[2])
	}

	cmp := stmts[2].Command
	if cmp == nil || len(cmp.Block.Statements) != 2 {
		t.Fatalf("compare should have two columns, got %+v", stmts[2])
	}
	neg := cmp.Block.Statements[0].Command
	if neg.Name != "negative" || len(neg.Block.Statements) != 2 || string(neg.Block.Statements[1].Text.Value) != "b" {
		t.Fatalf("unexpected negative column: %+v", neg)
	}

	sep := stmts[3].Command
	if sep.Args[2].Type != "Color" || sep.Args[2].Value != "#be4bdb" {
		t.Fatalf("expected color arg, got %+v", sep.Args)
	}
	spacer := stmts[4].Command
	if spacer.Args[0].Type != "Number" || spacer.Args[0].Value != "-5" {
		t.Fatalf("expected negative number, got %+v", spacer.Args)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"missing brace": `deck D v1 { slide s1 { tip t "x" }`,
		"bad header":    `doc D v1 {}`,
		"slide no id":   `deck D v1 { slide { } }`,
	}
	for name, src := range cases {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestParseFromReader(t *testing.T) {
	doc, err := dsl.Parse("deck.sd", strings.NewReader("deck D v2 {\n}\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Slides()) != 0 || doc.Version != "v2" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func lexemesToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
