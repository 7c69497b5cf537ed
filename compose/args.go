package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/sketchdeck/binding"
	"github.com/ByLCY/sketchdeck/dsl"
	"github.com/ByLCY/sketchdeck/layout"
	"github.com/ByLCY/sketchdeck/theme"
)

// argSchema 描述一条命令接受的参数：带值的键与不带值的开关。
type argSchema struct {
	id     bool
	values []string
	flags  []string
}

// args 是解析后的命令参数。
type args struct {
	pos        lexer.Position
	name       string
	id         string
	values     map[string]*dsl.Lexeme
	flags      map[string]bool
	positional []*dsl.Lexeme
	data       any
}

func parseArgs(pos lexer.Position, name string, lexemes []*dsl.Lexeme, schema argSchema, data any) (*args, error) {
	a := &args{
		pos:    pos,
		name:   name,
		values: map[string]*dsl.Lexeme{},
		flags:  map[string]bool{},
		data:   data,
	}
	rest := lexemes
	if schema.id {
		if len(rest) == 0 || rest[0].Type != "Ident" {
			return nil, a.errorf("缺少标识")
		}
		a.id = rest[0].Value
		rest = rest[1:]
	}
	for i := 0; i < len(rest); i++ {
		lx := rest[i]
		if lx.Type != "Ident" {
			a.positional = append(a.positional, lx)
			continue
		}
		switch {
		case contains(schema.values, lx.Value):
			if i+1 >= len(rest) {
				return nil, a.errorf("参数 %s 缺少取值", lx.Value)
			}
			if _, dup := a.values[lx.Value]; dup {
				return nil, a.errorf("参数 %s 重复", lx.Value)
			}
			a.values[lx.Value] = rest[i+1]
			i++
		case contains(schema.flags, lx.Value):
			a.flags[lx.Value] = true
		default:
			return nil, fmt.Errorf("%s: %w: %s 不接受参数 %q", lx.Pos, ErrBadArgument, a.name, lx.Value)
		}
	}
	return a, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (a *args) errorf(format string, v ...any) error {
	return fmt.Errorf("%s: %w: %s: %s", a.pos, ErrBadArgument, a.name, fmt.Sprintf(format, v...))
}

// text 返回参数的文本取值（字符串会做占位符替换）。
func (a *args) text(key, fallback string) string {
	lx, ok := a.values[key]
	if !ok {
		return fallback
	}
	return interpolate(lx, a.data)
}

// number 解析长度参数并换算为文档像素。
func (a *args) number(key string, fallback float64) (float64, error) {
	lx, ok := a.values[key]
	if !ok {
		return fallback, nil
	}
	return parseNumber(lx, a.data)
}

func (a *args) integer(key string, fallback int) (int, error) {
	lx, ok := a.values[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(interpolate(lx, a.data))
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %s 需要整数，得到 %q", lx.Pos, ErrBadArgument, key, lx.Value)
	}
	return n, nil
}

func (a *args) theme(key string) (theme.Name, error) {
	lx, ok := a.values[key]
	if !ok {
		return "", nil
	}
	return parseTheme(lx.Pos, interpolate(lx, a.data))
}

// content 把全部位置参数（字符串）以空格连接为正文。
func (a *args) content() string {
	parts := make([]string, 0, len(a.positional))
	for _, lx := range a.positional {
		parts = append(parts, interpolate(lx, a.data))
	}
	return strings.Join(parts, " ")
}

func interpolate(lx *dsl.Lexeme, data any) string {
	if lx.IsString() {
		return binding.Interpolate(lx.Value, data)
	}
	return lx.Value
}

func parseNumber(lx *dsl.Lexeme, data any) (float64, error) {
	length, err := layout.ParseLength(interpolate(lx, data))
	if err != nil {
		return 0, fmt.Errorf("%s: %w: 需要数值，得到 %q", lx.Pos, ErrBadArgument, lx.Value)
	}
	return length.ToPX(), nil
}

func parseTheme(pos lexer.Position, value string) (theme.Name, error) {
	name, err := theme.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", pos, ErrBadArgument, err)
	}
	return name, nil
}
