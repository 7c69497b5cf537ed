package theme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTheme 表示主题名不在注册表中。
var ErrUnknownTheme = errors.New("未知主题")

// Name 是注册表中的主题标识，取值为闭集。
type Name string

const (
	Blue    Name = "blue"
	Green   Name = "green"
	Orange  Name = "orange"
	Yellow  Name = "yellow"
	Red     Name = "red"
	Purple  Name = "purple"
	Violet  Name = "violet"
	Cyan    Name = "cyan"
	Neutral Name = "neutral"
)

// Theme 保存一组协调的颜色角色，创建后不再修改。
type Theme struct {
	Background string `json:"bg" yaml:"bg"`
	Stroke     string `json:"stroke" yaml:"stroke"`
	Fill       string `json:"fill" yaml:"fill"`
	Accent     string `json:"accent" yaml:"accent"`
	Light      string `json:"light" yaml:"light"`
}

var order = []Name{Blue, Green, Orange, Yellow, Red, Purple, Violet, Cyan, Neutral}

var registry = map[Name]Theme{
	Blue:    {Background: "#e7f5ff", Stroke: "#1971c2", Fill: "#228be6", Accent: "#339af0", Light: "#d0ebff"},
	Green:   {Background: "#ebfbee", Stroke: "#2f9e44", Fill: "#40c057", Accent: "#51cf66", Light: "#d3f9d8"},
	Orange:  {Background: "#fff4e6", Stroke: "#e67700", Fill: "#ffd43b", Accent: "#ff922b", Light: "#fff9db"},
	Yellow:  {Background: "#fff9db", Stroke: "#f59f00", Fill: "#ffd43b", Accent: "#fcc419", Light: "#fff3bf"},
	Red:     {Background: "#fff5f5", Stroke: "#c92a2a", Fill: "#fa5252", Accent: "#ff6b6b", Light: "#ffe3e3"},
	Purple:  {Background: "#f8f0fc", Stroke: "#9c36b5", Fill: "#be4bdb", Accent: "#9c36b5", Light: "#f3d9fa"},
	Violet:  {Background: "#f3f0ff", Stroke: "#5f3dc4", Fill: "#7950f2", Accent: "#6741d9", Light: "#e5dbff"},
	Cyan:    {Background: "#e3fafc", Stroke: "#0b7285", Fill: "#15aabf", Accent: "#22b8cf", Light: "#c5f6fa"},
	Neutral: {Background: "#f8f9fa", Stroke: "#ced4da", Fill: "#495057", Accent: "#868e96", Light: "#e9ecef"},
}

// Lookup 按名称取主题；名称不在注册表中时返回 ErrUnknownTheme。
func Lookup(name Name) (Theme, error) {
	t, ok := registry[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, string(name))
	}
	return t, nil
}

// MustLookup 与 Lookup 相同，但在主题缺失时 panic，仅用于内置常量。
func MustLookup(name Name) Theme {
	t, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse 在边界处把外部输入（DSL、YAML）转换为 Name。
func Parse(value string) (Name, error) {
	name := Name(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := registry[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, value)
	}
	return name, nil
}

// Names 以稳定顺序返回全部主题名。
func Names() []Name {
	out := make([]Name, len(order))
	copy(out, order)
	return out
}

func (n Name) String() string { return string(n) }
