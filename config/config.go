package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/sketchdeck/internal/logger"
	"github.com/ByLCY/sketchdeck/layout"
)

// ErrInvalidConfig 表示配置文件无法解析或未通过校验。
var ErrInvalidConfig = errors.New("配置无效")

// 预览输出支持的格式。
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatSVG = "svg"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	yamlLineRegex = regexp.MustCompile(`line (\d+)`)
	formats       = map[string]struct{}{FormatPDF: {}, FormatPNG: {}, FormatSVG: {}}
)

// Config 是 sketchdeck.yaml 的完整结构。
type Config struct {
	// Seed 非空时使用确定的种子序列，便于复现同一份输出。
	Seed        *int64            `yaml:"seed" validate:"omitempty,gte=0"`
	Log         LogConfig         `yaml:"log"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Output      OutputConfig      `yaml:"output"`
}

// LogConfig 控制日志级别与输出格式。
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Human bool   `yaml:"human"`
}

// CalibrationConfig 覆盖文本估算器的系数；未出现的键沿用默认表。
type CalibrationConfig struct {
	LineHeight  float64            `yaml:"line_height" validate:"omitempty,gt=0"`
	Multipliers map[string]float64 `yaml:"multipliers" validate:"omitempty,dive,keys,fontfamily,endkeys,gt=0"`
	Fallback    float64            `yaml:"fallback" validate:"omitempty,gt=0"`
}

// RendererConfig 配置预览渲染。
type RendererConfig struct {
	Format     string            `yaml:"format" validate:"omitempty,format"`
	DPI        float64           `yaml:"dpi" validate:"omitempty,gt=0,lte=1200"`
	Fonts      map[string]string `yaml:"fonts" validate:"omitempty,dive,keys,fontfamily,endkeys,required"`
	SystemFont string            `yaml:"system_font"`
}

// OutputConfig 给出各产物的默认路径，命令行参数优先。
type OutputConfig struct {
	Excalidraw string `yaml:"excalidraw"`
	Preview    string `yaml:"preview"`
	Debug      string `yaml:"debug"`
}

// Default 返回未提供配置文件时使用的配置。
func Default() *Config {
	return &Config{
		Log:      LogConfig{Level: "info", Human: true},
		Renderer: RendererConfig{Format: FormatPDF, DPI: 96},
	}
}

// Load 读取并校验配置文件；path 为空时返回默认配置。
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置 %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse 在默认配置之上解码 YAML，未知字段视为错误。
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		if line := extractLine(err); line > 0 {
			return nil, fmt.Errorf("%w: 第 %d 行: %v", ErrInvalidConfig, line, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 执行结构校验。
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: 配置为空", ErrInvalidConfig)
	}
	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}
	return nil
}

// EstimatorCalibration 把配置中的系数合并进默认估算表。
func (c *Config) EstimatorCalibration() (layout.Calibration, error) {
	cal := layout.Calibration{
		LineHeight: c.Calibration.LineHeight,
		Fallback:   c.Calibration.Fallback,
	}
	if len(c.Calibration.Multipliers) > 0 {
		cal.Multipliers = make(map[layout.FontFamily]float64, len(c.Calibration.Multipliers))
		for name, factor := range c.Calibration.Multipliers {
			family, err := layout.ParseFontFamily(name)
			if err != nil {
				return layout.Calibration{}, fmt.Errorf("%w: calibration.multipliers: %v", ErrInvalidConfig, err)
			}
			cal.Multipliers[family] = factor
		}
	}
	return layout.NewEstimator(cal).Calibration(), nil
}

// FontFiles 返回按字体族索引的字体文件路径。
func (c *Config) FontFiles() (map[layout.FontFamily]string, error) {
	out := make(map[layout.FontFamily]string, len(c.Renderer.Fonts))
	for name, path := range c.Renderer.Fonts {
		family, err := layout.ParseFontFamily(name)
		if err != nil {
			return nil, fmt.Errorf("%w: renderer.fonts: %v", ErrInvalidConfig, err)
		}
		out[family] = path
	}
	return out, nil
}

// LoggerOptions 转换为 logger.Options。
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, HumanReadable: c.Log.Human}
}

// SeedSource 在配置了 seed 时返回确定的种子源，否则返回 nil（使用全局随机源）。
func (c *Config) SeedSource() layout.SeedSource {
	if c.Seed == nil {
		return nil
	}
	return layout.FixedSeed(*c.Seed)
}

// FormatFromPath 根据扩展名推断预览格式，无法识别时返回 fallback。
func FormatFromPath(path, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, ok := formats[ext]; ok {
		return ext
	}
	return fallback
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("fontfamily", func(fl validator.FieldLevel) bool {
			_, err := layout.ParseFontFamily(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
			_, ok := formats[strings.ToLower(fl.Field().String())]
			return ok
		})

		validateInst = v
	})

	return validateInst
}

func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		return fmt.Errorf("%w: %s 未通过 %s 校验", ErrInvalidConfig, yamlishFieldName(ve), ve.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}

func extractLine(err error) int {
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
