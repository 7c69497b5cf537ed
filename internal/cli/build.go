package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/sketchdeck/compose"
	"github.com/ByLCY/sketchdeck/dsl"
	"github.com/ByLCY/sketchdeck/layout"
)

type buildOptions struct {
	Input    string
	DataPath string
	Seed     int64
	SeedSet  bool
	Outputs  outputPaths
}

func newBuildCmd(root *rootFlags) *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "解析 deck 文件并输出 Excalidraw 文档",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SeedSet = cmd.Flags().Changed("seed")
			env, err := loadEnvironment(cmd, root)
			if err != nil {
				return err
			}
			return runBuild(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "deck 文件路径")
	cmd.Flags().StringVarP(&opts.Outputs.Excalidraw, "output", "o", "", "Excalidraw 输出路径")
	cmd.Flags().StringVar(&opts.Outputs.Preview, "preview", "", "预览输出路径（.pdf/.png/.svg）")
	cmd.Flags().StringVar(&opts.Outputs.Debug, "debug", "", "布局调试 JSON 输出路径")
	cmd.Flags().StringVar(&opts.DataPath, "data", "", "绑定到 ${...} 占位符的数据文件（YAML 或 JSON）")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "使用确定的种子序列")
	cmd.MarkFlagRequired("input") //nolint:errcheck

	return cmd
}

func runBuild(cmd *cobra.Command, env *environment, opts buildOptions) error {
	file, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("无法打开 deck 文件 %s: %w", opts.Input, err)
	}
	defer file.Close()

	deck, err := dsl.Parse(opts.Input, file)
	if err != nil {
		return fmt.Errorf("解析 deck 失败: %w", err)
	}

	data, err := loadData(opts.DataPath)
	if err != nil {
		return err
	}

	docOpts, err := env.documentOptions(opts.SeedSet, opts.Seed)
	if err != nil {
		return err
	}
	result, err := compose.Build(deck, data, compose.Options{
		Logger:     docOpts.Logger,
		SeedSource: docOpts.SeedSource,
		Measurer:   docOpts.Measurer,
	})
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}

	paths := opts.Outputs.withDefaults(env.cfg.Output)
	if paths.Excalidraw == "" && paths.Preview == "" && paths.Debug == "" {
		return fmt.Errorf("没有指定任何输出（--output/--preview/--debug）")
	}
	artifacts, err := env.writeOutputs(result.Document, result.Meta, paths)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderSummary(deck.Name, result.Document, artifacts))
	return nil
}

// documentOptions 按配置与命令行组装文档依赖；命令行种子优先于配置。
func (e *environment) documentOptions(seedSet bool, seed int64) (layout.Options, error) {
	cal, err := e.cfg.EstimatorCalibration()
	if err != nil {
		return layout.Options{}, err
	}
	src := e.cfg.SeedSource()
	if seedSet {
		src = layout.FixedSeed(seed)
	}
	return layout.Options{
		SeedSource: src,
		Measurer:   layout.NewEstimator(cal),
		Logger:     e.log,
	}, nil
}

// loadData 读取占位符数据。JSON 是 YAML 的子集，两种格式都按 YAML 解码。
func loadData(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件 %s: %w", path, err)
	}
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据文件 %s: %w", path, err)
	}
	return data, nil
}
