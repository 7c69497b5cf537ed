package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/sketchdeck/internal/demo"
	"github.com/ByLCY/sketchdeck/layout"
)

type demoOptions struct {
	Seed    int64
	SeedSet bool
	Source  bool
	Outputs outputPaths
}

func newDemoCmd(root *rootFlags) *cobra.Command {
	opts := demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "生成三页示例演示文稿",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Source {
				_, err := fmt.Fprint(cmd.OutOrStdout(), demo.Source)
				return err
			}
			opts.SeedSet = cmd.Flags().Changed("seed")
			env, err := loadEnvironment(cmd, root)
			if err != nil {
				return err
			}
			return runDemo(cmd, env, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Outputs.Excalidraw, "output", "o", "demo.excalidraw", "Excalidraw 输出路径")
	cmd.Flags().StringVar(&opts.Outputs.Preview, "preview", "", "预览输出路径（.pdf/.png/.svg）")
	cmd.Flags().StringVar(&opts.Outputs.Debug, "debug", "", "布局调试 JSON 输出路径")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "使用确定的种子序列")
	cmd.Flags().BoolVar(&opts.Source, "source", false, "只打印等价的 deck 描述")

	return cmd
}

func runDemo(cmd *cobra.Command, env *environment, opts demoOptions) error {
	docOpts, err := env.documentOptions(opts.SeedSet, opts.Seed)
	if err != nil {
		return err
	}
	doc := layout.New(docOpts)
	if _, err := demo.Build(doc); err != nil {
		return fmt.Errorf("生成示例失败: %w", err)
	}
	meta := map[string]string{"title": "DEMO", "author": "sketchdeck"}
	artifacts, err := env.writeOutputs(doc, meta, opts.Outputs.withDefaults(env.cfg.Output))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderSummary("demo", doc, artifacts))
	return nil
}
