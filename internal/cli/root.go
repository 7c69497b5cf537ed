// Package cli 实现 sketchdeck 命令行：解析 deck、排版并输出 Excalidraw 文档与预览。
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/sketchdeck/config"
	"github.com/ByLCY/sketchdeck/internal/logger"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

// NewRootCmd 创建根命令及全部子命令。
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "sketchdeck",
		Short:         "把 deck 描述排版为 Excalidraw 演示文稿",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "配置文件路径（YAML）")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "输出调试日志")

	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newDemoCmd(flags))
	cmd.AddCommand(newThemesCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// environment 是一次命令执行共享的配置与日志器。
type environment struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnvironment(cmd *cobra.Command, root *rootFlags) (*environment, error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return nil, err
	}
	opts := cfg.LoggerOptions()
	if root.verbose {
		opts.Level = "debug"
	}
	opts.Writer = cmd.ErrOrStderr()
	log, err := logger.New(opts)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, log: log}, nil
}
