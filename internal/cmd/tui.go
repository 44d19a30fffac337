package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"snapsort/core/organizer"
	"snapsort/internal/logger"
	"snapsort/internal/tui"
)

// tuiCmd 交互式整理界面
var tuiCmd = &cobra.Command{
	Use:   "tui [source]",
	Short: "交互式整理界面",
	Long: `全屏交互界面：扫描 → 确认 → 进度 → 报告。
目录和模式取自配置文件，可用位置参数覆盖源目录。`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.ResolvedSourceDir()
		if len(args) > 0 {
			source = args[0]
		}
		mode, err := organizer.ParseMode(cfg.Organize.Mode)
		if err != nil {
			return err
		}
		opts := organizer.Options{
			SourceDir:      source,
			TargetDir:      cfg.ResolvedTargetDir(),
			Pattern:        cfg.Organize.Pattern,
			Extensions:     cfg.Organize.Extensions,
			Recursive:      cfg.Organize.Recursive,
			Mode:           mode,
			ToolPath:       cfg.Tools.PngquantPath,
			ToolTimeout:    time.Duration(cfg.Tools.TimeoutSeconds) * time.Second,
			PreviewWorkers: cfg.Advanced.PreviewWorkers,
		}
		return tui.Run(opts, logger.Named(log, "tui"))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
