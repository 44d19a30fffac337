package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snapsort/core/organizer"
	"snapsort/internal/logger"
	"snapsort/internal/ui"
)

var (
	optRecursive bool
	optKeep      bool
	optNoBar     bool
)

// optimizeCmd 就地批量压缩PNG，不搬运
var optimizeCmd = &cobra.Command{
	Use:   "optimize [directory]",
	Short: "就地批量压缩目录下的 PNG",
	Long: `对目录下的所有 PNG 逐个调用 pngquant 压缩，文件保持原位。

示例:
  snapsort optimize ./shots
  snapsort optimize -r ~/Pictures
  snapsort optimize --keep-original ./shots   压缩结果写到 *.optimized.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().BoolVarP(&optRecursive, "recursive", "r", false, "递归处理子目录")
	optimizeCmd.Flags().BoolVarP(&optKeep, "keep-original", "k", false, "保留原文件，结果写到 *.optimized.png")
	optimizeCmd.Flags().BoolVar(&optNoBar, "no-bar", false, "禁用进度条，逐行打印进度")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	blog := logger.Named(log, "optimize")
	opt := organizer.NewOptimizer(cfg.Tools.PngquantPath,
		time.Duration(cfg.Tools.TimeoutSeconds)*time.Second, blog)
	batch := organizer.NewBatchOptimizer(root, optRecursive, optKeep, opt, blog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.DisplayBanner("批量 PNG 优化")

	var bar *ui.ProgressBar
	batch.SetProgressSink(organizer.ProgressFunc(func(current, total int, filename string) {
		if bar == nil {
			bar = ui.NewProgressBar(total, "压缩中", optNoBar)
		}
		bar.Step(current, total, filename)
	}))

	result, err := batch.Run(ctx)
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		if errors.Is(err, organizer.ErrToolUnavailable) {
			return fmt.Errorf("pngquant 不可用，请先安装")
		}
		if errors.Is(err, context.Canceled) && result != nil {
			ui.Warning("运行被中断，以下为已完成部分的统计")
		} else {
			return err
		}
	}
	if result.Total == 0 {
		ui.Warning(fmt.Sprintf("在 %s 没有找到 PNG 文件", root))
		return nil
	}

	ui.RenderReport("优化报告", batch.Summary(result))
	blog.Info("batch optimize finished",
		zap.Int("total", result.Total),
		zap.Int("optimized", result.Optimized),
		zap.Int64("saved_bytes", result.SavedBytes()))
	return nil
}
