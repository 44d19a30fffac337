package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snapsort/core/organizer"
	"snapsort/internal/logger"
	"snapsort/internal/ui"
)

var (
	orgSource    string
	orgTarget    string
	orgPattern   string
	orgMode      string
	orgPreview   bool
	orgRecursive bool
	orgKeep      bool
	orgYes       bool
	orgNoBar     bool
)

// organizeCmd 整理截图：按日期归档，可选pngquant压缩
var organizeCmd = &cobra.Command{
	Use:   "organize [source]",
	Short: "按日期把截图归档到 年-月/周 目录",
	Long: `扫描源目录中符合命名规则的截图，按照文件名里的日期
搬运到 目标/{年}-{月}-{月名}/Week{ISO周}/ 目录。

模式:
  optimize+move  压缩后移动（默认）
  optimize+copy  压缩后复制，保留原文件
  move           只移动
  copy           只复制

示例:
  snapsort organize ~/Desktop --target ~/Desktop/Screenshots
  snapsort organize --preview
  snapsort organize ./shots --mode copy --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().StringVarP(&orgSource, "source", "s", "", "源目录 (默认取配置)")
	organizeCmd.Flags().StringVarP(&orgTarget, "target", "t", "", "目标目录 (默认取配置)")
	organizeCmd.Flags().StringVarP(&orgPattern, "pattern", "p", "", "文件名日期正则 (默认取配置)")
	organizeCmd.Flags().StringVarP(&orgMode, "mode", "m", "", "处理模式: optimize+move, optimize+copy, move, copy")
	organizeCmd.Flags().BoolVar(&orgPreview, "preview", false, "只预览计划，不做任何改动")
	organizeCmd.Flags().BoolVarP(&orgRecursive, "recursive", "r", false, "递归扫描子目录")
	organizeCmd.Flags().BoolVarP(&orgKeep, "keep-original", "k", false, "保留原文件 (等价于copy类模式)")
	organizeCmd.Flags().BoolVarP(&orgYes, "yes", "y", false, "跳过确认直接执行")
	organizeCmd.Flags().Bool("no-bar", false, "禁用进度条，逐行打印进度")

	rootCmd.AddCommand(organizeCmd)
}

// buildOptions 标志覆盖配置，装配管道参数
func buildOptions(args []string) (organizer.Options, error) {
	source := cfg.ResolvedSourceDir()
	if len(args) > 0 {
		source = args[0]
	}
	if orgSource != "" {
		source = orgSource
	}
	target := cfg.ResolvedTargetDir()
	if orgTarget != "" {
		target = orgTarget
	}
	pattern := cfg.Organize.Pattern
	if orgPattern != "" {
		pattern = orgPattern
	}

	modeStr := cfg.Organize.Mode
	if orgMode != "" {
		modeStr = orgMode
	}
	mode, err := organizer.ParseMode(modeStr)
	if err != nil {
		return organizer.Options{}, err
	}
	// --keep-original 把移动类模式提升为对应的复制类模式
	if orgKeep || cfg.Organize.KeepOriginal {
		switch mode {
		case organizer.ModeOptimizeMove:
			mode = organizer.ModeOptimizeCopy
		case organizer.ModeMove:
			mode = organizer.ModeCopy
		}
	}

	return organizer.Options{
		SourceDir:      source,
		TargetDir:      target,
		Pattern:        pattern,
		Extensions:     cfg.Organize.Extensions,
		Recursive:      orgRecursive || cfg.Organize.Recursive,
		Mode:           mode,
		ToolPath:       cfg.Tools.PngquantPath,
		ToolTimeout:    time.Duration(cfg.Tools.TimeoutSeconds) * time.Second,
		PreviewWorkers: cfg.Advanced.PreviewWorkers,
	}, nil
}

// confirmRun 变更性运行前的交互确认，--yes或非TTY输入错误时放行/中止
func confirmRun(opts organizer.Options, total int) bool {
	if orgYes {
		return true
	}
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("将以 %s 模式处理 %d 个文件 (%s → %s)，继续",
			opts.Mode, total, opts.SourceDir, opts.TargetDir),
		IsConfirm: true,
		Default:   "y",
	}
	_, err := prompt.Run()
	return err == nil
}

func runOrganize(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(args)
	if err != nil {
		return err
	}
	orgNoBar, _ = cmd.Flags().GetBool("no-bar")

	olog := logger.Named(log, "organize")
	pipeline, err := organizer.NewPipeline(opts, olog)
	if err != nil {
		return err
	}

	files, err := pipeline.Scan()
	if err != nil {
		if errors.Is(err, organizer.ErrInvalidRoot) {
			return fmt.Errorf("源路径不是目录: %s", opts.SourceDir)
		}
		return err
	}
	if len(files) == 0 {
		ui.Warning(fmt.Sprintf("在 %s 没有找到符合规则的截图", opts.SourceDir))
		return nil
	}

	ui.DisplayBanner("截图整理")
	ui.Printf("源目录: %s\n目标目录: %s\n模式: %s\n文件数: %d\n",
		opts.SourceDir, opts.TargetDir, opts.Mode, len(files))

	if !orgPreview && !confirmRun(opts, len(files)) {
		ui.Warning("已取消")
		return nil
	}

	// Ctrl+C后在当前文件边界停下，已完成的部分照常出报告
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := ui.NewProgressBar(len(files), "整理中", orgNoBar || orgPreview)
	pipeline.SetProgressSink(organizer.ProgressFunc(bar.Step))

	result, runErr := pipeline.Run(ctx, orgPreview)
	bar.Stop()

	if runErr != nil {
		if errors.Is(runErr, organizer.ErrToolUnavailable) {
			return fmt.Errorf("pngquant 不可用，请安装后重试，或改用 --mode move")
		}
		if errors.Is(runErr, context.Canceled) {
			ui.Warning("运行被中断，以下为已完成部分的统计")
		} else {
			return runErr
		}
	}

	title := "整理报告"
	if orgPreview {
		title = "预览报告 (未做任何改动)"
	}
	ui.RenderReport(title, organizer.Summarize(result))

	totals := organizer.Aggregate(result)
	olog.Info("organize finished",
		zap.Int("total", result.TotalFiles),
		zap.Int("failed", totals.Failed),
		zap.Int64("saved_bytes", totals.SavedBytes),
		zap.Bool("preview", orgPreview))

	if totals.Failed > 0 {
		ui.Warning(fmt.Sprintf("%d 个文件处理失败，详见报告", totals.Failed))
	} else {
		ui.Success("全部完成")
	}
	return nil
}
