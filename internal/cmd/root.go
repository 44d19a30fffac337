package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snapsort/config"
	"snapsort/internal/logger"
	"snapsort/internal/ui"
	"snapsort/internal/version"
)

// 全局变量
var (
	cfgFile string
	verbose bool
	log     *zap.Logger
	cfg     *config.Config
	manager *config.Manager
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snapsort",
	Short: "Snapsort - 截图整理与优化工具",
	Long: `Snapsort ` + version.GetVersionWithPrefix() + `
按日期把截图归档到 年-月/周 目录结构，并在搬运的同时用 pngquant 压缩 PNG。

常用命令:
  snapsort organize ~/Desktop        整理截图（默认 优化+移动）
  snapsort organize --preview        只预览，不改动任何文件
  snapsort optimize ./shots          就地批量压缩 PNG
  snapsort tui                       交互式界面`,
	Version:       version.GetVersion(),
	SilenceUsage: true,
	// 错误统一由main打印一次，避免cobra重复输出
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// 统一输出流到stderr，避免与进度输出混合造成排版混乱
	rootCmd.SetOut(os.Stderr)
	rootCmd.SetErr(os.Stderr)

	// 全局标志
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认: $HOME/.snapsort.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出详细日志")
}

// initConfig 初始化日志与配置
func initConfig() {
	var err error

	log, err = logger.New(verbose)
	if err != nil {
		ui.Printf("日志初始化失败: %v\n", err)
		os.Exit(1)
	}

	manager, err = config.NewManager(cfgFile, log)
	if err != nil {
		log.Fatal("配置加载失败", zap.Error(err))
	}
	cfg = manager.Get()

	if cfg.Advanced.EnableHotReload {
		manager.EnableHotReload()
	}

	log.Debug("snapsort initialized",
		zap.String("version", rootCmd.Version),
		zap.String("config", manager.ConfigFileUsed()))
}
