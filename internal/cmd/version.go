package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"snapsort/core/organizer"
	"snapsort/internal/ui"
	"snapsort/internal/version"
)

// versionCmd 显示版本与运行环境
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本与运行环境信息",
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printf("snapsort %s\n", version.GetVersionWithPrefix())
		ui.Printf("  build time: %s\n", version.GetBuildTime())
		ui.Printf("  commit:     %s\n", version.GetGitCommit())
		ui.Printf("  go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

		env := organizer.CaptureEnvironment()
		ui.Printf("  host:       %s (%s)\n", env.Platform, env.Kernel)
		ui.Printf("  cpu/mem:    %d cores, %s total\n", env.CPUCores, organizer.FormatBytes(int64(env.MemTotal)))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
