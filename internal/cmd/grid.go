package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"snapsort/core/grid"
	"snapsort/internal/ui"
)

var (
	gridOutput   string
	gridSubWidth int
	gridScale    float64
)

// gridCmd 把水平拼接的长截图重排成接近正方形的网格
var gridCmd = &cobra.Command{
	Use:   "grid <image>",
	Short: "把横向拼接的长截图重排成网格图",
	Long: `一些工具会把多张截图水平拼成一张很长的图，不便预览。
grid 按子图宽度切开，选择宽高比最接近1:1的行列布局重新拼合。

示例:
  snapsort grid strip.png
  snapsort grid strip.png --sub-width 1280 --scale 0.5 -o grid.png`,
	Args: cobra.ExactArgs(1),
	RunE: runGrid,
}

func init() {
	gridCmd.Flags().StringVarP(&gridOutput, "output", "o", "", "输出路径 (默认: 输入名_grid)")
	gridCmd.Flags().IntVarP(&gridSubWidth, "sub-width", "w", 0, "单张子图宽度 (默认: 等于图片高度)")
	gridCmd.Flags().Float64Var(&gridScale, "scale", 1.0, "输出缩放比例")

	rootCmd.AddCommand(gridCmd)
}

func runGrid(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := gridOutput
	if output == "" {
		output = grid.DefaultOutputPath(input)
	}
	if gridScale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", gridScale)
	}

	layout, err := grid.ReassembleFile(input, output, gridSubWidth, gridScale)
	if err != nil {
		return err
	}

	ui.Success(fmt.Sprintf("已生成 %dx%d 网格: %s", layout.Rows, layout.Cols, output))
	return nil
}
