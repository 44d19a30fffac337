package organizer

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Totals 一次运行的聚合数字，纯粹从终态记录推导
type Totals struct {
	Total     int
	Processed int
	Failed    int

	// 按终态标签的计数
	Optimized        int
	SkippedNonPNG    int
	SkippedWouldGrow int
	MovedOnly        int
	FallbackMoved    int
	FallbackFailed   int
	Errors           int

	// 按失败分类的计数
	CannotClassify       int
	OptimizationFailures int
	RelocationFailures   int

	// 字节统计：只对携带大小的终态求和
	OriginalBytes int64
	ResultBytes   int64
	SavedBytes    int64
	PercentSaved  float64 // 分母为0时为0

	// TopWins 压缩比最高的至多5个文件
	TopWins []FileResult

	Elapsed time.Duration
}

// Aggregate 把单文件终态折叠成总计
// 对Outcome穷举匹配：新增终态在这里漏掉会是编译期能看见的缺口
func Aggregate(r *OrganizeResult) Totals {
	t := Totals{
		Total:     r.TotalFiles,
		Processed: r.Processed,
		Failed:    r.Failed,
		Elapsed:   r.Elapsed,
	}

	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeOptimized:
			t.Optimized++
		case OutcomeSkippedNonPNG:
			t.SkippedNonPNG++
		case OutcomeSkippedWouldGrow:
			t.SkippedWouldGrow++
		case OutcomeMovedOnly:
			t.MovedOnly++
		case OutcomeError:
			t.Errors++
		case OutcomeFallbackMoved:
			t.FallbackMoved++
		case OutcomeFallbackFailed:
			t.FallbackFailed++
		}

		switch res.Failure {
		case FailureNone:
		case FailureCannotClassify:
			t.CannotClassify++
		case FailureOptimization:
			t.OptimizationFailures++
		case FailureRelocation:
			t.RelocationFailures++
		}

		// 无法分类的文件没有记录大小，不参与字节统计
		if res.Failure == FailureCannotClassify {
			continue
		}
		t.OriginalBytes += res.OriginalSize
		t.ResultBytes += res.ResultSize
	}

	t.SavedBytes = t.OriginalBytes - t.ResultBytes
	if t.OriginalBytes > 0 {
		t.PercentSaved = float64(t.SavedBytes) / float64(t.OriginalBytes) * 100
	}
	t.TopWins = topWins(r.Results, 5)
	return t
}

// topWins 按压缩比取前n个真正被压缩的文件
func topWins(results []FileResult, n int) []FileResult {
	var wins []FileResult
	for _, res := range results {
		if res.Outcome == OutcomeOptimized && res.ResultSize < res.OriginalSize {
			wins = append(wins, res)
		}
	}
	sort.Slice(wins, func(i, j int) bool {
		ri, rj := wins[i].CompressionRatio(), wins[j].CompressionRatio()
		if ri != rj {
			return ri > rj
		}
		return wins[i].Source < wins[j].Source // 比率相同时保持确定性
	})
	if len(wins) > n {
		wins = wins[:n]
	}
	return wins
}

// Summarize renders the human-readable run report. It is a pure function
// of the result: no side effects, and calling it twice on the same result
// yields byte-identical text.
func Summarize(r *OrganizeResult) string {
	t := Aggregate(r)
	var b strings.Builder

	if r.Preview {
		b.WriteString("Preview results (no files were touched):\n")
	} else {
		b.WriteString("Results:\n")
	}
	fmt.Fprintf(&b, "  Total files found:      %d\n", t.Total)
	fmt.Fprintf(&b, "  Successfully processed: %d\n", t.Processed)
	fmt.Fprintf(&b, "  Failed:                 %d\n", t.Failed)

	if t.Optimized+t.SkippedNonPNG+t.SkippedWouldGrow+t.FallbackMoved+t.FallbackFailed > 0 {
		b.WriteString("\nOptimization:\n")
		fmt.Fprintf(&b, "  Optimized:              %d\n", t.Optimized)
		fmt.Fprintf(&b, "  Skipped (non-PNG):      %d\n", t.SkippedNonPNG)
		fmt.Fprintf(&b, "  Skipped (would grow):   %d\n", t.SkippedWouldGrow)
		if t.FallbackMoved > 0 {
			fmt.Fprintf(&b, "  Moved after tool error: %d\n", t.FallbackMoved)
		}
		if t.FallbackFailed > 0 {
			fmt.Fprintf(&b, "  Left in place (failed): %d\n", t.FallbackFailed)
		}
	}

	if t.OriginalBytes > 0 {
		b.WriteString("\nStorage:\n")
		fmt.Fprintf(&b, "  Original size:   %s\n", FormatBytes(t.OriginalBytes))
		fmt.Fprintf(&b, "  Resulting size:  %s\n", FormatBytes(t.ResultBytes))
		fmt.Fprintf(&b, "  Space saved:     %s (%.1f%%)\n", FormatBytes(t.SavedBytes), t.PercentSaved)
	}

	if len(t.TopWins) > 0 {
		b.WriteString("\nBest compression:\n")
		for _, win := range t.TopWins {
			fmt.Fprintf(&b, "  %5.1f%%  %s (%s -> %s)\n",
				win.CompressionRatio(), filepath.Base(win.Source),
				FormatBytes(win.OriginalSize), FormatBytes(win.ResultSize))
		}
	}

	if len(r.CreatedFolders) > 0 {
		if r.Preview {
			b.WriteString("\nFolders that would be used:\n")
		} else {
			b.WriteString("\nFolders created:\n")
		}
		for _, folder := range r.CreatedFolders {
			fmt.Fprintf(&b, "  %s\n", folder)
		}
	}

	if t.Failed > 0 {
		b.WriteString("\nFailed files:\n")
		for _, res := range r.Results {
			if !res.Success() {
				fmt.Fprintf(&b, "  %s [%s]: %s\n", res.Source, res.Failure, res.Err)
			}
		}
	}

	return b.String()
}

// Environment 运行环境快照，写进启动日志和详细报告，不进入Summarize
// （Summarize必须是结果的纯函数）
type Environment struct {
	OS        string
	Platform  string
	Kernel    string
	CPUCores  int
	GoVersion string
	MemTotal  uint64
	MemFree   uint64
}

// CaptureEnvironment 采集环境信息，采集失败的字段留零值
func CaptureEnvironment() Environment {
	env := Environment{
		OS:        runtime.GOOS,
		CPUCores:  runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
	if info, err := host.Info(); err == nil {
		env.Platform = info.Platform + " " + info.PlatformVersion
		env.Kernel = info.KernelVersion
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		env.MemTotal = vm.Total
		env.MemFree = vm.Available
	}
	return env
}
