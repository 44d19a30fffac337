package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// BatchOptimizer 批量PNG优化器：搬迁管道的受限变体
// 只处理一个目录树下的PNG，原地压缩（或保留原件写旁路文件），不做日期
// 分类也不搬迁。复用Optimizer的暂存机制，逐文件顺序处理。
type BatchOptimizer struct {
	Root         string
	Recursive    bool
	KeepOriginal bool

	optimizer *Optimizer
	logger    *zap.Logger
	sink      ProgressSink
}

// BatchResult 批量优化的总结
type BatchResult struct {
	Total         int
	Optimized     int
	Skipped       int
	Errors        int
	OriginalBytes int64
	ResultBytes   int64
	Elapsed       time.Duration
	Results       []FileResult
}

// SavedBytes 节省的字节数
func (r BatchResult) SavedBytes() int64 { return r.OriginalBytes - r.ResultBytes }

// PercentSaved 节省百分比，分母为0时为0
func (r BatchResult) PercentSaved() float64 {
	if r.OriginalBytes == 0 {
		return 0
	}
	return float64(r.SavedBytes()) / float64(r.OriginalBytes) * 100
}

// NewBatchOptimizer 构造批量优化器
func NewBatchOptimizer(root string, recursive, keepOriginal bool, opt *Optimizer, logger *zap.Logger) *BatchOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchOptimizer{
		Root:         root,
		Recursive:    recursive,
		KeepOriginal: keepOriginal,
		optimizer:    opt,
		logger:       logger,
	}
}

// SetProgressSink 附加进度观察者
func (b *BatchOptimizer) SetProgressSink(s ProgressSink) { b.sink = s }

// Run 处理目录下所有PNG。工具缺失和目录无效是运行级错误，
// 单文件失败计入Errors但不中止。
func (b *BatchOptimizer) Run(ctx context.Context) (*BatchResult, error) {
	start := time.Now()

	if err := b.optimizer.CheckTool(ctx); err != nil {
		return nil, err
	}
	files, err := DiscoverPNG(b.Root, b.Recursive)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Total: len(files)}
	for i, file := range files {
		if ctx.Err() != nil {
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		}
		if b.sink != nil {
			b.sink.Progress(i+1, len(files), filepath.Base(file))
		}

		res := b.optimizer.StepInPlace(ctx, file, b.KeepOriginal)
		result.Results = append(result.Results, res)
		result.OriginalBytes += res.OriginalSize
		result.ResultBytes += res.ResultSize

		switch res.Outcome {
		case OutcomeOptimized:
			result.Optimized++
		case OutcomeSkippedWouldGrow:
			result.Skipped++
		default:
			result.Errors++
			b.logger.Warn("batch optimize failed",
				zap.String("file", file), zap.String("error", res.Err))
		}
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// Summary 渲染批量优化报告，纯函数
func (b *BatchOptimizer) Summary(r *BatchResult) string {
	var sb strings.Builder
	sb.WriteString("Batch PNG optimization report\n")
	fmt.Fprintf(&sb, "  Total files:     %d\n", r.Total)
	fmt.Fprintf(&sb, "  Optimized:       %d\n", r.Optimized)
	fmt.Fprintf(&sb, "  Skipped:         %d\n", r.Skipped)
	fmt.Fprintf(&sb, "  Errors:          %d\n", r.Errors)
	fmt.Fprintf(&sb, "  Original size:   %s\n", FormatBytes(r.OriginalBytes))
	fmt.Fprintf(&sb, "  Optimized size:  %s\n", FormatBytes(r.ResultBytes))
	fmt.Fprintf(&sb, "  Space saved:     %s (%.1f%%)\n", FormatBytes(r.SavedBytes()), r.PercentSaved())
	fmt.Fprintf(&sb, "  Elapsed:         %.2fs\n", r.Elapsed.Seconds())
	if r.Total > 0 {
		fmt.Fprintf(&sb, "  Per file:        %.2fs\n", r.Elapsed.Seconds()/float64(r.Total))
	}
	return sb.String()
}
