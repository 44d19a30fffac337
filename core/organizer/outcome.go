package organizer

import (
	"fmt"
	"time"
)

// Outcome 单文件优化/搬迁的终态标签
// 闭合的枚举类型：所有统计推导处必须穷举匹配，新增终态不允许悄悄漏算
type Outcome int

const (
	// OutcomeOptimized 外部工具压缩成功，压缩后的字节已落到目标路径
	OutcomeOptimized Outcome = iota
	// OutcomeSkippedNonPNG 非PNG输入，完全绕过暂存和调用，原样搬迁
	OutcomeSkippedNonPNG
	// OutcomeSkippedWouldGrow 工具判定压缩会变大而拒绝，原样搬迁
	OutcomeSkippedWouldGrow
	// OutcomeMovedOnly 优化模式未启用，纯移动/复制
	OutcomeMovedOnly
	// OutcomeError 文件处理失败（分类失败或纯搬迁失败），没有回退路径可走
	OutcomeError
	// OutcomeFallbackMoved 优化失败，但未修改的原件成功搬迁到目标（文件未丢失）
	OutcomeFallbackMoved
	// OutcomeFallbackFailed 优化失败且回退搬迁也失败，文件保留在原位置
	OutcomeFallbackFailed
)

// String 返回终态的稳定字符串标签
func (o Outcome) String() string {
	switch o {
	case OutcomeOptimized:
		return "optimized"
	case OutcomeSkippedNonPNG:
		return "skipped_non_png"
	case OutcomeSkippedWouldGrow:
		return "skipped_would_grow"
	case OutcomeMovedOnly:
		return "moved_only"
	case OutcomeError:
		return "error"
	case OutcomeFallbackMoved:
		return "error_with_fallback_success"
	case OutcomeFallbackFailed:
		return "error_with_fallback_failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// FileResult 单个候选文件的处理记录
type FileResult struct {
	Source       string
	Target       string // 为空表示无法分类
	Outcome      Outcome
	Failure      FailureKind
	OriginalSize int64
	ResultSize   int64
	Elapsed      time.Duration
	Err          string // 可选错误文本
}

// Success 报告该文件是否以非失败终态结束
// 回退搬迁成功算成功：文件没有丢失，只是没享受到压缩
func (r FileResult) Success() bool {
	switch r.Outcome {
	case OutcomeOptimized, OutcomeSkippedNonPNG, OutcomeSkippedWouldGrow,
		OutcomeMovedOnly, OutcomeFallbackMoved:
		return true
	case OutcomeError, OutcomeFallbackFailed:
		return false
	}
	return false
}

// CompressionRatio 压缩比（节省百分比），原始大小为0时返回0
func (r FileResult) CompressionRatio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.OriginalSize-r.ResultSize) / float64(r.OriginalSize) * 100
}

// OrganizeResult 一次完整运行的结果
// 单次运行内新建，报告产出后即丢弃；管道自身不跨运行持有状态
type OrganizeResult struct {
	TotalFiles     int
	Processed      int
	Failed         int
	CreatedFolders []string // 至少有一个成功/预览文件指向的目标目录
	Results        []FileResult
	Preview        bool
	Elapsed        time.Duration
}
