package organizer

import (
	"errors"
	"fmt"
)

// 运行级错误 - 在任何文件被触碰之前检测并中止整次运行
var (
	// ErrInvalidRoot 源路径存在但不是目录
	ErrInvalidRoot = errors.New("source root is not a directory")
	// ErrToolUnavailable 外部优化工具缺失或不可执行
	ErrToolUnavailable = errors.New("pngquant not found or not executable")
)

// 分类错误 - 单文件级，不会中止批处理
var (
	// ErrNoDate 文件名不匹配配置的日期模式
	ErrNoDate = errors.New("could not parse date from filename")
	// ErrInvalidDate 模式匹配成功但产生了无效的日历日期（如月份13）
	ErrInvalidDate = errors.New("invalid calendar date")
)

// FailureKind 单文件失败分类，用于报告中的分类失败计数
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureCannotClassify 文件名无法解析出日期，文件原地保留
	FailureCannotClassify
	// FailureOptimization 暂存或外部工具调用失败
	FailureOptimization
	// FailureRelocation 最终移动/复制到目标路径失败
	FailureRelocation
)

// String 返回失败分类的可读名称
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureCannotClassify:
		return "cannot_classify"
	case FailureOptimization:
		return "optimization_error"
	case FailureRelocation:
		return "relocation_error"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}
