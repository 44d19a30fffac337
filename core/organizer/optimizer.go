package organizer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// exitWouldGrow pngquant在 --skip-if-larger 下判定压缩会变大时的退出码
const exitWouldGrow = 98

// errRelocate 标记优化成功之后送达目标失败的情况（RelocationError，
// 不走仅搬迁回退——回退会在同一目标上再失败一次）
var errRelocate = errors.New("relocation failed")

// DefaultToolTimeout 单次外部工具调用的执行超时，超时按普通失败处理（进入回退路径）
const DefaultToolTimeout = 30 * time.Second

// Optimizer 包装对外部有损PNG压缩工具（pngquant）的单文件调用
//
// 状态机：暂存 → 调用 → 解释退出码 → 落盘。先把输入复制进私有临时文件、
// 只改临时副本、最后才碰源和目标，这样工具崩溃或中途失败永远不会让
// 原文件处于半修改或丢失状态。私有临时文件在所有退出路径上都会被清理。
type Optimizer struct {
	ToolPath string
	Timeout  time.Duration
	logger   *zap.Logger
}

// NewOptimizer 创建优化器。toolPath为空时默认在PATH中找pngquant
func NewOptimizer(toolPath string, timeout time.Duration, logger *zap.Logger) *Optimizer {
	if toolPath == "" {
		toolPath = "pngquant"
	}
	if timeout <= 0 {
		timeout = DefaultToolTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{ToolPath: toolPath, Timeout: timeout, logger: logger}
}

// CheckTool 启动前探测外部工具是否存在且可执行
// 必须在任何文件被触碰之前调用；失败是运行级错误，不是单文件错误
func (o *Optimizer) CheckTool(ctx context.Context) error {
	path, err := exec.LookPath(o.ToolPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrToolUnavailable, o.ToolPath)
	}
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := exec.CommandContext(checkCtx, path, "--version").Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolUnavailable, path, err)
	}
	return nil
}

// invoke 对暂存副本运行pngquant：强制原地覆盖、结果更大则跳过
// 返回 (wouldGrow, err)；超时与其它非零退出一样按错误处理
func (o *Optimizer) invoke(ctx context.Context, tempPath string) (bool, error) {
	runCtx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, o.ToolPath, "--force", "--ext", ".png", "--skip-if-larger", tempPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return false, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitWouldGrow {
		return true, nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return false, fmt.Errorf("pngquant timed out after %s", o.Timeout)
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return false, fmt.Errorf("pngquant failed: %s", msg)
}

// Step 对单个候选文件执行完整的优化-搬迁状态机
//
// 非PNG输入完全绕过暂存和工具调用，原样搬迁。暂存或调用失败时自动
// 尝试回退：把未触碰的原件直接搬迁到目标——回退成功文件不丢失
// （OutcomeFallbackMoved），回退也失败则文件留在原处（OutcomeFallbackFailed）。
func (o *Optimizer) Step(ctx context.Context, source, target string, keepOriginal bool) FileResult {
	start := time.Now()
	res := FileResult{Source: source, Target: target}

	res.OriginalSize, _ = fileSize(source)
	res.ResultSize = res.OriginalSize

	// 非PNG：跳过优化，直接搬迁
	if !strings.EqualFold(filepath.Ext(source), ".png") {
		if err := relocate(source, target, keepOriginal); err != nil {
			res.Outcome = OutcomeError
			res.Failure = FailureRelocation
			res.Err = err.Error()
		} else {
			res.Outcome = OutcomeSkippedNonPNG
		}
		res.Elapsed = time.Since(start)
		return res
	}

	compressedSize, wouldGrow, err := o.optimizeToTemp(ctx, source, target, keepOriginal)
	switch {
	case errors.Is(err, errRelocate):
		// 最终搬迁失败对该文件是终态：回退搬迁走的是同一条失败路径，
		// 不再重试，文件留在原位置
		res.Outcome = OutcomeError
		res.Failure = FailureRelocation
		res.Err = err.Error()
	case err != nil:
		// 优化失败：立即尝试仅搬迁回退，避免数据丢失
		o.logger.Warn("optimization failed, falling back to plain relocate",
			zap.String("source", source), zap.Error(err))
		res.Failure = FailureOptimization
		res.Err = err.Error()
		if fbErr := relocate(source, target, keepOriginal); fbErr != nil {
			res.Outcome = OutcomeFallbackFailed
			res.Err = fmt.Sprintf("%v; fallback move failed: %v", err, fbErr)
		} else {
			res.Outcome = OutcomeFallbackMoved
		}
	case wouldGrow:
		res.Outcome = OutcomeSkippedWouldGrow
	default:
		res.Outcome = OutcomeOptimized
		res.ResultSize = compressedSize
	}
	res.Elapsed = time.Since(start)
	return res
}

// optimizeToTemp 状态机的暂存+调用+落盘部分
// wouldGrow时原件已原样搬迁；成功时压缩产物已送达目标。
// 返回错误时源文件保证未被触碰，调用方决定回退。
func (o *Optimizer) optimizeToTemp(ctx context.Context, source, target string, keepOriginal bool) (compressed int64, wouldGrow bool, err error) {
	tmp, err := os.CreateTemp("", "snapsort-*.png")
	if err != nil {
		return 0, false, fmt.Errorf("create staging file: %w", err)
	}
	tempPath := tmp.Name()
	tmp.Close()
	// 所有退出路径统一清理暂存文件；成功路径上暂存文件已被移走，
	// Remove返回NotExist被忽略
	defer os.Remove(tempPath)

	if err := copyFile(source, tempPath); err != nil {
		return 0, false, fmt.Errorf("stage source: %w", err)
	}

	wouldGrow, err = o.invoke(ctx, tempPath)
	if err != nil {
		return 0, false, err
	}
	if wouldGrow {
		// 压缩会变大：丢弃暂存副本，原样搬迁
		if err := relocate(source, target, keepOriginal); err != nil {
			return 0, false, fmt.Errorf("%w: relocate unmodified file: %v", errRelocate, err)
		}
		return 0, true, nil
	}

	compressed, err = fileSize(tempPath)
	if err != nil {
		return 0, false, fmt.Errorf("stat optimized staging file: %w", err)
	}
	if err := deliver(tempPath, source, target, keepOriginal); err != nil {
		return 0, false, fmt.Errorf("%w: deliver optimized file: %v", errRelocate, err)
	}
	return compressed, false, nil
}

// StepInPlace 批量优化器的原地变体：目标就是源文件本身，
// keepOriginal时压缩产物写到 <name>.optimized.png 旁路文件
func (o *Optimizer) StepInPlace(ctx context.Context, path string, keepOriginal bool) FileResult {
	target := path
	if keepOriginal {
		target = siblingOptimizedPath(path)
	}
	start := time.Now()
	res := FileResult{Source: path, Target: target}
	res.OriginalSize, _ = fileSize(path)
	res.ResultSize = res.OriginalSize

	tmp, err := os.CreateTemp("", "snapsort-*.png")
	if err != nil {
		res.Outcome = OutcomeError
		res.Failure = FailureOptimization
		res.Err = err.Error()
		res.Elapsed = time.Since(start)
		return res
	}
	tempPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tempPath)

	fail := func(err error) FileResult {
		res.Outcome = OutcomeError
		res.Failure = FailureOptimization
		res.Err = err.Error()
		res.Elapsed = time.Since(start)
		return res
	}

	if err := copyFile(path, tempPath); err != nil {
		return fail(err)
	}
	wouldGrow, err := o.invoke(ctx, tempPath)
	if err != nil {
		return fail(err)
	}
	if wouldGrow {
		// 原地模式下跳过即什么都不做，原文件保持原样
		res.Outcome = OutcomeSkippedWouldGrow
		res.Elapsed = time.Since(start)
		return res
	}

	compressed, err := fileSize(tempPath)
	if err != nil {
		return fail(err)
	}
	if err := moveFile(tempPath, target); err != nil {
		return fail(err)
	}
	res.Outcome = OutcomeOptimized
	res.ResultSize = compressed
	res.Elapsed = time.Since(start)
	return res
}
