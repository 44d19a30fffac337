package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Mode 运行模式：是否经过外部优化器、是否保留原件
type Mode int

const (
	// ModeOptimizeMove 优化后移动（默认）
	ModeOptimizeMove Mode = iota
	// ModeOptimizeCopy 优化后复制，原件保留
	ModeOptimizeCopy
	// ModeMove 纯移动，不调用外部工具
	ModeMove
	// ModeCopy 纯复制，不调用外部工具
	ModeCopy
)

// ParseMode 解析模式字符串
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "optimize", "optimize+move":
		return ModeOptimizeMove, nil
	case "optimize+copy":
		return ModeOptimizeCopy, nil
	case "move":
		return ModeMove, nil
	case "copy":
		return ModeCopy, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want optimize+move, optimize+copy, move or copy)", s)
	}
}

// Optimize 该模式是否调用外部优化器
func (m Mode) Optimize() bool { return m == ModeOptimizeMove || m == ModeOptimizeCopy }

// KeepOriginal 该模式是否保留原件（复制语义）
func (m Mode) KeepOriginal() bool { return m == ModeOptimizeCopy || m == ModeCopy }

// String 返回模式的可读名称
func (m Mode) String() string {
	switch m {
	case ModeOptimizeMove:
		return "optimize+move"
	case ModeOptimizeCopy:
		return "optimize+copy"
	case ModeMove:
		return "move"
	case ModeCopy:
		return "copy"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ProgressSink 进度观察者：每个文件被分派时以 (1-based序号, 总数, 文件名) 回调
// 消费者必须同时容忍批处理（打印行）和交互（刷新组件）两种上下文
type ProgressSink interface {
	Progress(current, total int, filename string)
}

// ProgressFunc 函数适配器
type ProgressFunc func(current, total int, filename string)

// Progress 实现ProgressSink
func (f ProgressFunc) Progress(current, total int, filename string) { f(current, total, filename) }

// Options 管道配置，全部由调用方在构造时显式提供，核心内部没有隐藏的环境查找
type Options struct {
	SourceDir   string
	TargetDir   string
	Pattern     string        // 为空用DefaultPattern
	Extensions  []string      // 为空用DefaultExtensions
	Recursive   bool
	Mode        Mode
	ToolPath    string        // 为空在PATH中找pngquant
	ToolTimeout time.Duration // 为空用DefaultToolTimeout
	// PreviewWorkers 预览模式目标路径估算的并发度（纯计算，无文件系统变更）
	// 0表示CPU核心数。真实运行对文件的变更始终是严格顺序的。
	PreviewWorkers int
}

// Pipeline 搬迁管道：逐文件 分类→构造目标路径→建目录→优化或纯搬迁→记录终态
// 单个管道实例不持有跨运行状态；同一源/目标根上不允许并发跑两个运行
type Pipeline struct {
	opts       Options
	classifier *Classifier
	optimizer  *Optimizer
	logger     *zap.Logger
	sink       ProgressSink
}

// NewPipeline 构造管道，校验配置
func NewPipeline(opts Options, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SourceDir == "" || opts.TargetDir == "" {
		return nil, fmt.Errorf("source and target directories are required")
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	classifier, err := NewClassifier(opts.Pattern)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:       opts,
		classifier: classifier,
		optimizer:  NewOptimizer(opts.ToolPath, opts.ToolTimeout, logger),
		logger:     logger,
		sink:       nil,
	}, nil
}

// SetProgressSink 附加进度观察者，每次运行至多一个，必须在Run之前设置
func (p *Pipeline) SetProgressSink(s ProgressSink) { p.sink = s }

// Classifier 暴露分类器给前端（扫描列表展示用）
func (p *Pipeline) Classifier() *Classifier { return p.classifier }

// Scan 只做发现，返回排序后的候选列表
func (p *Pipeline) Scan() ([]string, error) {
	return Discover(p.opts.SourceDir, p.opts.Recursive, p.opts.Extensions, p.classifier)
}

// Run 执行一次完整运行
//
// preview=true 只做发现+分类+目标路径估算，零文件系统副作用，每个可解析
// 的文件都记为成功。preview=false 按排序顺序逐个处理：运行级错误
// （ErrInvalidRoot、ErrToolUnavailable）在任何文件被触碰之前返回；单文件
// 失败互相独立，永不中止批处理，每个发现的文件恰好得到一个终态。
//
// 中途取消只在文件边界生效：ctx在两个文件之间被取消时，已处理的文件
// 留在新位置，未开始的文件原地保留、下次运行仍可发现。
func (p *Pipeline) Run(ctx context.Context, preview bool) (*OrganizeResult, error) {
	start := time.Now()

	files, err := p.Scan()
	if err != nil {
		return nil, err
	}

	// 工具缺失必须在任何文件被触碰之前发现，作为运行级错误上报
	if !preview && p.opts.Mode.Optimize() {
		if err := p.optimizer.CheckTool(ctx); err != nil {
			return nil, err
		}
	}

	result := &OrganizeResult{
		TotalFiles: len(files),
		Preview:    preview,
		Results:    make([]FileResult, 0, len(files)),
	}

	if preview {
		p.previewAll(files, result)
		result.Elapsed = time.Since(start)
		return result, nil
	}

	folders := make(map[string]bool)
	for i, file := range files {
		if ctx.Err() != nil {
			p.logger.Warn("run canceled between files",
				zap.Int("processed", i), zap.Int("total", len(files)))
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		}
		if p.sink != nil {
			p.sink.Progress(i+1, len(files), filepath.Base(file))
		}

		res := p.processOne(ctx, file)
		result.Results = append(result.Results, res)
		if res.Success() {
			result.Processed++
			folders[filepath.Dir(res.Target)] = true
		} else {
			result.Failed++
		}
	}

	result.CreatedFolders = sortedKeys(folders)
	result.Elapsed = time.Since(start)
	p.logger.Info("organize run finished",
		zap.Int("total", result.TotalFiles),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// processOne 单文件：分类→建目录→分派。失败不外溢，折叠进FileResult
func (p *Pipeline) processOne(ctx context.Context, file string) FileResult {
	name := filepath.Base(file)

	target, err := p.classifier.Destination(p.opts.TargetDir, name)
	if err != nil {
		// 无法分类的文件原地保留：不移动也不优化
		return FileResult{
			Source:  file,
			Outcome: OutcomeError,
			Failure: FailureCannotClassify,
			Err:     err.Error(),
		}
	}

	if err := ensureDir(filepath.Dir(target)); err != nil {
		size, _ := fileSize(file)
		return FileResult{
			Source:       file,
			Target:       target,
			Outcome:      OutcomeError,
			Failure:      FailureRelocation,
			OriginalSize: size,
			ResultSize:   size,
			Err:          err.Error(),
		}
	}

	if p.opts.Mode.Optimize() {
		return p.optimizer.Step(ctx, file, target, p.opts.Mode.KeepOriginal())
	}
	return p.plainRelocate(file, target)
}

// plainRelocate 优化模式未启用时的纯移动/复制
func (p *Pipeline) plainRelocate(file, target string) FileResult {
	start := time.Now()
	size, _ := fileSize(file)
	res := FileResult{
		Source:       file,
		Target:       target,
		OriginalSize: size,
		ResultSize:   size,
	}
	if err := relocate(file, target, p.opts.Mode.KeepOriginal()); err != nil {
		res.Outcome = OutcomeError
		res.Failure = FailureRelocation
		res.Err = err.Error()
	} else {
		res.Outcome = OutcomeMovedOnly
	}
	res.Elapsed = time.Since(start)
	return res
}

// previewAll 预览模式：目标路径估算是纯计算，放到ants池上并发算，
// 结果按发现顺序写回索引位置后再汇总（文件系统零副作用）
func (p *Pipeline) previewAll(files []string, result *OrganizeResult) {
	workers := p.opts.PreviewWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	pool, err := ants.NewPool(workers)
	if err != nil {
		// 池创建失败退化为串行估算
		for i, file := range files {
			results[i] = p.previewOne(file)
		}
	} else {
		defer pool.Release()
		var wg sync.WaitGroup
		for i, file := range files {
			i, file := i, file
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				results[i] = p.previewOne(file)
			})
			if submitErr != nil {
				results[i] = p.previewOne(file)
				wg.Done()
			}
		}
		wg.Wait()
	}

	folders := make(map[string]bool)
	for _, res := range results {
		result.Results = append(result.Results, res)
		if res.Success() {
			result.Processed++
			folders[filepath.Dir(res.Target)] = true
		} else {
			result.Failed++
		}
	}
	result.CreatedFolders = sortedKeys(folders)
}

// previewOne 预览单文件：记录将会得到的目标路径，可解析即记为成功
func (p *Pipeline) previewOne(file string) FileResult {
	name := filepath.Base(file)
	size, _ := fileSize(file)

	target, err := p.classifier.Destination(p.opts.TargetDir, name)
	if err != nil {
		return FileResult{
			Source:  file,
			Outcome: OutcomeError,
			Failure: FailureCannotClassify,
			Err:     err.Error(),
		}
	}
	outcome := OutcomeMovedOnly
	if p.opts.Mode.Optimize() && strings.EqualFold(filepath.Ext(name), ".png") {
		outcome = OutcomeOptimized
	} else if p.opts.Mode.Optimize() {
		outcome = OutcomeSkippedNonPNG
	}
	return FileResult{
		Source:       file,
		Target:       target,
		Outcome:      outcome,
		OriginalSize: size,
		ResultSize:   size,
	}
}

// sortedKeys 集合转有序切片
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
