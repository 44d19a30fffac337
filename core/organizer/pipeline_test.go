package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	p, err := NewPipeline(opts, nil)
	require.NoError(t, err)
	return p
}

// snapshotTree 递归收集目录下所有文件的相对路径
func snapshotTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			rel, _ := filepath.Rel(root, path)
			paths = append(paths, rel)
		}
		return nil
	})
	sort.Strings(paths)
	return paths
}

func TestRunEmptySource(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "out")

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeMove,
	})
	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalFiles)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.CreatedFolders)
	assert.NoDirExists(t, target)
}

func TestRunMoveMode(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFiles(t, source,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-03-16 at 11.00.00.jpg",
		"Screenshot 2021-01-01 at 09.00.00.png",
	)

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeMove,
	})
	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFiles)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.Failed)

	assert.FileExists(t, filepath.Join(target, "2023-03-March", "Week11", "Screenshot 2023-03-15 at 10.00.00.png"))
	assert.FileExists(t, filepath.Join(target, "2023-03-March", "Week11", "Screenshot 2023-03-16 at 11.00.00.jpg"))
	assert.FileExists(t, filepath.Join(target, "2021-01-January", "Week53", "Screenshot 2021-01-01 at 09.00.00.png"))

	// 移动模式清空源文件
	assert.Empty(t, snapshotTree(t, source))

	// 每个目标目录只报告一次，且有序
	assert.Equal(t, []string{
		filepath.Join(target, "2021-01-January", "Week53"),
		filepath.Join(target, "2023-03-March", "Week11"),
	}, result.CreatedFolders)
	for _, res := range result.Results {
		assert.Equal(t, OutcomeMovedOnly, res.Outcome)
	}
}

func TestRunCopyMode(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFiles(t, source, "Screenshot 2023-03-15 at 10.00.00.png")

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeCopy,
	})
	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.FileExists(t, filepath.Join(source, "Screenshot 2023-03-15 at 10.00.00.png"), "copy keeps the source")
	assert.FileExists(t, filepath.Join(target, "2023-03-March", "Week11", "Screenshot 2023-03-15 at 10.00.00.png"))
}

func TestRunPreviewHasNoSideEffects(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "never-created")
	writeFiles(t, source,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-03-16 at 11.00.00.jpg",
	)
	before := snapshotTree(t, source)

	// 预览不探测工具：给一个不存在的工具路径也必须能跑
	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeOptimizeMove,
		ToolPath:  "/no/such/tool",
	})
	result, err := p.Run(context.Background(), true)
	require.NoError(t, err)

	assert.True(t, result.Preview)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, before, snapshotTree(t, source), "preview must not touch the source")
	assert.NoDirExists(t, target, "preview must not create target folders")

	outcomes := map[string]Outcome{}
	for _, res := range result.Results {
		outcomes[filepath.Base(res.Source)] = res.Outcome
	}
	assert.Equal(t, OutcomeOptimized, outcomes["Screenshot 2023-03-15 at 10.00.00.png"])
	assert.Equal(t, OutcomeSkippedNonPNG, outcomes["Screenshot 2023-03-16 at 11.00.00.jpg"])
}

func TestRunProgressSink(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFiles(t, source,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-03-16 at 11.00.00.png",
		"Screenshot 2023-03-17 at 12.00.00.png",
	)

	type call struct {
		current, total int
		filename       string
	}
	var calls []call

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeMove,
	})
	p.SetProgressSink(ProgressFunc(func(current, total int, filename string) {
		calls = append(calls, call{current, total, filename})
	}))

	_, err := p.Run(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, calls, 3)
	for i, c := range calls {
		assert.Equal(t, i+1, c.current, "index is 1-based")
		assert.Equal(t, 3, c.total)
		assert.NotContains(t, c.filename, string(os.PathSeparator), "sink receives base names")
	}
}

func TestRunOptimizeEndToEnd(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFiles(t, source, "Screenshot 2023-03-16 at 11.00.00.jpg")
	writePNG(t, filepath.Join(source, "Screenshot 2023-03-15 at 10.00.00.png"))

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeOptimizeMove,
		ToolPath:  stubShrink(t),
	})
	result, err := p.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)

	png := filepath.Join(target, "2023-03-March", "Week11", "Screenshot 2023-03-15 at 10.00.00.png")
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.Equal(t, "tiny", string(data), "png goes through the optimizer")

	jpg := filepath.Join(target, "2023-03-March", "Week11", "Screenshot 2023-03-16 at 11.00.00.jpg")
	assert.FileExists(t, jpg, "jpg bypasses the optimizer but still relocates")
}

func TestRunToolUnavailableTouchesNothing(t *testing.T) {
	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "never-created")
	writeFiles(t, source, "Screenshot 2023-03-15 at 10.00.00.png")
	before := snapshotTree(t, source)

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeOptimizeMove,
		ToolPath:  filepath.Join(t.TempDir(), "no-such-tool"),
	})
	_, err := p.Run(context.Background(), false)

	assert.True(t, errors.Is(err, ErrToolUnavailable))
	assert.Equal(t, before, snapshotTree(t, source))
	assert.NoDirExists(t, target)
}

func TestRunPerFileFailureDoesNotAbort(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFiles(t, source,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-13-01 at 10.00.00.png", // 匹配模式但不是合法日期
		"Screenshot 2023-03-17 at 12.00.00.png",
	)

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeMove,
	})
	result, err := p.Run(context.Background(), false)
	require.NoError(t, err, "per-file failures never abort the run")

	assert.Equal(t, 3, result.TotalFiles)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)

	// 无法分类的文件原地保留
	assert.FileExists(t, filepath.Join(source, "Screenshot 2023-13-01 at 10.00.00.png"))

	var failed *FileResult
	for i := range result.Results {
		if !result.Results[i].Success() {
			failed = &result.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, FailureCannotClassify, failed.Failure)
	assert.Empty(t, failed.Target)
}

func TestRunCanceledContext(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFiles(t, source, "Screenshot 2023-03-15 at 10.00.00.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, Options{
		SourceDir: source,
		TargetDir: target,
		Mode:      ModeMove,
	})
	result, err := p.Run(ctx, false)

	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, result, "partial result comes back with the error")
	assert.Empty(t, result.Results)
	assert.FileExists(t, filepath.Join(source, "Screenshot 2023-03-15 at 10.00.00.png"))
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{
		"optimize+move": ModeOptimizeMove,
		"optimize+copy": ModeOptimizeCopy,
		"move":          ModeMove,
		"copy":          ModeCopy,
	}
	for s, want := range cases {
		got, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
	}
	_, err := ParseMode("shuffle")
	assert.Error(t, err)
}

func TestPipelineValidation(t *testing.T) {
	_, err := NewPipeline(Options{TargetDir: "t"}, nil)
	assert.Error(t, err, "source is required")

	_, err = NewPipeline(Options{SourceDir: "s"}, nil)
	assert.Error(t, err, "target is required")

	_, err = NewPipeline(Options{SourceDir: "s", TargetDir: "t", Pattern: `(\d+)`}, nil)
	assert.Error(t, err, "pattern needs three groups")
}

func TestRunManyFilesPreview(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	var names []string
	for i := 0; i < 40; i++ {
		names = append(names, fmt.Sprintf("Screenshot 2023-03-%02d at 10.00.%02d.png", i%28+1, i))
	}
	writeFiles(t, source, names...)

	p := newTestPipeline(t, Options{
		SourceDir:      source,
		TargetDir:      target,
		Mode:           ModeOptimizeMove,
		PreviewWorkers: 4,
	})
	result, err := p.Run(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 40, result.TotalFiles)
	assert.Equal(t, 40, result.Processed)
	// 并发估算不得打乱发现顺序
	var sources []string
	for _, res := range result.Results {
		sources = append(sources, res.Source)
	}
	assert.True(t, sort.StringsAreSorted(sources))
}
