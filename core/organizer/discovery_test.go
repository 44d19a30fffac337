package organizer

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles 按名字在dir下铺测试文件
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	}
}

func mustClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier("")
	require.NoError(t, err)
	return c
}

func TestDiscoverFlat(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-03-16 at 11.00.00.jpg",
		"IMG_1234.png",    // 无日期模式
		"notes.txt",       // 扩展名不在白名单
		"sub/Screenshot 2023-03-17 at 12.00.00.png", // 子目录，非递归不收
	)

	files, err := Discover(dir, false, nil, mustClassifier(t))
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.True(t, sort.StringsAreSorted(files))
	for _, f := range files {
		assert.Equal(t, dir, filepath.Dir(f))
	}
}

func TestDiscoverRecursive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"a/Screenshot 2023-03-16 at 11.00.00.png",
		"a/b/Screenshot 2023-03-17 at 12.00.00.png",
		"a/b/skipme.png",
	)

	files, err := Discover(dir, true, nil, mustClassifier(t))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.True(t, sort.StringsAreSorted(files))
}

func TestDiscoverNilExtensionsUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-03-15 at 10.00.01.webp",
		"Screenshot 2023-03-15 at 10.00.02.txt",
	)

	// nil和空切片都回落到默认白名单
	for _, exts := range [][]string{nil, {}} {
		files, err := Discover(dir, false, exts, mustClassifier(t))
		require.NoError(t, err)
		assert.Len(t, files, 2)
	}

	explicit, err := Discover(dir, false, DefaultExtensions, mustClassifier(t))
	require.NoError(t, err)
	implicit, err2 := Discover(dir, false, nil, mustClassifier(t))
	require.NoError(t, err2)
	assert.Equal(t, explicit, implicit)
}

func TestDiscoverExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Screenshot 2023-03-15 at 10.00.00.png",
		"Screenshot 2023-03-15 at 10.00.01.PNG", // 大小写不敏感
		"Screenshot 2023-03-15 at 10.00.02.webp",
	)

	files, err := Discover(dir, false, []string{".png"}, mustClassifier(t))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	// 白名单接受不带点的写法
	files, err = Discover(dir, false, []string{"webp"}, mustClassifier(t))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscoverMissingRoot(t *testing.T) {
	files, err := Discover(filepath.Join(t.TempDir(), "nope"), false, nil, mustClassifier(t))
	require.NoError(t, err, "missing root is a cold workspace, not an error")
	assert.Empty(t, files)
}

func TestDiscoverRootNotDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "afile")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Discover(file, false, nil, mustClassifier(t))
	assert.True(t, errors.Is(err, ErrInvalidRoot))
}

func TestDiscoverPNG(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.PNG", "c.jpg", "sub/d.png")

	files, err := DiscoverPNG(dir, false)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = DiscoverPNG(dir, true)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	// 批量优化器把根目录缺失当错误
	_, err = DiscoverPNG(filepath.Join(dir, "nope"), false)
	assert.Error(t, err)
}
