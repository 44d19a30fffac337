package organizer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// fileExists checks if a file exists at the given path.
func fileExists(p string) bool {
	_, err := os.Stat(p)
	return !os.IsNotExist(err)
}

// fileSize returns the size of a file.
func fileSize(p string) (int64, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// FormatBytes converts bytes to a human-readable string.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// copyFile 把源文件逐字节复制到目标路径并同步到磁盘
// 目标已存在时静默覆盖（与底层搬迁原语保持一致）
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy bytes: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}
	return nil
}

// moveFile 移动文件到目标路径
// 先尝试原子rename；跨设备时退化为 复制→确认→删除源 三步，
// 源文件只在目标确认存在之后才会被删除
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// rename跨文件系统会失败（EXDEV），走复制路径
	if err := copyFile(src, dst); err != nil {
		return err
	}
	if !fileExists(dst) {
		return fmt.Errorf("destination missing after copy: %s", dst)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// relocate 把src按keepOriginal语义送达dst：保留原件则复制，否则移动
func relocate(src, dst string, keepOriginal bool) error {
	if keepOriginal {
		return copyFile(src, dst)
	}
	return moveFile(src, dst)
}

// ensureDir 创建目标目录（含父目录）
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// deliver 把payload（优化产物或暂存副本）送达目标路径，
// 并按keepOriginal语义处置源文件。payload与source不同路径时：
// payload被移动到目标；源文件只在目标写入确认之后删除。
func deliver(payload, source, dst string, keepOriginal bool) error {
	if err := moveFile(payload, dst); err != nil {
		return err
	}
	if keepOriginal || payload == source {
		return nil
	}
	if !fileExists(dst) {
		return fmt.Errorf("destination missing after move: %s", dst)
	}
	if err := os.Remove(source); err != nil {
		return fmt.Errorf("remove original: %w", err)
	}
	return nil
}

// siblingOptimizedPath 保留原件模式下批量优化的产物路径：x.png → x.optimized.png
func siblingOptimizedPath(p string) string {
	ext := filepath.Ext(p)
	return p[:len(p)-len(ext)] + ".optimized" + ext
}
