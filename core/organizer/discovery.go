package organizer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions 截图文件的默认扩展名白名单
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"}

// extensionSet 小写扩展名查找表
func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

// Discover walks the source root and returns the candidate list: regular
// files whose lowercase extension is in the allow-list and whose name
// matches the classifier pattern. A nil or empty allow-list means
// DefaultExtensions. The result is sorted by full path for determinism
// across runs and platforms.
//
// A missing root is a normal cold-workspace state and yields an empty
// list, no error. A root that exists but is not a directory fails with
// ErrInvalidRoot before any file is touched.
func Discover(root string, recursive bool, extensions []string, c *Classifier) ([]string, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := extensionSet(extensions)
	var files []string

	keep := func(name string) bool {
		return exts[strings.ToLower(filepath.Ext(name))] && c.Matches(name)
	}

	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// 不可读的子目录跳过，不中止扫描
				return nil
			}
			if d.Type().IsRegular() && keep(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk source root: %w", err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read source root: %w", err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && keep(entry.Name()) {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// DiscoverPNG 批量PNG优化器的受限变体：只收PNG、不要求日期模式、
// 根目录缺失视为错误而不是冷状态
func DiscoverPNG(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), ".png") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
				files = append(files, filepath.Join(root, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
