package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// secureJoin 将对象名拼接到存储根目录下。
// 拒绝绝对路径和 ".." 越界，并检查已存在的路径节点中没有符号链接。
func secureJoin(root, key string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("路径解析失败: %w", err)
	}

	rel := filepath.Clean(filepath.FromSlash(key))
	if rel == "." || rel == "" {
		return "", fmt.Errorf("非法路径: 对象名为空")
	}
	if filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("非法路径: 不允许绝对路径")
	}

	target := filepath.Join(rootAbs, rel)
	within, err := filepath.Rel(rootAbs, target)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("非法路径: 目标超出存储目录")
	}

	if err := ensureNoSymlink(rootAbs, target); err != nil {
		return "", err
	}
	return target, nil
}

// ensureNoSymlink 从 target 逐级回溯到 root，已存在的节点都不能是符号链接。
func ensureNoSymlink(rootAbs, target string) error {
	for current := target; ; {
		info, err := os.Lstat(current)
		switch {
		case err == nil && info.Mode()&os.ModeSymlink != 0:
			return fmt.Errorf("检测到符号链接穿透风险: %s", current)
		case err != nil && !os.IsNotExist(err):
			return fmt.Errorf("检查路径失败: %w", err)
		}
		if current == rootAbs {
			return nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return fmt.Errorf("非法路径: 无法定位到存储目录")
		}
		current = parent
	}
}
