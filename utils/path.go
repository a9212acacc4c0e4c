package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// 双重检验保证key路径是正常的
func SafeJoinRel(baseRel, key string) (string, error) {
	// 系统转换
	baseRel = filepath.Clean(filepath.FromSlash(baseRel))
	key = filepath.Clean(filepath.FromSlash(key))

	if filepath.IsAbs(baseRel) || filepath.IsAbs(key) { //检查是否为绝对路径
		return "", fmt.Errorf("absolute path not allowed in relative mode")
	}
	if key == ".." || strings.HasPrefix(key, ".."+string(filepath.Separator)) { //不能存在..
		return "", fmt.Errorf("path traversal detected")
	}
	full := filepath.Join(baseRel, key)
	relBack, err := filepath.Rel(baseRel, full) //如果 full 在 baseRel 之下，它会返回相对于 baseRel 的路径
	if err != nil {
		return "", err
	}
	if relBack == ".." || strings.HasPrefix(relBack, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes base")
	}
	return full, nil
}

// 确保目录存在
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
