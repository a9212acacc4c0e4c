package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

var (
	ErrSizeExceeded = errors.New("file size exceeded limit")
	ErrSizeMismatch = errors.New("file size mismatched expected size")
)

// 边写入文件边计算内容哈希-一次遍历同时落盘和算sha256
func CopyWithHash(dst io.Writer, src io.Reader, maxSize, expectedSize int64) (string, int64, error) {
	hasher := sha256.New()
	w := io.MultiWriter(dst, hasher) // 一是文件存储二是哈希计算器

	// 读取上限保护
	var r io.Reader = src
	if maxSize > 0 {
		r = io.LimitReader(src, maxSize+1) //多读1字节用来触发超限检测
	}

	written, err := io.Copy(w, r)
	if err != nil {
		return "", written, fmt.Errorf("this file's copy failed: %w", err)
	}

	// 超限判断（用 > maxSize，因为我们读了 maxSize+1 触发检测）
	if maxSize > 0 && written > maxSize {
		return "", written, ErrSizeExceeded
	}
	// 期望大小不匹配
	if expectedSize > 0 && written != expectedSize {
		return "", written, ErrSizeMismatch
	}

	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum), written, nil
}
