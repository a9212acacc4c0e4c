package utils

import (
	"fmt"
	"strings"
)

func Get_size(data int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)
	//float无法直接转换为string
	switch {
	case data < KB:
		return fmt.Sprintf("%.2fB ", float64(data))
	case data < MB:
		return fmt.Sprintf("%.2fKB", float64(data)/KB)
	case data < GB:
		return fmt.Sprintf("%.2fMB", float64(data)/MB)
	case data < TB:
		return fmt.Sprintf("%.2fGB", float64(data)/GB)
	default:
		return fmt.Sprintf("%.2fTB", float64(data)/TB)
	}
}

// SplitTags 把前端传来的逗号分隔标签清洗成切片-空白项丢弃
func SplitTags(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
