package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// 游戏压缩包的入口文件名-构建模板固定产出
const EntryHTML = "index.html"

// ExtractGameArchive 把上传的游戏zip解压到 destDir，并顺手修补入口HTML
// 步骤：先单独解出 index.html → 修补 → 覆写 → 再解其余成员
// 任何一步文件操作失败都返回错误，调用方此时还没动数据库状态
func ExtractGameArchive(zipPath, destDir, publicPrefix string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open game archive failed: %w", err)
	}
	defer r.Close()

	var entry *zip.File
	for _, f := range r.File {
		if f.Name == EntryHTML {
			entry = f
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("entry %s not found in archive", EntryHTML)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create game folder failed: %w", err)
	}

	// index.html 优先解出并修补
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry html failed: %w", err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("read entry html failed: %w", err)
	}
	patched := PatchEntryHTML(string(raw), publicPrefix)
	if err := os.WriteFile(filepath.Join(destDir, EntryHTML), []byte(patched), 0644); err != nil {
		return fmt.Errorf("write patched entry html failed: %w", err)
	}

	// 其余成员逐个解出（入口HTML已处理过，跳过）
	for _, f := range r.File {
		if f.Name == EntryHTML {
			continue
		}
		if err := extractMember(f, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractMember(f *zip.File, destDir string) error {
	// zip成员名统一成斜杠路径再做穿越检查
	name := filepath.FromSlash(f.Name)
	if filepath.IsAbs(name) || name == ".." ||
		strings.HasPrefix(name, ".."+string(filepath.Separator)) { //防zip slip
		return fmt.Errorf("unsafe path in archive: %s", f.Name)
	}
	target := filepath.Join(destDir, name)
	if rel, err := filepath.Rel(destDir, target); err != nil ||
		rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("unsafe path in archive: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create dir for %s failed: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive member %s failed: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s failed: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("extract %s failed: %w", f.Name, err)
	}
	return nil
}
