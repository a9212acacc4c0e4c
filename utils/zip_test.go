package utils

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 写一个带构建产物目录结构的测试zip
func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	w := zip.NewWriter(out)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractGameArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "1700000000_demo.zip")
	writeTestZip(t, zipPath, map[string]string{
		"index.html":              sampleHTML,
		"TemplateData/style.css":  "canvas { border: 0 }",
		"Build/demo.loader.js":    "// loader",
		"Build/demo.data":         "DATA",
		"TemplateData/favicon.io": "ICO",
	})

	dest := filepath.Join(dir, "games", "1700000000_demo")
	if err := ExtractGameArchive(zipPath, dest, "/media/games/1700000000_demo/"); err != nil {
		t.Fatal(err)
	}

	// 入口HTML要是修补过的版本
	raw, err := os.ReadFile(filepath.Join(dest, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	html := string(raw)
	if !strings.Contains(html, "/media/games/1700000000_demo/TemplateData/") {
		t.Fatal("entry html not patched")
	}
	if !strings.Contains(html, "sendSizeToParent") {
		t.Fatal("resize script missing from entry html")
	}

	// 其余成员原样解出
	for _, name := range []string{"TemplateData/style.css", "Build/demo.loader.js", "Build/demo.data"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(name))); err != nil {
			t.Fatalf("member %s not extracted: %v", name, err)
		}
	}
}

func TestExtractGameArchiveMissingEntry(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "broken.zip")
	writeTestZip(t, zipPath, map[string]string{
		"Build/demo.data": "DATA",
	})

	dest := filepath.Join(dir, "games", "broken")
	if err := ExtractGameArchive(zipPath, dest, "/media/games/broken/"); err == nil {
		t.Fatal("want error for archive without index.html")
	}
	// 没有入口文件时不应该留下半套解压产物
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("dest dir should not exist, stat err=%v", err)
	}
}

func TestExtractGameArchiveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")
	writeTestZip(t, zipPath, map[string]string{
		"index.html":    sampleHTML,
		"../escape.txt": "nope",
	})

	dest := filepath.Join(dir, "games", "evil")
	if err := ExtractGameArchive(zipPath, dest, "/media/games/evil/"); err == nil {
		t.Fatal("want error for path traversal member")
	}
	if _, err := os.Stat(filepath.Join(dir, "games", "escape.txt")); !os.IsNotExist(err) {
		t.Fatal("traversal member escaped dest dir")
	}
}

func TestExtractGameArchiveCorruptZip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "corrupt.zip")
	if err := os.WriteFile(zipPath, []byte("this is not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ExtractGameArchive(zipPath, filepath.Join(dir, "x"), "/media/games/x/"); err == nil {
		t.Fatal("want error for corrupt archive")
	}
}
