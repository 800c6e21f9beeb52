// Package scanner 从 markdown 文档中提取本地图片引用，
// 并在上传完成后把引用替换为对象 URL。
package scanner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ![alt](path) 形式，捕获 alt 与 path
	markdownImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	// <img src="path"> 形式
	htmlImagePattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)
)

// ImageRef 一处图片引用
type ImageRef struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Raw  string `json:"raw"`
	Path string `json:"path"`
	Alt  string `json:"alt,omitempty"`
}

// IsLocal 引用是否指向本地文件（远程 URL 无需上传）
func (r ImageRef) IsLocal() bool {
	return !isRemote(r.Path)
}

// AbsolutePath 相对引用按所在文档目录解析
func (r ImageRef) AbsolutePath() string {
	if filepath.IsAbs(r.Path) {
		return r.Path
	}
	return filepath.Join(filepath.Dir(r.File), r.Path)
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//") ||
		strings.HasPrefix(path, "data:")
}

// ScanContent 扫描一段 markdown 内容，file 仅用于填充引用的出处
func ScanContent(file, content string) []ImageRef {
	var refs []ImageRef

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		for _, match := range markdownImagePattern.FindAllStringSubmatch(line, -1) {
			if isRemote(match[2]) {
				continue
			}
			refs = append(refs, ImageRef{
				File: file,
				Line: lineNo,
				Raw:  match[0],
				Path: match[2],
				Alt:  match[1],
			})
		}

		for _, match := range htmlImagePattern.FindAllStringSubmatch(line, -1) {
			if isRemote(match[1]) {
				continue
			}
			refs = append(refs, ImageRef{
				File: file,
				Line: lineNo,
				Raw:  match[0],
				Path: match[1],
			})
		}
	}

	return refs
}

// ScanFile 扫描单个 markdown 文件
func ScanFile(path string) ([]ImageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ScanContent(path, string(data)), nil
}

// ScanFiles 扫描多个文件，单个文件的错误不中断其余文件
func ScanFiles(paths []string) ([]ImageRef, []error) {
	var refs []ImageRef
	var errs []error
	for _, path := range paths {
		fileRefs, err := ScanFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		refs = append(refs, fileRefs...)
	}
	return refs, errs
}
