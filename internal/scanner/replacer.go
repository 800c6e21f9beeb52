package scanner

import (
	"fmt"
	"os"
	"strings"
)

// BackupSuffix 替换前写入的备份文件后缀
const BackupSuffix = ".bak"

// ReplaceLinks 把文档中的本地图片路径替换为上传后的 URL。
// 写入前先把原文备份为 <file>.bak，Rollback 可以恢复。
// replacements 的键为扫描时得到的原始路径。
func ReplaceLinks(path string, replacements map[string]string) (int, error) {
	if len(replacements) == 0 {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path+BackupSuffix, data, info.Mode()); err != nil {
		return 0, fmt.Errorf("failed to write backup for %s: %w", path, err)
	}

	content := string(data)
	replaced := 0
	for oldPath, newURL := range replacements {
		count := strings.Count(content, "("+oldPath+")") + strings.Count(content, `"`+oldPath+`"`)
		if count == 0 {
			continue
		}
		content = strings.ReplaceAll(content, "("+oldPath+")", "("+newURL+")")
		content = strings.ReplaceAll(content, `"`+oldPath+`"`, `"`+newURL+`"`)
		replaced += count
	}

	if replaced == 0 {
		// 没有任何替换发生时不改写原文，但保留备份无意义，清掉
		os.Remove(path + BackupSuffix)
		return 0, nil
	}

	if err := os.WriteFile(path, []byte(content), info.Mode()); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return replaced, nil
}

// Rollback 从备份恢复文档内容并移除备份文件
func Rollback(path string) error {
	backup := path + BackupSuffix
	data, err := os.ReadFile(backup)
	if err != nil {
		return fmt.Errorf("no backup found for %s: %w", path, err)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("failed to restore %s: %w", path, err)
	}
	return os.Remove(backup)
}
