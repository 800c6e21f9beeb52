package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Title

![logo](./images/logo.png)
Some text with ![inline](assets/pic.jpg) reference.

![remote](https://example.com/remote.png)
<img src="local/photo.webp" alt="photo">
<img src="https://cdn.example.com/x.png">
`

// TestScanContent 提取本地引用，跳过远程 URL
func TestScanContent(t *testing.T) {
	refs := ScanContent("doc.md", sampleDoc)
	require.Len(t, refs, 3)

	assert.Equal(t, "./images/logo.png", refs[0].Path)
	assert.Equal(t, "logo", refs[0].Alt)
	assert.Equal(t, 3, refs[0].Line)

	assert.Equal(t, "assets/pic.jpg", refs[1].Path)
	assert.Equal(t, 4, refs[1].Line)

	assert.Equal(t, "local/photo.webp", refs[2].Path)
	assert.Equal(t, 7, refs[2].Line)

	for _, ref := range refs {
		assert.True(t, ref.IsLocal())
	}
}

// TestScanContent_DataURI data: 引用视为远程
func TestScanContent_DataURI(t *testing.T) {
	refs := ScanContent("doc.md", `![x](data:image/png;base64,AAAA)`)
	assert.Empty(t, refs)
}

// TestImageRef_AbsolutePath 相对路径按文档目录解析
func TestImageRef_AbsolutePath(t *testing.T) {
	ref := ImageRef{File: "/docs/post.md", Path: "images/a.png"}
	assert.Equal(t, filepath.Join("/docs", "images/a.png"), ref.AbsolutePath())

	abs := ImageRef{File: "/docs/post.md", Path: "/tmp/a.png"}
	assert.Equal(t, "/tmp/a.png", abs.AbsolutePath())
}

// TestScanFile 从磁盘读取文档
func TestScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	refs, err := ScanFile(path)
	require.NoError(t, err)
	assert.Len(t, refs, 3)
	assert.Equal(t, path, refs[0].File)

	_, err = ScanFile(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

// TestReplaceLinks 替换后原文有备份，Rollback 可恢复
func TestReplaceLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	replaced, err := ReplaceLinks(path, map[string]string{
		"./images/logo.png": "https://bucket.example.com/img/logo.png",
		"local/photo.webp":  "https://bucket.example.com/img/photo.webp",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, replaced)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "(https://bucket.example.com/img/logo.png)")
	assert.Contains(t, string(content), `"https://bucket.example.com/img/photo.webp"`)
	assert.NotContains(t, string(content), "(./images/logo.png)")

	backup, err := os.ReadFile(path + BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(backup))

	require.NoError(t, Rollback(path))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(content))
	_, err = os.Stat(path + BackupSuffix)
	assert.True(t, os.IsNotExist(err))
}

// TestReplaceLinks_NoMatches 无替换时不留备份
func TestReplaceLinks_NoMatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	replaced, err := ReplaceLinks(path, map[string]string{"unknown.png": "https://x/y.png"})
	require.NoError(t, err)
	assert.Equal(t, 0, replaced)

	_, err = os.Stat(path + BackupSuffix)
	assert.True(t, os.IsNotExist(err))
}

// TestRollback_NoBackup 没有备份时报错
func TestRollback_NoBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.Error(t, Rollback(path))
}
