package mime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDetectImageType 五个分支各用字面字节数组验证
func TestDetectImageType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "jpeg",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10},
			want: "image/jpeg",
		},
		{
			name: "png",
			data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
			want: "image/png",
		},
		{
			name: "gif",
			data: []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61},
			want: "image/gif",
		},
		{
			name: "webp",
			data: []byte{0x52, 0x49, 0x46, 0x46, 0x24, 0x00, 0x00, 0x00, 0x57, 0x45, 0x42, 0x50},
			want: "image/webp",
		},
		{
			name: "unknown",
			data: []byte{0x00, 0x01, 0x02, 0x03},
			want: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectImageType(tt.data))
		})
	}
}

// TestDetectImageType_EdgeCases 截断与空输入按通用二进制处理
func TestDetectImageType_EdgeCases(t *testing.T) {
	assert.Equal(t, DefaultContentType, DetectImageType(nil))
	assert.Equal(t, DefaultContentType, DetectImageType([]byte{}))
	assert.Equal(t, DefaultContentType, DetectImageType([]byte{0xFF, 0xD8}))
	// RIFF 头但不是 WEBP（如 WAV）
	assert.Equal(t, DefaultContentType, DetectImageType([]byte{0x52, 0x49, 0x46, 0x46, 0x24, 0x00, 0x00, 0x00, 0x57, 0x41, 0x56, 0x45}))
}
