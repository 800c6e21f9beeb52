package mime

import "bytes"

// DefaultContentType 魔数不可识别时使用的通用二进制类型
const DefaultContentType = "application/octet-stream"

// DetectImageType 基于文件头魔数识别图片类型。
// 只认 JPEG/PNG/GIF/WEBP 四种，其余一律按通用二进制上传。
func DetectImageType(data []byte) string {
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte{0x47, 0x49, 0x46, 0x38}):
		return "image/gif"
	case isWebP(data):
		return "image/webp"
	default:
		return DefaultContentType
	}
}

// isWebP RIFF 容器，偏移 0 为 "RIFF"，偏移 8 为 "WEBP"
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[:4], []byte{0x52, 0x49, 0x46, 0x46}) &&
		bytes.Equal(data[8:12], []byte{0x57, 0x45, 0x42, 0x50})
}
