package signer

import "fmt"

// SigningError 密钥材料无法初始化签名原语。
// 签名是纯计算，这是它唯一的失败方式，属于致命错误，调用方不应重试。
type SigningError struct {
	Reason string
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing error: %s", e.Reason)
}
