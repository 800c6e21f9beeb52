package storage

import (
	"errors"
	"fmt"
)

// ErrUnsupportedProvider 配置声明了没有对应实现的提供商
var ErrUnsupportedProvider = errors.New("unsupported storage provider")

// UploadError 上传失败。Status 为 0 表示传输层错误（含超时/取消），
// 此时 Err 携带底层原因；否则为服务端返回的非 2xx 状态。
type UploadError struct {
	Key    string
	Status int
	Body   string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload %q failed: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("upload %q failed: status %d: %s", e.Key, e.Status, e.Body)
}

func (e *UploadError) Unwrap() error { return e.Err }

// DeleteError 删除失败
type DeleteError struct {
	Key    string
	Status int
	Body   string
	Err    error
}

func (e *DeleteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delete %q failed: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("delete %q failed: status %d: %s", e.Key, e.Status, e.Body)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// ProbeError 连接探测失败
type ProbeError struct {
	Status int
	Body   string
	Err    error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("probe failed: %v", e.Err)
	}
	return fmt.Sprintf("probe failed: status %d: %s", e.Status, e.Body)
}

func (e *ProbeError) Unwrap() error { return e.Err }
