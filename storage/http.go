package storage

import (
	"io"
	"net"
	"net/http"
	"time"
)

// defaultHTTPClient 自签名适配器共享的 HTTP 客户端配置。
// 整体超时交由调用方通过 context 控制，这里只约束连接层。
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          64,
			MaxIdleConnsPerHost:   8,
			IdleConnTimeout:       time.Minute,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 10 * time.Second,
		},
	}
}

// readErrorBody 读取响应体用于错误信息，上限 4KB 防止把超大响应塞进错误
func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	return string(data)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func emitProgress(progress ProgressFunc, key string, pct float64, uploaded, total int64) {
	if progress == nil {
		return
	}
	progress(UploadProgress{
		Key:           key,
		Progress:      pct,
		BytesUploaded: uploaded,
		TotalBytes:    total,
	})
}
