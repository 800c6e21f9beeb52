// Package signer 实现三家对象存储各自的请求签名协议。
// 三者共享 "规范化请求 → HMAC → 拼装令牌" 的形态，但逐字节的细节互不相同，
// 服务端按字面比对规范化字符串，任何偏差都会导致签名被拒。
package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
)

// SignAliyun 计算阿里云 OSS 风格的 Authorization 头。
//
// 规范化字符串为:
//
//	METHOD\nContent-MD5\nContent-Type\nDate\nCanonicalizedResource
//
// 其中 CanonicalizedResource 形如 "/bucket/key"。Content-MD5、Content-Type、
// Date 从 headers 中取值，缺失按空串参与拼接。返回值形如 "OSS <ak>:<signature>"。
func SignAliyun(secret, accessKeyID, method, canonicalizedResource string, headers http.Header) (string, error) {
	if secret == "" {
		return "", &SigningError{Reason: "empty access key secret"}
	}

	canonical := method + "\n" +
		headers.Get("Content-MD5") + "\n" +
		headers.Get("Content-Type") + "\n" +
		headers.Get("Date") + "\n" +
		canonicalizedResource

	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(canonical))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return "OSS " + accessKeyID + ":" + signature, nil
}
