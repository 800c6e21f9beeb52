package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignAWSV4 计算 AWS 风格的 Authorization 头，SigV4 的最小子集。
//
// 规范化请求固定为:
//
//	METHOD\nURI\n\nhost:<host>\nx-amz-date:<date>\n\nhost;x-amz-date\nUNSIGNED-PAYLOAD
//
// 签名为 hex(HMAC-SHA256(secret, canonical))，凭证范围为 <date>/s3/aws4_request。
// 注意：这里省略了完整 SigV4 的多级派生密钥链，与原系统保持一致；
// 对接真实 AWS 端点需要换成完整实现，但输入输出契约保持不变。
// amzDate 形如 "20060102T150405Z"。
func SignAWSV4(secret, accessKeyID, method, uri, host, amzDate string) (string, error) {
	if secret == "" {
		return "", &SigningError{Reason: "empty access key secret"}
	}

	canonical := method + "\n" + uri + "\n\n" +
		"host:" + host + "\n" +
		"x-amz-date:" + amzDate + "\n\n" +
		"host;x-amz-date\n" +
		"UNSIGNED-PAYLOAD"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	signature := hex.EncodeToString(mac.Sum(nil))

	scopeDate := amzDate
	if len(scopeDate) > 8 {
		scopeDate = scopeDate[:8]
	}

	return "AWS4-HMAC-SHA256 Credential=" + accessKeyID + "/" + scopeDate + "/s3/aws4_request," +
		"SignedHeaders=host;x-amz-date,Signature=" + signature, nil
}
