package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// keyTimeWindow COS 签名有效期。令牌在窗口结束后被服务端拒绝，
// 因此调用方必须按请求生成令牌，不能缓存复用。
const keyTimeWindow = time.Hour

// SignTencent 计算腾讯云 COS 风格的签名，两阶段 HMAC-SHA1。
//
// 阶段一: KeyTime = "<start>;<end>"，SignKey = hex(HMAC-SHA1(secret, KeyTime))。
// 阶段二: 由小写方法、URI、排序后的查询参数和头部拼出 HttpString，
// StringToSign = "sha1\n<KeyTime>\n<sha1_hex(HttpString)>\n"，
// Signature = hex(HMAC-SHA1(SignKey, StringToSign))。
//
// 返回值为查询串形态的令牌（q-sign-algorithm=...&q-signature=...）。
// signTime 由调用方注入，便于测试冻结时间。
func SignTencent(secret, accessKeyID, method, uri string, params url.Values, headers http.Header, signTime time.Time) (string, error) {
	if secret == "" {
		return "", &SigningError{Reason: "empty access key secret"}
	}

	start := signTime.Unix()
	keyTime := fmt.Sprintf("%d;%d", start, signTime.Add(keyTimeWindow).Unix())

	signKey := hmacSHA1Hex([]byte(secret), keyTime)

	paramList, paramString := canonicalValues(params)
	headerList, headerString := canonicalHeaders(headers)

	httpString := strings.ToLower(method) + "\n" + uri + "\n" + paramString + "\n" + headerString + "\n"

	sum := sha1.Sum([]byte(httpString))
	stringToSign := "sha1\n" + keyTime + "\n" + hex.EncodeToString(sum[:]) + "\n"

	signature := hmacSHA1Hex([]byte(signKey), stringToSign)

	token := strings.Join([]string{
		"q-sign-algorithm=sha1",
		"q-ak=" + accessKeyID,
		"q-sign-time=" + keyTime,
		"q-key-time=" + keyTime,
		"q-header-list=" + headerList,
		"q-url-param-list=" + paramList,
		"q-signature=" + signature,
	}, "&")

	return token, nil
}

func hmacSHA1Hex(key []byte, data string) string {
	mac := hmac.New(sha1.New, key)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// safeURLEncode COS 要求的百分号编码，空格编码为 %20 而非 +
func safeURLEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// canonicalValues 键名转小写后排序，返回分号分隔的键名列表和 k=v&k=v 形式的拼接串
func canonicalValues(params url.Values) (string, string) {
	if len(params) == 0 {
		return "", ""
	}

	keys := make([]string, 0, len(params))
	lowered := make(map[string]string, len(params))
	for k := range params {
		lk := strings.ToLower(k)
		keys = append(keys, lk)
		lowered[lk] = params.Get(k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, safeURLEncode(k)+"="+safeURLEncode(lowered[k]))
	}
	return strings.Join(keys, ";"), strings.Join(pairs, "&")
}

func canonicalHeaders(headers http.Header) (string, string) {
	if len(headers) == 0 {
		return "", ""
	}

	keys := make([]string, 0, len(headers))
	lowered := make(map[string]string, len(headers))
	for k := range headers {
		lk := strings.ToLower(k)
		keys = append(keys, lk)
		lowered[lk] = headers.Get(k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, safeURLEncode(k)+"="+safeURLEncode(lowered[k]))
	}
	return strings.Join(keys, ";"), strings.Join(pairs, "&")
}
