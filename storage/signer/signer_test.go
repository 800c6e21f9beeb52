package signer

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aliyunHeaders(date string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "image/png")
	h.Set("Date", date)
	return h
}

// TestSignAliyun_Deterministic 同一输入两次签名结果一致
func TestSignAliyun_Deterministic(t *testing.T) {
	h := aliyunHeaders("Mon, 02 Jan 2006 15:04:05 GMT")

	token1, err := SignAliyun("secret", "ak-id", "PUT", "/test-bucket/img/1.png", h)
	require.NoError(t, err)
	token2, err := SignAliyun("secret", "ak-id", "PUT", "/test-bucket/img/1.png", h)
	require.NoError(t, err)

	assert.Equal(t, token1, token2)
	assert.True(t, strings.HasPrefix(token1, "OSS ak-id:"))
}

// TestSignAliyun_InputSensitivity 任一输入变化都应改变签名
func TestSignAliyun_InputSensitivity(t *testing.T) {
	h := aliyunHeaders("Mon, 02 Jan 2006 15:04:05 GMT")

	base, err := SignAliyun("secret", "ak-id", "PUT", "/test-bucket/img/1.png", h)
	require.NoError(t, err)

	otherSecret, err := SignAliyun("secret2", "ak-id", "PUT", "/test-bucket/img/1.png", h)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherSecret)

	otherMethod, err := SignAliyun("secret", "ak-id", "DELETE", "/test-bucket/img/1.png", h)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherMethod)

	otherResource, err := SignAliyun("secret", "ak-id", "PUT", "/test-bucket/img/2.png", h)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherResource)

	h2 := aliyunHeaders("Mon, 02 Jan 2006 15:04:06 GMT")
	otherDate, err := SignAliyun("secret", "ak-id", "PUT", "/test-bucket/img/1.png", h2)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherDate)
}

// TestSignAliyun_EmptySecret 空密钥必须报 SigningError
func TestSignAliyun_EmptySecret(t *testing.T) {
	_, err := SignAliyun("", "ak-id", "PUT", "/b/k", http.Header{})
	require.Error(t, err)
	var sigErr *SigningError
	assert.ErrorAs(t, err, &sigErr)
}

// TestSignTencent_FrozenTime 冻结时间后两次签名结果一致
func TestSignTencent_FrozenTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	params := url.Values{}
	headers := http.Header{}
	headers.Set("Host", "test-bucket-1250000000.cos.ap-guangzhou.myqcloud.com")

	token1, err := SignTencent("secret", "ak-id", "PUT", "/img/1.png", params, headers, now)
	require.NoError(t, err)
	token2, err := SignTencent("secret", "ak-id", "PUT", "/img/1.png", params, headers, now)
	require.NoError(t, err)

	assert.Equal(t, token1, token2)
}

// TestSignTencent_TokenShape 令牌为查询串形态且包含正确的 key-time 窗口
func TestSignTencent_TokenShape(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	headers := http.Header{}
	headers.Set("Host", "example.com")
	headers.Set("Content-Type", "image/png")

	token, err := SignTencent("secret", "ak-id", "PUT", "/img/1.png", url.Values{}, headers, now)
	require.NoError(t, err)

	values, err := url.ParseQuery(token)
	require.NoError(t, err)

	assert.Equal(t, "sha1", values.Get("q-sign-algorithm"))
	assert.Equal(t, "ak-id", values.Get("q-ak"))

	keyTime := values.Get("q-key-time")
	assert.Equal(t, keyTime, values.Get("q-sign-time"))
	parts := strings.Split(keyTime, ";")
	require.Len(t, parts, 2)
	assert.Equal(t, "1717243200", parts[0])
	assert.Equal(t, "1717246800", parts[1]) // 窗口恰好一小时

	// 头部列表为小写排序
	assert.Equal(t, "content-type;host", values.Get("q-header-list"))
	assert.NotEmpty(t, values.Get("q-signature"))
}

// TestSignTencent_WindowBoundary 跨越 key-time 窗口边界后签名变化
func TestSignTencent_WindowBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	headers := http.Header{}
	headers.Set("Host", "example.com")

	token1, err := SignTencent("secret", "ak-id", "GET", "/", url.Values{}, headers, now)
	require.NoError(t, err)
	token2, err := SignTencent("secret", "ak-id", "GET", "/", url.Values{}, headers, now.Add(time.Second))
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}

// TestSignTencent_ParamCanonicalization 查询参数按小写键名排序参与签名
func TestSignTencent_ParamCanonicalization(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	params := url.Values{}
	params.Set("prefix", "img/")
	params.Set("max-keys", "100")

	token, err := SignTencent("secret", "ak-id", "GET", "/", params, http.Header{}, now)
	require.NoError(t, err)

	values, err := url.ParseQuery(token)
	require.NoError(t, err)
	assert.Equal(t, "max-keys;prefix", values.Get("q-url-param-list"))
}

// TestSignTencent_EmptySecret 空密钥必须报 SigningError
func TestSignTencent_EmptySecret(t *testing.T) {
	_, err := SignTencent("", "ak-id", "PUT", "/", url.Values{}, http.Header{}, time.Now())
	require.Error(t, err)
	var sigErr *SigningError
	assert.ErrorAs(t, err, &sigErr)
}

// TestSignAWSV4_Deterministic 同一输入两次签名结果一致
func TestSignAWSV4_Deterministic(t *testing.T) {
	token1, err := SignAWSV4("secret", "ak-id", "PUT", "/img/1.png", "test-bucket.s3.us-east-1.amazonaws.com", "20240601T120000Z")
	require.NoError(t, err)
	token2, err := SignAWSV4("secret", "ak-id", "PUT", "/img/1.png", "test-bucket.s3.us-east-1.amazonaws.com", "20240601T120000Z")
	require.NoError(t, err)

	assert.Equal(t, token1, token2)
}

// TestSignAWSV4_TokenShape 凭证范围取日期前缀，签名头列表固定
func TestSignAWSV4_TokenShape(t *testing.T) {
	token, err := SignAWSV4("secret", "ak-id", "HEAD", "/", "b.s3.us-east-1.amazonaws.com", "20240601T120000Z")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "AWS4-HMAC-SHA256 Credential=ak-id/20240601/s3/aws4_request,"))
	assert.Contains(t, token, "SignedHeaders=host;x-amz-date,")
	assert.Contains(t, token, "Signature=")
}

// TestSignAWSV4_InputSensitivity host 或日期变化都应改变签名
func TestSignAWSV4_InputSensitivity(t *testing.T) {
	base, err := SignAWSV4("secret", "ak-id", "PUT", "/k", "a.example.com", "20240601T120000Z")
	require.NoError(t, err)

	otherHost, err := SignAWSV4("secret", "ak-id", "PUT", "/k", "b.example.com", "20240601T120000Z")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherHost)

	otherDate, err := SignAWSV4("secret", "ak-id", "PUT", "/k", "a.example.com", "20240601T120001Z")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherDate)
}

// TestSignAWSV4_EmptySecret 空密钥必须报 SigningError
func TestSignAWSV4_EmptySecret(t *testing.T) {
	_, err := SignAWSV4("", "ak-id", "PUT", "/", "example.com", "20240601T120000Z")
	require.Error(t, err)
	var sigErr *SigningError
	assert.ErrorAs(t, err, &sigErr)
}
