package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/storage/signer"
)

// tencentStorage 腾讯云 COS 适配器。
// bucket 字段携带 APPID 后缀（形如 name-1250000000），
// 域名为 <bucket>.cos.<region>.myqcloud.com。
type tencentStorage struct {
	cfg    config.StorageConfig
	client *http.Client
	scheme string
	host   string
	now    func() time.Time
}

// NewTencentStorage 创建腾讯云 COS 存储提供者
func NewTencentStorage(cfg config.StorageConfig) Provider {
	host := cfg.Endpoint
	if host == "" {
		host = fmt.Sprintf("%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	}
	return &tencentStorage{
		cfg:    cfg,
		client: defaultHTTPClient(),
		scheme: "https",
		host:   host,
		now:    time.Now,
	}
}

func (s *tencentStorage) Name() string {
	return string(config.ProviderTencentCOS)
}

func (s *tencentStorage) requestURL(uri string) string {
	u := url.URL{Scheme: s.scheme, Host: s.host, Path: uri}
	return u.String()
}

// sign 每次请求重新生成令牌。COS 签名带一小时 key-time 窗口，
// 过期令牌会被服务端拒绝，不能缓存复用。
func (s *tencentStorage) sign(method, uri string, params url.Values, headers http.Header) (string, error) {
	return signer.SignTencent(s.cfg.AccessKeySecret, s.cfg.AccessKeyID, method, uri, params, headers, s.now())
}

// Upload 上传对象，进度在 0% 和 100% 各上报一次
func (s *tencentStorage) Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error) {
	total := int64(len(data))
	uri := "/" + strings.TrimLeft(key, "/")

	headers := http.Header{}
	headers.Set("Host", s.host)
	headers.Set("Content-Type", contentType)

	auth, err := s.sign(http.MethodPut, uri, nil, headers)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.requestURL(uri), bytes.NewReader(data))
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", auth)

	emitProgress(progress, key, 0, 0, total)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", &UploadError{Key: key, Status: resp.StatusCode, Body: readErrorBody(resp)}
	}

	emitProgress(progress, key, 100, total, total)
	return s.ObjectURL(key), nil
}

// Delete 删除对象
func (s *tencentStorage) Delete(ctx context.Context, key string) error {
	uri := "/" + strings.TrimLeft(key, "/")

	headers := http.Header{}
	headers.Set("Host", s.host)

	auth, err := s.sign(http.MethodDelete, uri, nil, headers)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.requestURL(uri), nil)
	if err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	req.Header.Set("Authorization", auth)

	resp, err := s.client.Do(req)
	if err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &DeleteError{Key: key, Status: resp.StatusCode, Body: readErrorBody(resp)}
	}
	return nil
}

// List 按前缀列出对象，响应体解析被显式置为空实现
func (s *tencentStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	params := url.Values{}
	if prefix != "" {
		params.Set("prefix", prefix)
	}

	headers := http.Header{}
	headers.Set("Host", s.host)

	auth, err := s.sign(http.MethodGet, "/", params, headers)
	if err != nil {
		return nil, err
	}

	u := url.URL{Scheme: s.scheme, Host: s.host, Path: "/", RawQuery: params.Encode()}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	req.Header.Set("Authorization", auth)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("list request failed: status %d: %s", resp.StatusCode, readErrorBody(resp))
	}
	return []ObjectInfo{}, nil
}

// Probe 对 bucket 根发起 HEAD 请求。同 OSS，403 视为可达。
func (s *tencentStorage) Probe(ctx context.Context) error {
	headers := http.Header{}
	headers.Set("Host", s.host)

	auth, err := s.sign(http.MethodHead, "/", nil, headers)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.requestURL("/"), nil)
	if err != nil {
		return &ProbeError{Err: err}
	}
	req.Header.Set("Authorization", auth)

	resp, err := s.client.Do(req)
	if err != nil {
		return &ProbeError{Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) && resp.StatusCode != http.StatusForbidden {
		return &ProbeError{Status: resp.StatusCode, Body: readErrorBody(resp)}
	}
	return nil
}

// ObjectURL 返回对象公开访问 URL
func (s *tencentStorage) ObjectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.CDNDomain, key)
	}
	return fmt.Sprintf("%s://%s/%s", s.scheme, s.host, key)
}
