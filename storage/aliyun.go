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

// aliyunStorage 阿里云 OSS 适配器，虚拟主机风格域名 bucket.<endpoint>
type aliyunStorage struct {
	cfg    config.StorageConfig
	client *http.Client
	scheme string
	host   string
	now    func() time.Time
}

// NewAliyunStorage 创建阿里云 OSS 存储提供者
func NewAliyunStorage(cfg config.StorageConfig) Provider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("oss-%s.aliyuncs.com", cfg.Region)
	}
	return &aliyunStorage{
		cfg:    cfg,
		client: defaultHTTPClient(),
		scheme: "https",
		host:   cfg.Bucket + "." + endpoint,
		now:    time.Now,
	}
}

func (s *aliyunStorage) Name() string {
	return string(config.ProviderAliyunOSS)
}

func (s *aliyunStorage) objectRequestURL(key string, query url.Values) string {
	u := url.URL{
		Scheme:   s.scheme,
		Host:     s.host,
		Path:     "/" + strings.TrimLeft(key, "/"),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Upload 上传对象。进度在请求发出前（0%）和成功返回后（100%）各上报一次，
// 没有中间进度。
func (s *aliyunStorage) Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error) {
	total := int64(len(data))
	date := s.now().UTC().Format(http.TimeFormat)

	headers := http.Header{}
	headers.Set("Date", date)
	headers.Set("Content-Type", contentType)

	resource := "/" + s.cfg.Bucket + "/" + strings.TrimLeft(key, "/")
	auth, err := signer.SignAliyun(s.cfg.AccessKeySecret, s.cfg.AccessKeyID, http.MethodPut, resource, headers)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectRequestURL(key, nil), bytes.NewReader(data))
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	req.Header.Set("Date", date)
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
func (s *aliyunStorage) Delete(ctx context.Context, key string) error {
	date := s.now().UTC().Format(http.TimeFormat)

	headers := http.Header{}
	headers.Set("Date", date)

	resource := "/" + s.cfg.Bucket + "/" + strings.TrimLeft(key, "/")
	auth, err := signer.SignAliyun(s.cfg.AccessKeySecret, s.cfg.AccessKeyID, http.MethodDelete, resource, headers)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectRequestURL(key, nil), nil)
	if err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	req.Header.Set("Date", date)
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

// List 按前缀列出对象。XML 响应体解析不在范围内，2xx 一律返回空集合。
func (s *aliyunStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	date := s.now().UTC().Format(http.TimeFormat)

	headers := http.Header{}
	headers.Set("Date", date)

	resource := "/" + s.cfg.Bucket + "/"
	auth, err := signer.SignAliyun(s.cfg.AccessKeySecret, s.cfg.AccessKeyID, http.MethodGet, resource, headers)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if prefix != "" {
		query.Set("prefix", prefix)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.objectRequestURL("", query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}
	req.Header.Set("Date", date)
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

// Probe 对 bucket 根发起 HEAD 请求，与上传走同一条签名路径。
// 403 说明 DNS/TLS/路由可达，仅凭证不匹配，视为探测成功。
func (s *aliyunStorage) Probe(ctx context.Context) error {
	date := s.now().UTC().Format(http.TimeFormat)

	headers := http.Header{}
	headers.Set("Date", date)

	resource := "/" + s.cfg.Bucket + "/"
	auth, err := signer.SignAliyun(s.cfg.AccessKeySecret, s.cfg.AccessKeyID, http.MethodHead, resource, headers)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.objectRequestURL("", nil), nil)
	if err != nil {
		return &ProbeError{Err: err}
	}
	req.Header.Set("Date", date)
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

// ObjectURL 返回对象公开访问 URL。配置了 CDN 域名时优先使用。
func (s *aliyunStorage) ObjectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.CDNDomain, key)
	}
	return fmt.Sprintf("%s://%s/%s", s.scheme, s.host, key)
}
