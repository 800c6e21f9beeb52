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

const amzDateFormat = "20060102T150405Z"

// s3Storage AWS S3 适配器，虚拟主机风格域名 <bucket>.s3.<region>.amazonaws.com
type s3Storage struct {
	cfg    config.StorageConfig
	client *http.Client
	scheme string
	host   string
	now    func() time.Time
}

// NewS3Storage 创建 AWS S3 存储提供者
func NewS3Storage(cfg config.StorageConfig) Provider {
	host := cfg.Endpoint
	if host == "" {
		host = fmt.Sprintf("%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &s3Storage{
		cfg:    cfg,
		client: defaultHTTPClient(),
		scheme: "https",
		host:   host,
		now:    time.Now,
	}
}

func (s *s3Storage) Name() string {
	return string(config.ProviderAWSS3)
}

func (s *s3Storage) requestURL(uri string, query url.Values) string {
	u := url.URL{Scheme: s.scheme, Host: s.host, Path: uri, RawQuery: query.Encode()}
	return u.String()
}

// signedRequest 构造带 x-amz-date 和 Authorization 的请求
func (s *s3Storage) signedRequest(ctx context.Context, method, uri string, query url.Values, body []byte) (*http.Request, error) {
	amzDate := s.now().UTC().Format(amzDateFormat)

	auth, err := signer.SignAWSV4(s.cfg.AccessKeySecret, s.cfg.AccessKeyID, method, uri, s.host, amzDate)
	if err != nil {
		return nil, err
	}

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.requestURL(uri, query), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-amz-date", amzDate)
	req.Header.Set("x-amz-content-sha256", "UNSIGNED-PAYLOAD")
	req.Header.Set("Authorization", auth)
	return req, nil
}

// Upload 上传对象，进度在 0% 和 100% 各上报一次
func (s *s3Storage) Upload(ctx context.Context, key string, data []byte, contentType string, progress ProgressFunc) (string, error) {
	total := int64(len(data))
	uri := "/" + strings.TrimLeft(key, "/")

	req, err := s.signedRequest(ctx, http.MethodPut, uri, nil, data)
	if err != nil {
		if _, ok := err.(*signer.SigningError); ok {
			return "", err
		}
		return "", &UploadError{Key: key, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

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
func (s *s3Storage) Delete(ctx context.Context, key string) error {
	uri := "/" + strings.TrimLeft(key, "/")

	req, err := s.signedRequest(ctx, http.MethodDelete, uri, nil, nil)
	if err != nil {
		if _, ok := err.(*signer.SigningError); ok {
			return err
		}
		return &DeleteError{Key: key, Err: err}
	}

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
func (s *s3Storage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	query := url.Values{}
	query.Set("list-type", "2")
	if prefix != "" {
		query.Set("prefix", prefix)
	}

	req, err := s.signedRequest(ctx, http.MethodGet, "/", query, nil)
	if err != nil {
		return nil, err
	}

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

// Probe 对 bucket 根发起 HEAD 请求。
// 与 OSS/COS 不同，S3 的 403 不视为成功，只认 2xx。
func (s *s3Storage) Probe(ctx context.Context) error {
	req, err := s.signedRequest(ctx, http.MethodHead, "/", nil, nil)
	if err != nil {
		if _, ok := err.(*signer.SigningError); ok {
			return err
		}
		return &ProbeError{Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &ProbeError{Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return &ProbeError{Status: resp.StatusCode, Body: readErrorBody(resp)}
	}
	return nil
}

// ObjectURL 返回对象公开访问 URL
func (s *s3Storage) ObjectURL(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.cfg.CDNDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.CDNDomain, key)
	}
	return fmt.Sprintf("%s://%s/%s", s.scheme, s.host, key)
}
