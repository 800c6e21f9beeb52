// Package uploads 上传相关 HTTP 处理器。
// 每个请求通过 profile 参数指定一份命名存储档案，
// 处理器按档案构建编排服务后委托执行。
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/voidovo/imgtoss-sub000/api/common"
	"github.com/voidovo/imgtoss-sub000/cache/conntest"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/internal/history"
	"github.com/voidovo/imgtoss-sub000/internal/uploader"
)

const maxBatchFiles = 10

// Handler 上传处理器
type Handler struct {
	profiles   *config.ProfileStore
	probeCache *conntest.Cache
	history    *history.Service
}

// NewHandler 创建上传处理器（依赖注入）
func NewHandler(profiles *config.ProfileStore, probeCache *conntest.Cache, historySvc *history.Service) *Handler {
	return &Handler{
		profiles:   profiles,
		probeCache: probeCache,
		history:    historySvc,
	}
}

// resolveService 按请求的 profile 参数构建上传服务
func (h *Handler) resolveService(c *gin.Context) (*uploader.Service, config.StorageConfig, error) {
	name := c.PostForm("profile")
	if name == "" {
		name = c.Query("profile")
	}
	if name == "" {
		return nil, config.StorageConfig{}, fmt.Errorf("the 'profile' parameter is required")
	}

	cfg, err := h.profiles.Load(name)
	if err != nil {
		return nil, config.StorageConfig{}, err
	}

	svc, err := uploader.New(cfg, h.probeCache)
	if err != nil {
		return nil, config.StorageConfig{}, err
	}
	return svc, cfg, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// objectKey 表单可以显式给出对象键，缺省用文件名
func objectKey(c *gin.Context, fh *multipart.FileHeader) string {
	if key := c.PostForm("key"); key != "" {
		return key
	}
	return filepath.Base(fh.Filename)
}

// UploadImage 处理单图片上传
func (h *Handler) UploadImage(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		common.RespondError(c, http.StatusBadRequest, "A file is required under the 'file' key")
		return
	}
	if len(files) > 1 {
		common.RespondError(c, http.StatusBadRequest, "Only one file is allowed for single upload")
		return
	}

	svc, cfg, err := h.resolveService(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	data, err := readFile(files[0])
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	key := objectKey(c, files[0])
	items := []uploader.Item{{Key: key, Data: data}}
	results := svc.UploadMany(c.Request.Context(), items, nil)
	if h.history != nil {
		h.history.RecordResults(c.Request.Context(), cfg, items, results)
	}

	result := results[0]
	if !result.Success {
		common.RespondError(c, http.StatusBadGateway, result.Error)
		return
	}
	common.RespondSuccess(c, result)
}

// UploadImages 处理批量上传，逐条隔离失败
func (h *Handler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		common.RespondError(c, http.StatusBadRequest, "At least one file is required under the 'files' key")
		return
	}
	if len(files) > maxBatchFiles {
		common.RespondError(c, http.StatusBadRequest, fmt.Sprintf("Maximum %d files allowed per upload", maxBatchFiles))
		return
	}

	svc, cfg, err := h.resolveService(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]uploader.Item, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		items = append(items, uploader.Item{Key: filepath.Base(fh.Filename), Data: data})
	}

	results := svc.UploadMany(c.Request.Context(), items, nil)
	if h.history != nil {
		h.history.RecordResults(c.Request.Context(), cfg, items, results)
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	common.RespondSuccess(c, gin.H{
		"total":     len(results),
		"succeeded": succeeded,
		"results":   results,
	})
}

// TestConnection 连接测试，force=true 时跳过缓存
func (h *Handler) TestConnection(c *gin.Context) {
	svc, _, err := h.resolveService(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	force := c.Query("force") == "true"
	outcome := svc.ValidateAndTest(c.Request.Context(), force)
	common.RespondSuccess(c, outcome)
}

// DeleteObject 删除远端对象
func (h *Handler) DeleteObject(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		common.RespondError(c, http.StatusBadRequest, "Object key is required")
		return
	}

	svc, _, err := h.resolveService(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := svc.Provider().Delete(c.Request.Context(), key); err != nil {
		common.RespondError(c, http.StatusBadGateway, err.Error())
		return
	}
	common.RespondSuccessMessage(c, "deleted", gin.H{"key": key})
}

// ListObjects 列出远端对象
func (h *Handler) ListObjects(c *gin.Context) {
	svc, _, err := h.resolveService(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	objects, err := svc.Provider().List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		common.RespondError(c, http.StatusBadGateway, err.Error())
		return
	}
	common.RespondSuccess(c, gin.H{"objects": objects})
}
