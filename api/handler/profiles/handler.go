// Package profiles 存储档案管理 HTTP 处理器
package profiles

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voidovo/imgtoss-sub000/api/common"
	"github.com/voidovo/imgtoss-sub000/config"
)

// Handler 档案管理处理器
type Handler struct {
	store *config.ProfileStore
}

// NewHandler 创建档案管理处理器
func NewHandler(store *config.ProfileStore) *Handler {
	return &Handler{store: store}
}

// ListProfiles 返回所有档案名
func (h *Handler) ListProfiles(c *gin.Context) {
	common.RespondSuccess(c, gin.H{"profiles": h.store.List()})
}

// GetProfile 返回单个档案，密钥字段脱敏
func (h *Handler) GetProfile(c *gin.Context) {
	cfg, err := h.store.Load(c.Param("name"))
	if err != nil {
		common.RespondError(c, http.StatusNotFound, err.Error())
		return
	}

	// 密钥不回传
	cfg.AccessKeySecret = ""
	common.RespondSuccess(c, cfg)
}

type saveProfileRequest struct {
	Name   string               `json:"name" binding:"required"`
	Config config.StorageConfig `json:"config" binding:"required"`
}

// SaveProfile 写入（或覆盖）档案
func (h *Handler) SaveProfile(c *gin.Context) {
	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.store.Save(req.Name, req.Config); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	common.RespondSuccessMessage(c, "profile saved", gin.H{"name": req.Name})
}

// DeleteProfile 删除档案
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.store.Delete(c.Param("name")); err != nil {
		common.RespondError(c, http.StatusNotFound, err.Error())
		return
	}
	common.RespondSuccessMessage(c, "profile deleted", nil)
}
