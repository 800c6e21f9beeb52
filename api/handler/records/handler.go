// Package records 上传历史查询 HTTP 处理器
package records

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voidovo/imgtoss-sub000/api/common"
	"github.com/voidovo/imgtoss-sub000/internal/history"
)

// Handler 历史记录处理器
type Handler struct {
	history *history.Service
}

// NewHandler 创建历史记录处理器
func NewHandler(historySvc *history.Service) *Handler {
	return &Handler{history: historySvc}
}

// ListHistory 分页查询上传历史
func (h *Handler) ListHistory(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	page, err := h.history.List(c.Request.Context(), offset, limit)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespondSuccess(c, page)
}

// GetHistoryByKey 查询某对象键的全部上传记录
func (h *Handler) GetHistoryByKey(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		common.RespondError(c, http.StatusBadRequest, "Object key is required")
		return
	}

	entries, err := h.history.FindByKey(c.Request.Context(), key)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	common.RespondSuccess(c, gin.H{"records": entries})
}
