package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/connit-decoder/internal/protocol/connit"
	"github.com/taoyao-code/connit-decoder/internal/service"
)

// DecodeHandler 报文解码接口（运维调试用，不承担设备上行接入）
type DecodeHandler struct {
	svc    *service.DecodeService
	logger *zap.Logger
}

// NewDecodeHandler 创建解码处理器
func NewDecodeHandler(svc *service.DecodeService, logger *zap.Logger) *DecodeHandler {
	return &DecodeHandler{svc: svc, logger: logger}
}

// BatchDecodeRequest 批量解码请求
type BatchDecodeRequest struct {
	Items []service.DecodeRequest `json:"items" binding:"required"`
}

// Decode 解码单条报文
// POST /api/v1/decode
func (h *DecodeHandler) Decode(c *gin.Context) {
	var req service.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "bad_request", err.Error())
		return
	}
	res, err := h.svc.Decode(c.Request.Context(), req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}

// DecodeBatch 批量解码，单条失败体现在对应条目中
// POST /api/v1/decode/batch
func (h *DecodeHandler) DecodeBatch(c *gin.Context) {
	var req BatchDecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, CodeBadRequest, "bad_request", err.Error())
		return
	}
	items, err := h.svc.Batch(c.Request.Context(), req.Items)
	if err != nil {
		h.logger.Warn("batch decode rejected", zap.Int("items", len(req.Items)), zap.Error(err))
		failErr(c, err)
		return
	}
	ok(c, items)
}

// Header 只解析报文头
// GET /api/v1/header/:raw
func (h *DecodeHandler) Header(c *gin.Context) {
	res, err := h.svc.Header(c.Request.Context(), c.Param("raw"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, res)
}

// Routes 列出已注册的 (消息类型, 设备类型) 组合
// GET /api/v1/routes
func (h *DecodeHandler) Routes(c *gin.Context) {
	ok(c, connit.Routes())
}
