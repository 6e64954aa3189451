package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/connit-decoder/internal/api/middleware"
	"github.com/taoyao-code/connit-decoder/internal/protocol/connit"
	"github.com/taoyao-code/connit-decoder/internal/service"
)

// StandardResponse 统一响应格式
type StandardResponse struct {
	Code      int         `json:"code"`           // 0=成功, >0=错误码
	Message   string      `json:"message"`        // 消息
	Kind      string      `json:"kind,omitempty"` // 错误类别
	Data      interface{} `json:"data,omitempty"` // 业务数据
	RequestID string      `json:"request_id"`     // 请求追踪ID
	Timestamp int64       `json:"timestamp"`      // 时间戳
}

// 业务错误码
const (
	CodeOK                 = 0
	CodeBadRequest         = 1000
	CodeFormat             = 1001
	CodeUnsupportedVersion = 1002
	CodeUnknownDeviceType  = 1003
	CodeUnknownMessageType = 1004
	CodeBatchTooLarge      = 1005
	CodeInternal           = 1500
)

// errorCode 解码错误 -> (HTTP 状态码, 业务错误码)
func errorCode(err error) (int, int) {
	switch {
	case errors.Is(err, connit.ErrFormat):
		return http.StatusBadRequest, CodeFormat
	case errors.Is(err, connit.ErrUnsupportedVersion):
		return http.StatusBadRequest, CodeUnsupportedVersion
	case errors.Is(err, connit.ErrUnknownDeviceType):
		return http.StatusUnprocessableEntity, CodeUnknownDeviceType
	case errors.Is(err, connit.ErrUnknownMessageType):
		return http.StatusUnprocessableEntity, CodeUnknownMessageType
	case errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, CodeBatchTooLarge
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Code:      CodeOK,
		Message:   "success",
		Data:      data,
		RequestID: c.GetString(middleware.RequestIDKey),
		Timestamp: time.Now().Unix(),
	})
}

func fail(c *gin.Context, status, code int, kind, message string) {
	c.JSON(status, StandardResponse{
		Code:      code,
		Message:   message,
		Kind:      kind,
		RequestID: c.GetString(middleware.RequestIDKey),
		Timestamp: time.Now().Unix(),
	})
}

func failErr(c *gin.Context, err error) {
	status, code := errorCode(err)
	kind := connit.ErrorKind(err)
	if errors.Is(err, service.ErrBatchTooLarge) {
		kind = "batch_too_large"
	}
	fail(c, status, code, kind, err.Error())
}
