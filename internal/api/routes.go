package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/connit-decoder/internal/api/middleware"
	"github.com/taoyao-code/connit-decoder/internal/service"
)

// RouteOptions 路由参数
type RouteOptions struct {
	Auth    middleware.AuthConfig
	Limiter *middleware.RateLimiter
	// OnRateLimited 限流拒绝回调（指标计数）
	OnRateLimited func()
}

// RegisterDecodeRoutes 注册解码接口路由
func RegisterDecodeRoutes(r *gin.Engine, svc *service.DecodeService, opts RouteOptions, logger *zap.Logger) {
	if r == nil || svc == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := NewDecodeHandler(svc, logger)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RequestTracing())
	if opts.Auth.Enabled {
		v1.Use(middleware.APIKeyAuth(opts.Auth, logger))
		logger.Info("api authentication enabled", zap.Int("api_keys_count", len(opts.Auth.APIKeys)))
	} else {
		logger.Warn("api authentication disabled - only for development!")
	}
	if opts.Limiter != nil {
		v1.Use(middleware.RateLimit(opts.Limiter, opts.OnRateLimited))
	}

	v1.POST("/decode", handler.Decode)
	v1.POST("/decode/batch", handler.DecodeBatch)
	v1.GET("/header/:raw", handler.Header)
	v1.GET("/routes", handler.Routes)

	logger.Info("decode routes registered", zap.Int("endpoints", 4))
}
