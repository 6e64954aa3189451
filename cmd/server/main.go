package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taoyao-code/connit-decoder/internal/api"
	"github.com/taoyao-code/connit-decoder/internal/api/middleware"
	cfgpkg "github.com/taoyao-code/connit-decoder/internal/config"
	"github.com/taoyao-code/connit-decoder/internal/health"
	"github.com/taoyao-code/connit-decoder/internal/httpserver"
	"github.com/taoyao-code/connit-decoder/internal/logging"
	"github.com/taoyao-code/connit-decoder/internal/metrics"
	"github.com/taoyao-code/connit-decoder/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 指标注册
	reg := metrics.NewRegistry()
	appMetrics := metrics.NewAppMetrics(reg)
	var metricsHandler http.Handler
	if cfg.Metrics.Enable {
		metricsHandler = metrics.Handler(reg)
	}

	// 4) 解码服务
	names := service.DefaultDeviceNames()
	if cfg.Decoder.DeviceNamesFile != "" {
		if names, err = service.LoadDeviceNames(cfg.Decoder.DeviceNamesFile); err != nil {
			log.Fatal("load device names failed", zap.Error(err))
		}
	}
	svc := service.NewDecodeService(service.Options{
		MaxRawLength: cfg.Decoder.MaxRawLength,
		MaxBatchSize: cfg.Decoder.MaxBatchSize,
		Names:        names,
	}, appMetrics, log.Named("decoder"))

	// 5) 健康检查：解码路由自检
	agg := health.NewAggregator(health.NewDecoderChecker())
	readyFn := func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return agg.Ready(ctx)
	}

	// 6) HTTP 服务
	httpSrv := httpserver.New(cfg.HTTP, cfg.Metrics.Path, metricsHandler, readyFn, log.Named("http"))
	health.RegisterHTTPRoutes(httpSrv.Engine(), agg)
	routeOpts := api.RouteOptions{
		Auth: middleware.AuthConfig{Enabled: cfg.Auth.Enabled, APIKeys: cfg.Auth.APIKeys},
	}
	if cfg.RateLimit.Enable {
		routeOpts.Limiter = middleware.NewRateLimiter(cfg.RateLimit.RatePerSec, cfg.RateLimit.Burst)
		routeOpts.OnRateLimited = appMetrics.RateLimitedTotal.Inc
	}
	api.RegisterDecodeRoutes(httpSrv.Engine(), svc, routeOpts, log.Named("api"))

	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.App.Env))
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}
}
