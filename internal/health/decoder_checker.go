package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taoyao-code/connit-decoder/internal/protocol/connit"
)

// DecoderChecker 解码器自检：对路由表每个格子构造探测报文并核对分发结果
type DecoderChecker struct{}

// NewDecoderChecker 创建解码器自检
func NewDecoderChecker() *DecoderChecker { return &DecoderChecker{} }

// Name 检查器名称
func (c *DecoderChecker) Name() string { return "decoder" }

// Check 执行自检
func (c *DecoderChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	routes := connit.Routes()
	registered := make(map[string]string, len(routes))
	for _, r := range routes {
		registered[r.Message+"/"+r.Device] = r.Variant
	}

	var failures []string
	for _, msg := range []connit.MessageType{connit.MessageAppInit, connit.MessageAppData, connit.MessageEvent, connit.MessageConfig} {
		if err := ctx.Err(); err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Latency: time.Since(start)}
		}
		raw := fmt.Sprintf("%X000", uint8(msg))
		for _, d := range connit.DeviceTypes() {
			want, ok := registered[msg.String()+"/"+d.String()]
			dec, err := connit.Decode(raw, d.String())
			switch {
			case ok && err != nil:
				failures = append(failures, fmt.Sprintf("%s/%s: %v", msg, d, err))
			case ok && dec.Name() != want:
				failures = append(failures, fmt.Sprintf("%s/%s: got %s want %s", msg, d, dec.Name(), want))
			case !ok && !errors.Is(err, connit.ErrUnknownDeviceType):
				failures = append(failures, fmt.Sprintf("%s/%s: expected unknown device type, got %v", msg, d, err))
			}
		}
	}

	res := CheckResult{
		Status:  StatusHealthy,
		Details: map[string]interface{}{"routes": len(routes)},
		Latency: time.Since(start),
	}
	if len(failures) > 0 {
		res.Status = StatusUnhealthy
		res.Message = fmt.Sprintf("%d dispatch self-test failures", len(failures))
		res.Details["failures"] = failures
	}
	return res
}
