package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taoyao-code/connit-decoder/internal/metrics"
	"github.com/taoyao-code/connit-decoder/internal/protocol/connit"
)

func newTestService(t *testing.T) (*DecodeService, *metrics.AppMetrics, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.NewAppMetrics(prometheus.NewRegistry())
	svc := NewDecodeService(Options{MaxRawLength: 24, MaxBatchSize: 3}, m, zap.New(core))
	return svc, m, logs
}

// TestDecodeService_Decode 正常解码 BlackOne 配置报文
func TestDecodeService_Decode(t *testing.T) {
	svc, m, _ := newTestService(t)

	res, err := svc.Decode(context.Background(), DecodeRequest{Raw: " 30ab ", DeviceType: "LBO"})
	require.NoError(t, err)
	assert.Equal(t, "BlackOneConfig", res.Variant)
	assert.Equal(t, "LBO", res.DeviceType)
	assert.Equal(t, "Live BlackOne", res.DeviceName)
	assert.Equal(t, "Config", res.MessageType)
	assert.Equal(t, "30AB", res.Raw)
	assert.Equal(t, "AB", res.PayloadHex)
	assert.Equal(t, connit.Header{X: 3, Y: 0, Z: false, MessageType: "Config"}, res.Header)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeTotal.WithLabelValues("Config", "LBO", "ok")))
}

func TestDecodeService_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  DecodeRequest
		want error
		kind string
	}{
		{"odd length", DecodeRequest{Raw: "abc", DeviceType: "LPB"}, connit.ErrFormat, "format"},
		{"too long", DecodeRequest{Raw: strings.Repeat("00", 13), DeviceType: "LPB"}, connit.ErrFormat, "format"},
		{"version", DecodeRequest{Raw: "1F", DeviceType: "LPB", ProtoVer: 1}, connit.ErrUnsupportedVersion, "unsupported_version"},
		{"unregistered", DecodeRequest{Raw: "10FF", DeviceType: "LBO"}, connit.ErrUnknownDeviceType, "unknown_device_type"},
		{"category", DecodeRequest{Raw: "70", DeviceType: "LPB"}, connit.ErrUnknownMessageType, "unknown_message_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m, logs := newTestService(t)
			res, err := svc.Decode(context.Background(), tt.req)
			assert.Nil(t, res)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrorTotal.WithLabelValues(tt.kind)))

			warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
			require.Len(t, warns, 1)
			assert.Equal(t, tt.kind, warns[0].ContextMap()["kind"])
		})
	}
}

func TestDecodeService_UnknownDeviceLabel(t *testing.T) {
	svc, m, _ := newTestService(t)
	_, err := svc.Decode(context.Background(), DecodeRequest{Raw: "2001", DeviceType: "QQQ"})
	require.ErrorIs(t, err, connit.ErrUnknownDeviceType)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeTotal.WithLabelValues("Event", "other", "error")))
}

func TestDecodeService_Canceled(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Decode(ctx, DecodeRequest{Raw: "30AB", DeviceType: "LBO"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeService_Header(t *testing.T) {
	svc, _, _ := newTestService(t)
	res, err := svc.Header(context.Background(), "1B00")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Bytes)
	assert.Equal(t, uint8(1), res.Header.X)
	assert.Equal(t, uint8(5), res.Header.Y)
	assert.True(t, res.Header.Z)
	assert.Equal(t, "0001", res.HighBits)
	assert.Equal(t, "1011", res.LowBits)

	_, err = svc.Header(context.Background(), "1")
	assert.ErrorIs(t, err, connit.ErrFormat)
}

func TestDecodeService_Batch(t *testing.T) {
	svc, _, _ := newTestService(t)
	items, err := svc.Batch(context.Background(), []DecodeRequest{
		{Raw: "30AB", DeviceType: "LBO"},
		{Raw: "10FF", DeviceType: "LBO"},
		{Raw: "10FF", DeviceType: "LPB"},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "BlackOneConfig", items[0].Result.Variant)
	assert.Nil(t, items[1].Result)
	assert.Equal(t, "unknown_device_type", items[1].Kind)
	assert.Equal(t, "PulseBlueAppData", items[2].Result.Variant)
	assert.Equal(t, 2, items[2].Index)
}

func TestDecodeService_BatchTooLarge(t *testing.T) {
	svc, _, _ := newTestService(t)
	reqs := make([]DecodeRequest, 4)
	_, err := svc.Batch(context.Background(), reqs)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestLoadDeviceNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.yaml")
	require.NoError(t, os.WriteFile(path, []byte("names:\n  lpb: PulseBlue water meter\n"), 0o600))

	names, err := LoadDeviceNames(path)
	require.NoError(t, err)
	assert.Equal(t, "PulseBlue water meter", names.Lookup(connit.DevicePulseBlue))
	assert.Equal(t, "Live BlackOne", names.Lookup(connit.DeviceBlackOne))
}

func TestLoadDeviceNames_UnknownCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.yaml")
	require.NoError(t, os.WriteFile(path, []byte("names:\n  XYZ: nope\n"), 0o600))

	_, err := LoadDeviceNames(path)
	assert.ErrorIs(t, err, connit.ErrUnknownDeviceType)
}
