package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taoyao-code/connit-decoder/internal/api/middleware"
	"github.com/taoyao-code/connit-decoder/internal/metrics"
	"github.com/taoyao-code/connit-decoder/internal/service"
)

type testResponse struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func setupRouter(t *testing.T, opts RouteOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := metrics.NewAppMetrics(prometheus.NewRegistry())
	svc := service.NewDecodeService(service.Options{MaxRawLength: 24, MaxBatchSize: 2}, m, zap.NewNop())
	r := gin.New()
	RegisterDecodeRoutes(r, svc, opts, zap.NewNop())
	return r
}

func perform(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return rr, resp
}

func TestDecodeHandler_Decode(t *testing.T) {
	r := setupRouter(t, RouteOptions{})
	rr, resp := perform(t, r, http.MethodPost, "/api/v1/decode", gin.H{"raw": "30AB", "device_type": "LBO"})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, CodeOK, resp.Code)
	assert.NotEmpty(t, resp.RequestID)

	var res service.DecodeResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, "BlackOneConfig", res.Variant)
	assert.Equal(t, "Config", res.MessageType)
	assert.Equal(t, uint8(3), res.Header.X)
}

func TestDecodeHandler_DecodeErrors(t *testing.T) {
	r := setupRouter(t, RouteOptions{})
	tests := []struct {
		name   string
		body   gin.H
		status int
		code   int
		kind   string
	}{
		{"format", gin.H{"raw": "abc", "device_type": "LPB"}, http.StatusBadRequest, CodeFormat, "format"},
		{"version", gin.H{"raw": "1F", "device_type": "LPB", "proto_ver": 1}, http.StatusBadRequest, CodeUnsupportedVersion, "unsupported_version"},
		{"device", gin.H{"raw": "10FF", "device_type": "LBO"}, http.StatusUnprocessableEntity, CodeUnknownDeviceType, "unknown_device_type"},
		{"message", gin.H{"raw": "C0", "device_type": "LBO"}, http.StatusUnprocessableEntity, CodeUnknownMessageType, "unknown_message_type"},
		{"missing field", gin.H{"raw": "30AB"}, http.StatusBadRequest, CodeBadRequest, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resp := perform(t, r, http.MethodPost, "/api/v1/decode", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.kind, resp.Kind)
		})
	}
}

func TestDecodeHandler_Batch(t *testing.T) {
	r := setupRouter(t, RouteOptions{})
	rr, resp := perform(t, r, http.MethodPost, "/api/v1/decode/batch", gin.H{"items": []gin.H{
		{"raw": "10FF", "device_type": "LPB"},
		{"raw": "10FF", "device_type": "LBO"},
	}})
	require.Equal(t, http.StatusOK, rr.Code)

	var items []service.BatchItem
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "PulseBlueAppData", items[0].Result.Variant)
	assert.Equal(t, "unknown_device_type", items[1].Kind)

	rr, resp = perform(t, r, http.MethodPost, "/api/v1/decode/batch", gin.H{"items": []gin.H{
		{"raw": "00", "device_type": "LPB"},
		{"raw": "00", "device_type": "LPB"},
		{"raw": "00", "device_type": "LPB"},
	}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, CodeBatchTooLarge, resp.Code)
}

func TestDecodeHandler_Header(t *testing.T) {
	r := setupRouter(t, RouteOptions{})
	rr, resp := perform(t, r, http.MethodGet, "/api/v1/header/2F00", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res service.HeaderResult
	require.NoError(t, json.Unmarshal(resp.Data, &res))
	assert.Equal(t, "Event", res.Header.MessageType)
	assert.Equal(t, uint8(7), res.Header.Y)
	assert.True(t, res.Header.Z)

	rr, resp = perform(t, r, http.MethodGet, "/api/v1/header/ABC", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "format", resp.Kind)
}

func TestRegisterDecodeRoutes_AuthAndRateLimit(t *testing.T) {
	rejected := 0
	r := setupRouter(t, RouteOptions{
		Auth:          middleware.AuthConfig{Enabled: true, APIKeys: []string{"sk_test_0123456789"}},
		Limiter:       middleware.NewRateLimiter(1, 1),
		OnRateLimited: func() { rejected++ },
	})

	rr, _ := perform(t, r, http.MethodGet, "/api/v1/header/30", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/header/30", nil)
		req.Header.Set("X-API-Key", "sk_test_0123456789")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
	assert.Equal(t, 1, rejected)
}

func TestDecodeHandler_Routes(t *testing.T) {
	r := setupRouter(t, RouteOptions{})
	rr, resp := perform(t, r, http.MethodGet, "/api/v1/routes", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var routes []map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &routes))
	require.Len(t, routes, 7)
	assert.Equal(t, map[string]string{"message_type": "AppInit", "device_type": "LPB", "variant": "PulseBlueAppInit"}, routes[0])
}
