package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taoyao-code/connit-decoder/internal/metrics"
	"github.com/taoyao-code/connit-decoder/internal/protocol/connit"
)

// ErrBatchTooLarge 批量请求超过上限
var ErrBatchTooLarge = errors.New("batch too large")

// DecodeRequest 单条解码请求
type DecodeRequest struct {
	Raw        string `json:"raw" binding:"required"`
	DeviceType string `json:"device_type" binding:"required"`
	ProtoVer   int    `json:"proto_ver"`
}

// DecodeResult 解码结果
type DecodeResult struct {
	Variant     string         `json:"variant"`
	DeviceType  string         `json:"device_type"`
	DeviceName  string         `json:"device_name"`
	MessageType string         `json:"message_type"`
	Raw         string         `json:"raw"`
	Header      connit.Header  `json:"header"`
	PayloadHex  string         `json:"payload_hex"`
	Fields      map[string]any `json:"fields"`
}

// HeaderResult 仅解析头部的结果
type HeaderResult struct {
	Raw    string        `json:"raw"`
	Bytes  int           `json:"bytes"`
	Header connit.Header `json:"header"`
	// HighBits/LowBits 首字节高低半字节的二进制文本，便于对照协议文档
	HighBits string `json:"high_bits"`
	LowBits  string `json:"low_bits"`
}

// BatchItem 批量解码中的单条结果
type BatchItem struct {
	Index  int           `json:"index"`
	Result *DecodeResult `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	Kind   string        `json:"kind,omitempty"`
}

// DecodeService 解码服务：规范化输入、调用 connit 分发并记录日志与指标
type DecodeService struct {
	logger       *zap.Logger
	metrics      *metrics.AppMetrics
	names        *DeviceNames
	maxRawLength int
	maxBatchSize int
}

// Options DecodeService 参数
type Options struct {
	MaxRawLength int
	MaxBatchSize int
	Names        *DeviceNames
}

// NewDecodeService 创建解码服务
func NewDecodeService(opts Options, m *metrics.AppMetrics, logger *zap.Logger) *DecodeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Names == nil {
		opts.Names = DefaultDeviceNames()
	}
	if opts.MaxRawLength <= 0 {
		opts.MaxRawLength = 256
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 100
	}
	return &DecodeService{
		logger:       logger,
		metrics:      m,
		names:        opts.Names,
		maxRawLength: opts.MaxRawLength,
		maxBatchSize: opts.MaxBatchSize,
	}
}

// Decode 解码单条报文
func (s *DecodeService) Decode(ctx context.Context, req DecodeRequest) (*DecodeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := connit.NormalizeRaw(req.Raw)
	if len(raw) > s.maxRawLength {
		err := fmt.Errorf("%w: length %d exceeds limit %d", connit.ErrFormat, len(raw), s.maxRawLength)
		s.observeFailure(raw, req, err)
		return nil, err
	}

	dec, err := connit.DecodeVersion(raw, req.DeviceType, req.ProtoVer)
	if err != nil {
		s.observeFailure(raw, req, err)
		return nil, err
	}

	f := dec.Frame()
	s.metrics.ObserveDecode(dec.MessageType().String(), dec.DeviceType().String(), "", f.Len())
	s.logger.Debug("connit frame decoded",
		zap.String("raw", raw),
		zap.String("variant", dec.Name()),
		zap.Uint8("x", f.X()),
		zap.Uint8("y", f.Y()),
		zap.Bool("z", f.Z()),
	)

	return &DecodeResult{
		Variant:     dec.Name(),
		DeviceType:  dec.DeviceType().String(),
		DeviceName:  s.names.Lookup(dec.DeviceType()),
		MessageType: dec.MessageType().String(),
		Raw:         f.Hex(),
		Header:      f.Header(),
		PayloadHex:  strings.ToUpper(hex.EncodeToString(dec.Payload())),
		Fields:      dec.Fields(),
	}, nil
}

// Header 只解析报文头部，不做分发
func (s *DecodeService) Header(ctx context.Context, raw string) (*HeaderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw = connit.NormalizeRaw(raw)
	if len(raw) > s.maxRawLength {
		return nil, fmt.Errorf("%w: length %d exceeds limit %d", connit.ErrFormat, len(raw), s.maxRawLength)
	}
	f, err := connit.ParseFrame(raw)
	if err != nil {
		return nil, err
	}
	first := f.Bytes()[0]
	return &HeaderResult{
		Raw:      f.Hex(),
		Bytes:    f.Len(),
		Header:   f.Header(),
		HighBits: first.HighBits(),
		LowBits:  first.LowBits(),
	}, nil
}

// Batch 逐条独立解码，单条失败不影响其他条目
func (s *DecodeService) Batch(ctx context.Context, reqs []DecodeRequest) ([]BatchItem, error) {
	if len(reqs) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(reqs), s.maxBatchSize)
	}
	items := make([]BatchItem, 0, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return items, err
		}
		res, err := s.Decode(ctx, req)
		item := BatchItem{Index: i, Result: res}
		if err != nil {
			item.Error = err.Error()
			item.Kind = connit.ErrorKind(err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *DecodeService) observeFailure(raw string, req DecodeRequest, err error) {
	kind := connit.ErrorKind(err)
	msgLabel := "invalid"
	if f, perr := connit.ParseFrame(raw); perr == nil {
		msgLabel = f.MessageType().String()
	}
	devLabel := "other"
	if d, derr := connit.ParseDeviceType(req.DeviceType); derr == nil {
		devLabel = d.String()
	}
	s.metrics.ObserveDecode(msgLabel, devLabel, kind, 0)
	s.logger.Warn("connit decode failed",
		zap.String("raw", raw),
		zap.String("device_type", req.DeviceType),
		zap.Int("proto_ver", req.ProtoVer),
		zap.String("kind", kind),
		zap.Error(err),
	)
}
