package connit

import (
	"fmt"
	"strings"
)

// MessageType 消息类别，由首字节高4位(x)决定
type MessageType uint8

const (
	MessageAppInit MessageType = iota
	MessageAppData
	MessageEvent
	MessageConfig

	messageTypeCount = 4
)

// MessageUnknown 不在 0..3 范围内的类别
const MessageUnknown MessageType = 0xFF

// MessageTypeOf 由类别码映射消息类型
func MessageTypeOf(x uint8) MessageType {
	if x < messageTypeCount {
		return MessageType(x)
	}
	return MessageUnknown
}

func (m MessageType) String() string {
	switch m {
	case MessageAppInit:
		return "AppInit"
	case MessageAppData:
		return "AppData"
	case MessageEvent:
		return "Event"
	case MessageConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// Frame 一条已解码的上行报文
//
// 首字节布局:
//
//	bit7..bit4  x  消息类别
//	bit3..bit1  y  子类型/计数
//	bit0        z  标志位
type Frame struct {
	raw   string
	bytes []ByteUnit
}

// ParseFrame 解析十六进制报文，构造时即完成全部字节切分
func ParseFrame(raw string) (*Frame, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty frame", ErrFormat)
	}
	units := make([]ByteUnit, 0, len(raw)/2)
	for u, err := range Chunks(raw) {
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return &Frame{raw: raw, bytes: units}, nil
}

// Raw 原始十六进制字符串
func (f *Frame) Raw() string { return f.raw }

// Bytes 返回字节单元副本
func (f *Frame) Bytes() []ByteUnit {
	out := make([]ByteUnit, len(f.bytes))
	copy(out, f.bytes)
	return out
}

// Len 字节数
func (f *Frame) Len() int { return len(f.bytes) }

// X 类别码 0..15
func (f *Frame) X() uint8 { return f.bytes[0].High() }

// Y 低4位整除2，0..7
func (f *Frame) Y() uint8 { return f.bytes[0].Low() / 2 }

// Z 低4位是否为奇数
func (f *Frame) Z() bool { return f.bytes[0].Low()%2 == 1 }

// MessageType 消息类型
func (f *Frame) MessageType() MessageType { return MessageTypeOf(f.X()) }

// Payload 头字节之后的负载
func (f *Frame) Payload() []byte {
	out := make([]byte, 0, len(f.bytes)-1)
	for _, u := range f.bytes[1:] {
		out = append(out, u.Value())
	}
	return out
}

// Hex 按顺序重新拼接为大写十六进制
func (f *Frame) Hex() string {
	var b strings.Builder
	b.Grow(len(f.bytes) * 2)
	for _, u := range f.bytes {
		b.WriteString(u.String())
	}
	return b.String()
}

// Header 头字段快照
type Header struct {
	X           uint8  `json:"x"`
	Y           uint8  `json:"y"`
	Z           bool   `json:"z"`
	MessageType string `json:"message_type"`
}

// Header 返回头字段
func (f *Frame) Header() Header {
	return Header{X: f.X(), Y: f.Y(), Z: f.Z(), MessageType: f.MessageType().String()}
}
