package connit

import "fmt"

// ProtocolV0 当前唯一支持的协议版本
const ProtocolV0 = 0

// Constructor 解码变体构造入口
type Constructor func(f *Frame) Decoder

// routeTable 路由表：[消息类型][设备类型] -> 构造器，nil 表示未注册
// 包初始化后只读。
var routeTable = [messageTypeCount][deviceTypeCount]Constructor{
	MessageAppInit: {
		DevicePulseBlue: newPulseBlueAppInit,
		DeviceBlackOne:  newBlackOneAppInit,
	},
	MessageAppData: {
		DevicePulseBlue: newPulseBlueAppData,
	},
	MessageEvent: {
		DevicePulseBlue: newPulseBlueEvent,
		DeviceBlackOne:  newBlackOneEvent,
	},
	MessageConfig: {
		DevicePulseBlue: newPulseBlueConfig,
		DeviceBlackOne:  newBlackOneConfig,
	},
}

// Lookup 查找 (消息类型, 设备类型) 对应的构造器
func Lookup(msg MessageType, device DeviceType) (Constructor, error) {
	if msg >= messageTypeCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMessageType, uint8(msg))
	}
	if device >= deviceTypeCount {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDeviceType, device)
	}
	ctor := routeTable[msg][device]
	if ctor == nil {
		return nil, fmt.Errorf("%w: %s not registered for %s", ErrUnknownDeviceType, device, msg)
	}
	return ctor, nil
}

// Decode 使用协议版本 0 解码
func Decode(raw, deviceType string) (Decoder, error) {
	return DecodeVersion(raw, deviceType, ProtocolV0)
}

// DecodeVersion 解析报文并按 (类别, 设备类型) 选择解码变体
// 顺序：协议版本 -> 报文格式 -> 消息类别 -> 设备类型。
func DecodeVersion(raw, deviceType string, protoVer int) (Decoder, error) {
	if protoVer != ProtocolV0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, protoVer)
	}
	f, err := ParseFrame(raw)
	if err != nil {
		return nil, err
	}
	return Dispatch(f, deviceType)
}

// Dispatch 对已解析的报文选择解码变体，类别取自 Frame.X
func Dispatch(f *Frame, deviceType string) (Decoder, error) {
	msg := f.MessageType()
	if msg == MessageUnknown {
		return nil, fmt.Errorf("%w: x=%d", ErrUnknownMessageType, f.X())
	}
	device, err := ParseDeviceType(deviceType)
	if err != nil {
		return nil, err
	}
	ctor, err := Lookup(msg, device)
	if err != nil {
		return nil, err
	}
	return ctor(f), nil
}

// Route 路由表中已注册的一个组合
type Route struct {
	MessageType MessageType `json:"-"`
	DeviceType  DeviceType  `json:"-"`
	Message     string      `json:"message_type"`
	Device      string      `json:"device_type"`
	Variant     string      `json:"variant"`
}

// Routes 列出全部已注册组合，按消息类型、设备类型排序
func Routes() []Route {
	out := make([]Route, 0, messageTypeCount*deviceTypeCount)
	for m := range messageTypeCount {
		probe := &Frame{raw: fmt.Sprintf("%X0", m), bytes: []ByteUnit{{value: uint8(m) << 4}}}
		for d := range deviceTypeCount {
			ctor := routeTable[m][d]
			if ctor == nil {
				continue
			}
			msg, device := MessageType(m), DeviceType(d)
			out = append(out, Route{
				MessageType: msg,
				DeviceType:  device,
				Message:     msg.String(),
				Device:      device.String(),
				Variant:     ctor(probe).Name(),
			})
		}
	}
	return out
}
