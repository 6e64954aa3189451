package connit

import "encoding/hex"

// Decoder 按 (消息类型, 设备类型) 选出的解码变体
type Decoder interface {
	Name() string
	MessageType() MessageType
	DeviceType() DeviceType
	Frame() *Frame
	Payload() []byte
	Fields() map[string]any
}

// variant 各解码变体共享的报文封装
type variant struct {
	name   string
	msg    MessageType
	device DeviceType
	frame  *Frame
}

func newVariant(name string, msg MessageType, device DeviceType, f *Frame) variant {
	return variant{name: name, msg: msg, device: device, frame: f}
}

func (v *variant) Name() string             { return v.name }
func (v *variant) MessageType() MessageType { return v.msg }
func (v *variant) DeviceType() DeviceType   { return v.device }
func (v *variant) Frame() *Frame            { return v.frame }
func (v *variant) Payload() []byte          { return v.frame.Payload() }

// Fields 通用报文字段：头部 + 负载
func (v *variant) Fields() map[string]any {
	payload := v.frame.Payload()
	return map[string]any{
		"x":            v.frame.X(),
		"y":            v.frame.Y(),
		"z":            v.frame.Z(),
		"message_type": v.msg.String(),
		"device_type":  v.device.String(),
		"payload_hex":  hex.EncodeToString(payload),
		"payload_len":  len(payload),
	}
}

// PulseBlueAppInit LPB 上电初始化报文
type PulseBlueAppInit struct{ variant }

// BlackOneAppInit LBO 上电初始化报文
type BlackOneAppInit struct{ variant }

// PulseBlueAppData LPB 数据报文
type PulseBlueAppData struct{ variant }

// Fields AppData 的 y 为本帧携带的数据记录数，z 表示后续还有数据帧
func (d *PulseBlueAppData) Fields() map[string]any {
	fields := d.variant.Fields()
	fields["counter"] = d.frame.Y()
	fields["has_more"] = d.frame.Z()
	return fields
}

// PulseBlueEvent LPB 事件报文
type PulseBlueEvent struct{ variant }

// BlackOneEvent LBO 事件报文
type BlackOneEvent struct{ variant }

// PulseBlueConfig LPB 配置报文
type PulseBlueConfig struct{ variant }

// BlackOneConfig LBO 配置报文
type BlackOneConfig struct{ variant }

func newPulseBlueAppInit(f *Frame) Decoder {
	return &PulseBlueAppInit{newVariant("PulseBlueAppInit", MessageAppInit, DevicePulseBlue, f)}
}

func newBlackOneAppInit(f *Frame) Decoder {
	return &BlackOneAppInit{newVariant("BlackOneAppInit", MessageAppInit, DeviceBlackOne, f)}
}

func newPulseBlueAppData(f *Frame) Decoder {
	return &PulseBlueAppData{newVariant("PulseBlueAppData", MessageAppData, DevicePulseBlue, f)}
}

func newPulseBlueEvent(f *Frame) Decoder {
	return &PulseBlueEvent{newVariant("PulseBlueEvent", MessageEvent, DevicePulseBlue, f)}
}

func newBlackOneEvent(f *Frame) Decoder {
	return &BlackOneEvent{newVariant("BlackOneEvent", MessageEvent, DeviceBlackOne, f)}
}

func newPulseBlueConfig(f *Frame) Decoder {
	return &PulseBlueConfig{newVariant("PulseBlueConfig", MessageConfig, DevicePulseBlue, f)}
}

func newBlackOneConfig(f *Frame) Decoder {
	return &BlackOneConfig{newVariant("BlackOneConfig", MessageConfig, DeviceBlackOne, f)}
}
