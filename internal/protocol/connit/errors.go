package connit

import "errors"

var (
	ErrFormat             = errors.New("malformed hex frame")
	ErrRange              = errors.New("byte value out of range")
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
	ErrUnknownDeviceType  = errors.New("unknown device type")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// ErrorKind 将解码错误归类为稳定标签，用于指标与接口响应
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrRange):
		return "range"
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrUnknownDeviceType):
		return "unknown_device_type"
	case errors.Is(err, ErrUnknownMessageType):
		return "unknown_message_type"
	default:
		return "internal"
	}
}
