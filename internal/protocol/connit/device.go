package connit

import (
	"fmt"
	"strings"
)

// DeviceType 发送设备的类型
type DeviceType uint8

const (
	DevicePulseBlue DeviceType = iota // LPB
	DeviceBlackOne                    // LBO

	deviceTypeCount = 2
)

var deviceCodes = [deviceTypeCount]string{
	DevicePulseBlue: "LPB",
	DeviceBlackOne:  "LBO",
}

// ParseDeviceType 解析设备类型代码（忽略大小写与首尾空白）
func ParseDeviceType(s string) (DeviceType, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for i, c := range deviceCodes {
		if c == code {
			return DeviceType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDeviceType, s)
}

// DeviceTypes 全部已知设备类型
func DeviceTypes() []DeviceType {
	out := make([]DeviceType, 0, deviceTypeCount)
	for i := range deviceTypeCount {
		out = append(out, DeviceType(i))
	}
	return out
}

// String 设备类型代码，如 "LPB"
func (d DeviceType) String() string {
	if int(d) < len(deviceCodes) {
		return deviceCodes[d]
	}
	return fmt.Sprintf("DeviceType(%d)", uint8(d))
}
