package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taoyao-code/connit-decoder/internal/protocol/connit"
)

// DeviceNames 设备类型代码 -> 显示名
type DeviceNames struct {
	Names map[string]string `yaml:"names"`
}

// DefaultDeviceNames 内置设备显示名
func DefaultDeviceNames() *DeviceNames {
	return &DeviceNames{
		Names: map[string]string{
			connit.DevicePulseBlue.String(): "Live PulseBlue",
			connit.DeviceBlackOne.String():  "Live BlackOne",
		},
	}
}

// LoadDeviceNames 从 YAML 文件加载显示名，未出现的设备沿用内置名称
//
//	names:
//	  LPB: PulseBlue meter reader
//	  LBO: BlackOne tracker
func LoadDeviceNames(path string) (*DeviceNames, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read device names: %w", err)
	}
	var loaded DeviceNames
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return nil, fmt.Errorf("unmarshal device names: %w", err)
	}
	names := DefaultDeviceNames()
	for code, name := range loaded.Names {
		d, err := connit.ParseDeviceType(code)
		if err != nil {
			return nil, fmt.Errorf("device names: %w", err)
		}
		names.Names[d.String()] = strings.TrimSpace(name)
	}
	return names, nil
}

// Lookup 返回设备显示名，未知设备返回代码本身
func (n *DeviceNames) Lookup(d connit.DeviceType) string {
	if n != nil {
		if name, ok := n.Names[d.String()]; ok && name != "" {
			return name
		}
	}
	return d.String()
}
