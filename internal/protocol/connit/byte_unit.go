package connit

import "fmt"

// ByteUnit 单个字节，按高低半字节(nibble)拆分读取
type ByteUnit struct {
	value uint8
}

// NewByteUnit 由整数构造字节单元，超出 0..255 返回 ErrRange
func NewByteUnit(v int) (ByteUnit, error) {
	if v < 0 || v > 0xFF {
		return ByteUnit{}, fmt.Errorf("%w: %d", ErrRange, v)
	}
	return ByteUnit{value: uint8(v)}, nil
}

// Value 原始字节值
func (b ByteUnit) Value() uint8 { return b.value }

// High 高4位 (bit7..bit4)
func (b ByteUnit) High() uint8 { return b.value >> 4 }

// Low 低4位 (bit3..bit0)
func (b ByteUnit) Low() uint8 { return b.value & 0x0F }

// HighBits 高4位的二进制文本，固定4字符，如 "0011"
func (b ByteUnit) HighBits() string { return fmt.Sprintf("%04b", b.High()) }

// LowBits 低4位的二进制文本
func (b ByteUnit) LowBits() string { return fmt.Sprintf("%04b", b.Low()) }

// String 两位大写十六进制
func (b ByteUnit) String() string { return fmt.Sprintf("%02X", b.value) }
