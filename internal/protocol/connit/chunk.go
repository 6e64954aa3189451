package connit

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"
)

// Chunks 将十六进制字符串按每2字符切分为字节单元（高位在前）
// 序列可重复遍历；奇数长度在产出任何字节前即返回 ErrFormat，
// 非十六进制字符在对应位置返回 ErrFormat 并终止遍历。
func Chunks(raw string) iter.Seq2[ByteUnit, error] {
	return func(yield func(ByteUnit, error) bool) {
		if len(raw)%2 != 0 {
			yield(ByteUnit{}, fmt.Errorf("%w: odd length %d", ErrFormat, len(raw)))
			return
		}
		for seq, off := raw, 0; seq != ""; seq, off = seq[2:], off+2 {
			v, err := strconv.ParseUint(seq[:2], 16, 8)
			if err != nil {
				yield(ByteUnit{}, fmt.Errorf("%w: invalid hex %q at offset %d", ErrFormat, seq[:2], off))
				return
			}
			u, err := NewByteUnit(int(v))
			if err != nil {
				yield(ByteUnit{}, err)
				return
			}
			if !yield(u, nil) {
				return
			}
		}
	}
}

// NormalizeRaw 去除空白、分隔符以及可选的 0x 前缀
func NormalizeRaw(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	clean := b.String()
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}
	return clean
}
