package binstring

import (
	"fmt"
	"strings"

	"github.com/crypt0walker/binstring/internal/unsafeconv"
)

// 所有变换都返回新的 BinString，不修改接收者和参数

// Concat 返回 b 的字节后接 other 的字节
func (b BinString) Concat(other BinString) BinString {
	if len(other.s) == 0 {
		return b
	}
	if len(b.s) == 0 {
		return other
	}
	return BinString{s: b.s + other.s}
}

// Slice 返回字节区间 [start, end)
// 越界（start < 0、start > end 或 end > Len()）时返回 ErrOutOfRange，不做截断
// 结果与 b 共享内存，需要释放大块内存时对结果调用 Clone
func (b BinString) Slice(start, end int) (BinString, error) {
	if start < 0 || start > end || end > len(b.s) {
		return BinString{}, fmt.Errorf("%w: [%d:%d] with length %d", ErrOutOfRange, start, end, len(b.s))
	}
	return BinString{s: b.s[start:end]}, nil
}

// MustSlice 同 Slice，越界时 panic，适合下标是常量的场景
func (b BinString) MustSlice(start, end int) BinString {
	v, err := b.Slice(start, end)
	if err != nil {
		panic(err)
	}
	return v
}

// Replace 把每个值为 old 的字节替换成 new，长度不变
func (b BinString) Replace(old, new byte) BinString {
	i := strings.IndexByte(b.s, old)
	if old == new || i < 0 {
		return b
	}
	buf := []byte(b.s)
	for ; i < len(buf); i++ {
		if buf[i] == old {
			buf[i] = new
		}
	}
	// buf 是新分配的，直接转交所有权
	return BinString{s: unsafeconv.BytesToString(buf)}
}

// Trim 去掉首尾的空白（按 unicode.IsSpace 判断）
// 它把内容当作文本处理，只能用在合法 UTF-8 上；对非文本内容结果未定义
func (b BinString) Trim() BinString {
	return BinString{s: strings.TrimSpace(b.s)}
}
