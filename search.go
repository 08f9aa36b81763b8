package binstring

import (
	"strings"

	"github.com/crypt0walker/binstring/internal/unsafeconv"
)

// 以下查询只比较原始字节，对任何内容（合法文本或不合法）结果都一样
// 所有偏移量的单位都是字节

// StartsWith 报告是否以 p 开头，空 p 总是返回 true
func (b BinString) StartsWith(p []byte) bool {
	return strings.HasPrefix(b.s, unsafeconv.BytesToString(p))
}

func (b BinString) StartsWithString(p string) bool {
	return strings.HasPrefix(b.s, p)
}

// EndsWith 报告是否以 p 结尾，空 p 总是返回 true
func (b BinString) EndsWith(p []byte) bool {
	return strings.HasSuffix(b.s, unsafeconv.BytesToString(p))
}

func (b BinString) EndsWithString(p string) bool {
	return strings.HasSuffix(b.s, p)
}

// Contains 报告 p 是否出现过，空 p 总是返回 true
func (b BinString) Contains(p []byte) bool {
	return strings.Contains(b.s, unsafeconv.BytesToString(p))
}

func (b BinString) ContainsString(p string) bool {
	return strings.Contains(b.s, p)
}

// Find 返回 p 第一次出现的字节偏移，没找到时 ok 为 false
// 空 p 匹配在偏移 0
func (b BinString) Find(p []byte) (offset int, ok bool) {
	return b.FindString(unsafeconv.BytesToString(p))
}

func (b BinString) FindString(p string) (offset int, ok bool) {
	i := strings.Index(b.s, p)
	if i < 0 {
		return 0, false
	}
	return i, true
}

// RFind 返回 p 最后一次出现的字节偏移，没找到时 ok 为 false
// 空 p 匹配在偏移 Len()
func (b BinString) RFind(p []byte) (offset int, ok bool) {
	return b.RFindString(unsafeconv.BytesToString(p))
}

func (b BinString) RFindString(p string) (offset int, ok bool) {
	i := strings.LastIndex(b.s, p)
	if i < 0 {
		return 0, false
	}
	return i, true
}
