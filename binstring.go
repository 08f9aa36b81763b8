// Package binstring 提供 BinString：一段可能是、也可能不是合法文本的字节，
// 同时暴露"字节视图"和"文本视图"，两者是同一块内存。
//
// 字节视图（AsBytes、Len、Find 等）对任意内容都是正确的。
// 文本视图（AsText、IntoText、String、Trim）不做校验，只有内容是合法 UTF-8 时
// 结果才有意义；否则会得到 utf8.RuneError 之类的乱码。这是本包唯一的"锋利边缘"，
// 需要校验时使用 Text 或 IsValidText。
package binstring

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/crypt0walker/binstring/internal/unsafeconv"
)

// BinString 持有一段不可变的字节
// 底层用 string 存储：Go 的 string 允许任意字节，拷贝 BinString 只共享只读内存，
// 所以它是值类型（像 time.Time 一样按值传递），可以直接用 == 比较，也可以做 map 的 key
type BinString struct {
	s string
}

// Bytes 是可以转换成字节序列的类型集合
type Bytes interface {
	~string | ~[]byte
}

// New 直接包装一个 string，不校验、不拷贝
func New(s string) BinString {
	return BinString{s: s}
}

// FromBytes 接管 b 的所有权，不校验、不拷贝
// 调用之后 b 不能再被修改，否则 BinString 的内容会跟着变；如果还要继续使用 b，请用 CopyBytes
func FromBytes(b []byte) BinString {
	return BinString{s: unsafeconv.BytesToString(b)}
}

// CopyBytes 拷贝一份 b 再包装，调用方之后可以随意修改 b
func CopyBytes(b []byte) BinString {
	return BinString{s: string(b)}
}

// Of 从 string 或 []byte 构造，[]byte 会被拷贝
func Of[T Bytes](v T) BinString {
	return BinString{s: string(v)}
}

// IntoText 返回底层文本，不校验
// 内容不是合法 UTF-8 时，对结果做文本操作（range、打印、大小写转换等）会得到乱码
func (b BinString) IntoText() string {
	return b.s
}

// AsText 返回文本视图，不校验，注意事项同 IntoText
func (b BinString) AsText() string {
	return b.s
}

// String 实现 fmt.Stringer，等价于 AsText
func (b BinString) String() string {
	return b.s
}

// Text 是校验版本的 AsText，内容不是合法 UTF-8 时返回 ErrInvalidText
func (b BinString) Text() (string, error) {
	if !utf8.ValidString(b.s) {
		return "", ErrInvalidText
	}
	return b.s, nil
}

// IsValidText 报告内容是否为合法 UTF-8
func (b BinString) IsValidText() bool {
	return utf8.ValidString(b.s)
}

// AsBytes 返回只读的字节视图，不分配内存
// 返回的切片与 BinString 共享内存，绝对不能修改；需要可写副本时用 Bytes
func (b BinString) AsBytes() []byte {
	return unsafeconv.StringToBytes(b.s)
}

// Bytes 返回字节的拷贝
func (b BinString) Bytes() []byte {
	return []byte(b.s)
}

// Len 返回字节数（不是字符数）
func (b BinString) Len() int {
	return len(b.s)
}

func (b BinString) IsEmpty() bool {
	return len(b.s) == 0
}

// Clone 返回使用独立内存的副本
// 从一个很大的 BinString 上 Slice 出一小段后想让大块内存被回收时使用
func (b BinString) Clone() BinString {
	return BinString{s: strings.Clone(b.s)}
}

// Equal 按字节比较
func (b BinString) Equal(other BinString) bool {
	return b.s == other.s
}

// Compare 按字节序比较，返回 -1、0、1
func (b BinString) Compare(other BinString) int {
	return strings.Compare(b.s, other.s)
}

// GoString 实现 fmt.GoStringer，%#v 输出时非法字节会被转义
func (b BinString) GoString() string {
	return fmt.Sprintf("binstring.BinString(%q)", b.s)
}
