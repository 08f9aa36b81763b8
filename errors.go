package binstring

import "errors"

// 本包使用的哨兵错误，调用方通过 errors.Is 判断
var (
	// ErrOutOfRange 表示 Slice 的下标越界或 start > end
	ErrOutOfRange = errors.New("binstring: slice bounds out of range")

	// ErrInvalidText 表示内容不是合法的 UTF-8 文本
	ErrInvalidText = errors.New("binstring: content is not valid UTF-8")
)

// 缓存组相关
var (
	ErrGroupClosed = errors.New("binstring: group is closed")
	ErrEmptyKey    = errors.New("binstring: key is empty")
	ErrNilGetter   = errors.New("binstring: nil getter")
)
