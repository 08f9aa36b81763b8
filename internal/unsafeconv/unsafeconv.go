// Package unsafeconv 提供 string 与 []byte 之间的零拷贝转换
package unsafeconv

import "unsafe"

// StringToBytes 不分配内存地把 string 转为 []byte，二者共享同一块内存
// 返回的切片只读，修改它属于未定义行为（string 在 Go 中不可变）
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// BytesToString 不分配内存地把 []byte 转为 string
// 调用之后原切片不能再被修改，否则返回的 string 会跟着变
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
