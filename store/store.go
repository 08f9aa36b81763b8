// Package store 提供按字节数计量的缓存存储
package store

import "time"

// Value 定义了缓存中值的接口，Len 用于内存占用统计
type Value interface {
	Len() int
}

// Store 是缓存后端需要实现的接口
type Store interface {
	Get(key string) (Value, bool)
	Set(key string, value Value) error
	// expiration <= 0 表示永不过期
	SetWithExpiration(key string, value Value, expiration time.Duration) error
	Delete(key string) bool
	Clear()
	Len() int
	Close()
}

// Options 通用缓存配置选项
type Options struct {
	MaxBytes        int64         // 最大的缓存字节数，<= 0 表示不限制
	CleanupInterval time.Duration // 过期清理的周期，<= 0 表示只在 Get 时惰性清理
	// OnEvicted 在持有写锁时调用，不能再调用同一个 Store 的方法
	OnEvicted func(key string, value Value)
}

// NewOptions 返回默认配置
func NewOptions() Options {
	return Options{
		MaxBytes:        8 << 20,
		CleanupInterval: time.Minute,
	}
}

// NewStore 创建一个 LRU 存储
func NewStore(opts Options) Store {
	return newLRUCache(opts)
}
