package binstring

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/crypt0walker/binstring/store"
	"github.com/sirupsen/logrus"
)

// Cache 是对 store.Store 的并发安全封装，存放 BinString
type Cache struct {
	mu          sync.RWMutex
	store       store.Store
	opts        CacheOptions
	hits        int64
	misses      int64
	initialized int32
	closed      int32
}

// CacheOptions 缓存配置
type CacheOptions struct {
	MaxBytes    int64
	CleanupTime time.Duration
	// OnEvicted 在持有缓存锁时被调用，回调里不能再调用同一个 Cache 的方法，否则会死锁
	OnEvicted func(key string, value BinString)
}

// DefaultCacheOptions 返回默认配置
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{
		MaxBytes:    8 << 20,
		CleanupTime: time.Minute,
	}
}

func NewCache(opts CacheOptions) *Cache {
	return &Cache{opts: opts}
}

// ensureInitialized 第一次写入时才创建底层存储
func (c *Cache) ensureInitialized() {
	if atomic.LoadInt32(&c.initialized) == 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// Close 可能在调用方检查 closed 之后才执行完，这里要再确认一次，否则会重新创建存储和清理协程
	if c.initialized == 0 && atomic.LoadInt32(&c.closed) == 0 {
		c.store = store.NewStore(store.Options{
			MaxBytes:        c.opts.MaxBytes,
			CleanupInterval: c.opts.CleanupTime,
			OnEvicted:       c.onEvicted,
		})
		atomic.StoreInt32(&c.initialized, 1)
		logrus.Infof("cache initialized, max bytes %d", c.opts.MaxBytes)
	}
}

func (c *Cache) onEvicted(key string, value store.Value) {
	logrus.Debugf("cache evicted key %s (%d bytes)", key, value.Len())
	if c.opts.OnEvicted == nil {
		return
	}
	if v, ok := value.(BinString); ok {
		c.opts.OnEvicted(key, v)
	}
}

// Add 添加一个永不过期的条目
func (c *Cache) Add(key string, value BinString) {
	if atomic.LoadInt32(&c.closed) == 1 {
		logrus.Warnf("Attempted to add to a closed cache: %s", key)
		return
	}
	c.ensureInitialized()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return
	}
	if err := c.store.Set(key, value); err != nil {
		logrus.Warnf("Failed to add key %s to cache: %v", key, err)
	}
}

// AddWithExpiration 添加一个在 expirationTime 过期的条目，过去的时间直接忽略
func (c *Cache) AddWithExpiration(key string, value BinString, expirationTime time.Time) {
	if atomic.LoadInt32(&c.closed) == 1 {
		logrus.Warnf("Attempted to add to a closed cache: %s", key)
		return
	}
	expiration := time.Until(expirationTime)
	if expiration <= 0 {
		logrus.Warnf("Attempted to add key %s with expired time in the past: %v", key, expirationTime)
		return
	}
	c.ensureInitialized()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return
	}
	if err := c.store.SetWithExpiration(key, value, expiration); err != nil {
		logrus.Warnf("Failed to add key %s to cache: %v", key, err)
	}
}

// Get 查询缓存并统计命中率
func (c *Cache) Get(key string) (BinString, bool) {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		atomic.AddInt64(&c.misses, 1)
		return BinString{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		atomic.AddInt64(&c.misses, 1)
		return BinString{}, false
	}
	val, ok := c.store.Get(key)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return BinString{}, false
	}
	v, ok := val.(BinString)
	if !ok {
		logrus.Warnf("Failed to assert value for key %s to BinString", key)
		atomic.AddInt64(&c.misses, 1)
		return BinString{}, false
	}
	atomic.AddInt64(&c.hits, 1)
	return v, true
}

func (c *Cache) Delete(key string) bool {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return false
	}
	return c.store.Delete(key)
}

// Clear 清空缓存并重置统计
func (c *Cache) Clear() {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return
	}
	c.store.Clear()
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

func (c *Cache) Len() int {
	if atomic.LoadInt32(&c.closed) == 1 || atomic.LoadInt32(&c.initialized) == 0 {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.store == nil {
		return 0
	}
	return c.store.Len()
}

// Close 释放底层存储，之后所有操作都是空操作
func (c *Cache) Close() {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		c.store.Close()
		c.store = nil
	}
	atomic.StoreInt32(&c.initialized, 0)
	logrus.Infof("cache closed, hits:%d, misses:%d", atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses))
}

// Stats 返回命中统计与条目数
func (c *Cache) Stats() map[string]interface{} {
	hits, misses := atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
	stats := map[string]interface{}{
		"initialized": atomic.LoadInt32(&c.initialized) == 1,
		"closed":      atomic.LoadInt32(&c.closed) == 1,
		"hits":        hits,
		"misses":      misses,
		"size":        c.Len(),
		"hit_rate":    0.0,
	}
	if total := hits + misses; total > 0 {
		stats["hit_rate"] = float64(hits) / float64(total)
	}
	return stats
}
