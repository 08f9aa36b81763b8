// 基于golang标准库list实现的LRU缓存
package store

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

var errNilValue = errors.New("store: nil value")

type lruCache struct {
	mu          sync.RWMutex
	maxBytes    int64                    // 最大内存容量
	usedBytes   int64                    // 当前已使用内存
	ll          *list.List               // 访问顺序，Front 最旧，Back 最新
	items       map[string]*list.Element // 键到链表节点的映射
	expiredTime map[string]time.Time     // 键到过期时间的映射
	onEvicted   func(key string, value Value)

	cleanupTicker *time.Ticker
	closeCh       chan struct{}
	closeOnce     sync.Once
}

// 删除节点时需要知道 key 才能同步清理 items，所以节点里同时存 key 和 value
type lruEntry struct {
	key   string
	value Value
}

func newLRUCache(opts Options) *lruCache {
	c := &lruCache{
		maxBytes:    opts.MaxBytes,
		ll:          list.New(),
		items:       make(map[string]*list.Element),
		expiredTime: make(map[string]time.Time),
		onEvicted:   opts.OnEvicted,
		closeCh:     make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		c.cleanupTicker = time.NewTicker(opts.CleanupInterval)
		go c.cleanupLoop()
	}
	return c
}

// Get 获取缓存项，如果存在且未过期则返回
func (c *lruCache) Get(key string) (Value, bool) {
	c.mu.RLock()
	elem, ok := c.items[key]
	if !ok {
		c.mu.RUnlock()
		return nil, false
	}
	if expTime, hasExp := c.expiredTime[key]; hasExp && time.Now().After(expTime) {
		c.mu.RUnlock()
		// 读锁内不能删除，升级成写锁后再确认一次
		c.mu.Lock()
		if elem, ok := c.items[key]; ok {
			if expTime, hasExp := c.expiredTime[key]; hasExp && time.Now().After(expTime) {
				c.removeElement(elem)
			}
		}
		c.mu.Unlock()
		return nil, false
	}
	value := elem.Value.(*lruEntry).value
	c.mu.RUnlock()

	// 移动到队尾表示最近使用
	c.mu.Lock()
	if elem, ok := c.items[key]; ok {
		c.ll.MoveToBack(elem)
	}
	c.mu.Unlock()
	return value, true
}

func (c *lruCache) Set(key string, value Value) error {
	return c.SetWithExpiration(key, value, 0)
}

func (c *lruCache) SetWithExpiration(key string, value Value, expiration time.Duration) error {
	if value == nil {
		return errNilValue
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// 覆盖写时旧的过期时间一并作废
	if expiration > 0 {
		c.expiredTime[key] = time.Now().Add(expiration)
	} else {
		delete(c.expiredTime, key)
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*lruEntry)
		c.usedBytes += int64(value.Len() - entry.value.Len())
		entry.value = value
		c.ll.MoveToBack(elem)
	} else {
		c.items[key] = c.ll.PushBack(&lruEntry{key: key, value: value})
		c.usedBytes += int64(len(key) + value.Len())
	}
	c.evict()
	return nil
}

// Delete 从缓存中删除元素，并更新内存使用量
func (c *lruCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
		return true
	}
	return false
}

func (c *lruCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.onEvicted != nil {
		for _, elem := range c.items {
			entry := elem.Value.(*lruEntry)
			c.onEvicted(entry.key, entry.value)
		}
	}
	c.ll.Init()
	c.items = make(map[string]*list.Element)
	c.expiredTime = make(map[string]time.Time)
	c.usedBytes = 0
}

func (c *lruCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ll.Len()
}

// Close 停止后台清理协程，可以重复调用
func (c *lruCache) Close() {
	c.closeOnce.Do(func() {
		if c.cleanupTicker != nil {
			c.cleanupTicker.Stop()
		}
		close(c.closeCh)
	})
}

// removeElement 从链表、哈希表、过期时间map中删除元素，调用前必须持有写锁
func (c *lruCache) removeElement(elem *list.Element) {
	entry := elem.Value.(*lruEntry)
	c.ll.Remove(elem)
	delete(c.items, entry.key)
	delete(c.expiredTime, entry.key)
	c.usedBytes -= int64(len(entry.key) + entry.value.Len())
	if c.onEvicted != nil {
		c.onEvicted(entry.key, entry.value)
	}
}

// evict 先清理过期项，再从队头淘汰直到内存不超限，调用前必须持有写锁
func (c *lruCache) evict() {
	c.removeExpired()
	for c.maxBytes > 0 && c.usedBytes > c.maxBytes && c.ll.Len() > 0 {
		c.removeElement(c.ll.Front())
	}
}

func (c *lruCache) removeExpired() {
	now := time.Now()
	for key, expTime := range c.expiredTime {
		if now.After(expTime) {
			if elem, ok := c.items[key]; ok {
				c.removeElement(elem)
			}
		}
	}
}

func (c *lruCache) cleanupLoop() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.mu.Lock()
			c.removeExpired()
			c.mu.Unlock()
		case <-c.closeCh:
			return
		}
	}
}
