package binstring

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// 管理 group 命名空间：每个 group 是一块带回源加载的 BinString 缓存

var (
	// 维护group名到实际group实例的映射
	groups   = make(map[string]*Group)
	groupsMu sync.RWMutex
)

// Group 表示一个命名空间
type Group struct {
	name       string
	getter     Getter
	mainCache  *Cache
	loader     *singleflight.Group
	expiration time.Duration
	closed     int32
	stats      groupStats
}

type groupStats struct {
	loads        int64 // 加载次数
	localHits    int64 // 本地缓存命中次数
	localMisses  int64 // 本地缓存未命中次数
	loaderHits   int64 // 从加载器获取成功次数
	loaderErrors int64 // 从加载器获取失败次数
	loadDuration int64 // 加载总耗时（纳秒）
}

// Getter 在缓存未命中时加载原始字节，内容不要求是合法文本
type Getter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// GetterFunc 让普通函数实现 Getter
type GetterFunc func(ctx context.Context, key string) ([]byte, error)

func (f GetterFunc) Get(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

// GroupOption 定义Group的配置选项
type GroupOption func(*Group)

// WithExpiration 设置条目的存活时间，0 表示永不过期
func WithExpiration(expiration time.Duration) GroupOption {
	return func(g *Group) {
		g.expiration = expiration
	}
}

// WithCacheOptions 整体替换缓存配置，会覆盖 NewGroup 的 cacheBytes
func WithCacheOptions(opts CacheOptions) GroupOption {
	return func(g *Group) {
		g.mainCache = NewCache(opts)
	}
}

// NewGroup 创建并注册一个 group，同名的旧 group 会被关闭并替换
func NewGroup(name string, cacheBytes int64, getter Getter, opts ...GroupOption) (*Group, error) {
	if getter == nil {
		return nil, ErrNilGetter
	}
	cacheOpts := DefaultCacheOptions()
	cacheOpts.MaxBytes = cacheBytes

	g := &Group{
		name:      name,
		getter:    getter,
		mainCache: NewCache(cacheOpts),
		loader:    &singleflight.Group{},
	}
	for _, opt := range opts {
		opt(g)
	}

	groupsMu.Lock()
	old, exists := groups[name]
	groups[name] = g
	groupsMu.Unlock()

	if exists {
		logrus.Warnf("Group with name %s already exists, will be replaced", name)
		old.closeCache()
	}
	logrus.Infof("Group %s created, with cacheBytes=%d, expiration=%v", name, cacheBytes, g.expiration)
	return g, nil
}

// GetGroup 按名字查找，不存在时返回 nil
func GetGroup(name string) *Group {
	groupsMu.RLock()
	defer groupsMu.RUnlock()
	return groups[name]
}

func (g *Group) Name() string {
	return g.name
}

// Get 先查本地缓存，未命中时通过 Getter 加载
// 同一个 key 的并发加载只会执行一次
func (g *Group) Get(ctx context.Context, key string) (BinString, error) {
	if atomic.LoadInt32(&g.closed) == 1 {
		return BinString{}, ErrGroupClosed
	}
	if key == "" {
		return BinString{}, ErrEmptyKey
	}

	if val, ok := g.mainCache.Get(key); ok {
		atomic.AddInt64(&g.stats.localHits, 1)
		return val, nil
	}
	atomic.AddInt64(&g.stats.localMisses, 1)
	return g.load(ctx, key)
}

func (g *Group) load(ctx context.Context, key string) (BinString, error) {
	startTime := time.Now()
	viewi, err, _ := g.loader.Do(key, func() (interface{}, error) {
		return g.loadData(ctx, key)
	})

	atomic.AddInt64(&g.stats.loadDuration, time.Since(startTime).Nanoseconds())
	atomic.AddInt64(&g.stats.loads, 1)
	if err != nil {
		atomic.AddInt64(&g.stats.loaderErrors, 1)
		return BinString{}, err
	}
	view := viewi.(BinString)
	g.populate(key, view)
	return view, nil
}

func (g *Group) loadData(ctx context.Context, key string) (BinString, error) {
	bytes, err := g.getter.Get(ctx, key)
	if err != nil {
		logrus.Errorf("Failed to load key %s for group %s: %v", key, g.name, err)
		return BinString{}, fmt.Errorf("failed to get from getter: %w", err)
	}
	atomic.AddInt64(&g.stats.loaderHits, 1)
	// getter 之后可能复用自己的缓冲区，这里必须拷贝
	return CopyBytes(bytes), nil
}

func (g *Group) populate(key string, value BinString) {
	if g.expiration > 0 {
		g.mainCache.AddWithExpiration(key, value, time.Now().Add(g.expiration))
	} else {
		g.mainCache.Add(key, value)
	}
}

// Set 直接写入缓存，value 会被拷贝，空值也是合法的
func (g *Group) Set(ctx context.Context, key string, value []byte) error {
	if atomic.LoadInt32(&g.closed) == 1 {
		return ErrGroupClosed
	}
	if key == "" {
		return ErrEmptyKey
	}
	g.populate(key, CopyBytes(value))
	return nil
}

func (g *Group) Delete(ctx context.Context, key string) error {
	if atomic.LoadInt32(&g.closed) == 1 {
		return ErrGroupClosed
	}
	if key == "" {
		return ErrEmptyKey
	}
	g.mainCache.Delete(key)
	return nil
}

// Clear 清空缓存
func (g *Group) Clear() {
	if atomic.LoadInt32(&g.closed) == 1 {
		return
	}
	g.mainCache.Clear()
	logrus.Infof("cleared cache for group [%s]", g.name)
}

// Close 关闭组并从全局映射中移除，可以重复调用
func (g *Group) Close() error {
	if !g.closeCache() {
		return nil
	}
	groupsMu.Lock()
	if groups[g.name] == g {
		delete(groups, g.name)
	}
	groupsMu.Unlock()
	logrus.Infof("closed cache group [%s]", g.name)
	return nil
}

// closeCache 原子地标记关闭并释放缓存，返回本次调用是否真正执行了关闭
func (g *Group) closeCache() bool {
	if !atomic.CompareAndSwapInt32(&g.closed, 0, 1) {
		return false
	}
	g.mainCache.Close()
	return true
}

// Stats 返回组的统计信息
func (g *Group) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"name":          g.name,
		"closed":        atomic.LoadInt32(&g.closed) == 1,
		"expiration":    g.expiration,
		"loads":         atomic.LoadInt64(&g.stats.loads),
		"local_hits":    atomic.LoadInt64(&g.stats.localHits),
		"local_misses":  atomic.LoadInt64(&g.stats.localMisses),
		"loader_hits":   atomic.LoadInt64(&g.stats.loaderHits),
		"loader_errors": atomic.LoadInt64(&g.stats.loaderErrors),
	}
	if loads := atomic.LoadInt64(&g.stats.loads); loads > 0 {
		stats["avg_load_time_ms"] = float64(atomic.LoadInt64(&g.stats.loadDuration)) / float64(loads) / float64(time.Millisecond)
	}
	for k, v := range g.mainCache.Stats() {
		stats["cache_"+k] = v
	}
	return stats
}

// ListGroups 返回所有缓存组的名称
func ListGroups() []string {
	groupsMu.RLock()
	defer groupsMu.RUnlock()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	return names
}

// DestroyGroup 销毁指定名称的缓存组
func DestroyGroup(name string) bool {
	groupsMu.Lock()
	g, exists := groups[name]
	if exists {
		delete(groups, name)
	}
	groupsMu.Unlock()

	if !exists {
		return false
	}
	g.closeCache()
	logrus.Infof("destroyed cache group [%s]", name)
	return true
}

// DestroyAllGroups 销毁所有缓存组
func DestroyAllGroups() {
	groupsMu.Lock()
	all := groups
	groups = make(map[string]*Group)
	groupsMu.Unlock()

	for name, g := range all {
		g.closeCache()
		logrus.Infof("destroyed cache group [%s]", name)
	}
}
