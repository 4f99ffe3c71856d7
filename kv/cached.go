package kv

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anoixa/photo-album/cache"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "kv:"

// CachedStore 读写穿透缓存装饰器
// 后端写入成功后才更新缓存，缓存故障只记录日志不影响结果
type CachedStore struct {
	backend Storage
	cache   cache.Provider
	ttl     time.Duration
	group   singleflight.Group
}

// loadResult 合并读取的结果
type loadResult struct {
	value string
	ok    bool
}

// cachedBatchStore 后端支持批量写入时使用
type cachedBatchStore struct {
	*CachedStore
	batcher Batcher
}

// NewCached 为后端套上缓存
// 后端实现 Batcher 时返回值同样实现 Batcher
func NewCached(backend Storage, provider cache.Provider, ttl time.Duration) Storage {
	cs := &CachedStore{backend: backend, cache: provider, ttl: ttl}
	if b, ok := backend.(Batcher); ok {
		return &cachedBatchStore{CachedStore: cs, batcher: b}
	}
	return cs
}

// Get 先查缓存，未命中时读后端并回填
func (c *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := c.cache.Get(ctx, cacheKeyPrefix+key, &value)
	if err == nil {
		return value, true, nil
	}
	if !cache.IsCacheMiss(err) && !errors.Is(err, context.Canceled) {
		log.Printf("[KV] Cache read failed for %s: %v", key, err)
	}

	// 同一个键的并发未命中只读一次后端
	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		value, ok, err := c.backend.Get(loadCtx, key)
		if err != nil || !ok {
			return loadResult{}, err
		}
		c.fill(loadCtx, key, value)
		return loadResult{value: value, ok: true}, nil
	})

	select {
	case result := <-resultChan:
		if result.Err != nil {
			return "", false, result.Err
		}
		loaded := result.Val.(loadResult)
		return loaded.value, loaded.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

// Set 写后端，成功后刷新缓存
func (c *CachedStore) Set(ctx context.Context, key, value string) error {
	if err := c.backend.Set(ctx, key, value); err != nil {
		return err
	}
	c.fill(ctx, key, value)
	return nil
}

// Close 关闭后端与缓存
func (c *CachedStore) Close() error {
	return errors.Join(Close(c.backend), c.cache.Close())
}

// Name 返回后端名称
func (c *CachedStore) Name() string {
	return "cached:" + c.backend.Name()
}

// fill 回填缓存，失败时删除旧值避免读到过期数据
func (c *CachedStore) fill(ctx context.Context, key, value string) {
	if err := c.cache.Set(ctx, cacheKeyPrefix+key, value, c.ttl); err != nil {
		log.Printf("[KV] Cache write failed for %s: %v", key, err)
		if err := c.cache.Delete(ctx, cacheKeyPrefix+key); err != nil {
			log.Printf("[KV] Cache invalidate failed for %s: %v", key, err)
		}
	}
}

// SetMany 通过后端批量写入，成功后刷新缓存
func (c *cachedBatchStore) SetMany(ctx context.Context, entries map[string]string) error {
	if err := c.batcher.SetMany(ctx, entries); err != nil {
		return err
	}
	for k, v := range entries {
		c.fill(ctx, k, v)
	}
	return nil
}
