package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

const defaultViewTTL = 10 * time.Minute

// ViewCache 缓存读视图的 JSON 结果，并按标签整体失效。
//
// 每个标签维护一个代数计数器，缓存键包含当前代数；失效时只需要递增计数器，
// 旧代数下的条目自然不再命中，直到 TTL 到期被清除。
type ViewCache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger

	mu        sync.RWMutex
	listeners []func(tags []string)
}

func NewViewCache(store Store, logger *slog.Logger) *ViewCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewCache{store: store, ttl: defaultViewTTL, logger: logger}
}

// OnInvalidate 注册失效回调，回调在 Invalidate 的调用协程中同步执行。
func (v *ViewCache) OnInvalidate(fn func(tags []string)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Invalidate 使给定标签下的所有缓存视图失效，并通知监听者。
func (v *ViewCache) Invalidate(ctx context.Context, tags ...string) {
	if v == nil || len(tags) == 0 {
		return
	}
	for _, tag := range tags {
		if _, err := v.store.Incr(ctx, genKey(tag)); err != nil {
			v.logger.Warn("view cache invalidate failed", "tag", tag, "err", err)
		}
	}

	v.mu.RLock()
	listeners := append([]func([]string){}, v.listeners...)
	v.mu.RUnlock()
	for _, fn := range listeners {
		fn(tags)
	}
}

func (v *ViewCache) key(ctx context.Context, tag, key string) (string, error) {
	gen, err := v.store.GetInt(ctx, genKey(tag))
	if err != nil {
		return "", err
	}
	return "view:" + tag + ":" + strconv.FormatInt(gen, 10) + ":" + key, nil
}

func genKey(tag string) string {
	return "gen:" + tag
}

// Remember 返回标签 tag 下 key 对应的缓存值，未命中时调用 load 并写回。
// 缓存后端出错时直接走 load，不影响请求。
func Remember[T any](ctx context.Context, v *ViewCache, tag, key string, load func(context.Context) (T, error)) (T, error) {
	if v == nil {
		return load(ctx)
	}

	fullKey, err := v.key(ctx, tag, key)
	if err != nil {
		v.logger.Warn("view cache unavailable", "tag", tag, "err", err)
		return load(ctx)
	}

	if raw, ok, err := v.store.Get(ctx, fullKey); err != nil {
		v.logger.Warn("view cache get failed", "key", fullKey, "err", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if raw, err := json.Marshal(value); err == nil {
		if err := v.store.Set(ctx, fullKey, raw, v.ttl); err != nil {
			v.logger.Warn("view cache set failed", "key", fullKey, "err", err)
		}
	}
	return value, nil
}
