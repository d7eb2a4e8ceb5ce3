package middleware

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func limitedRouter(policy RatePolicy, client *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(RateLimitMiddleware(policy, client, "test"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

// 测试内容：验证限流关闭时请求不会被拦截。
func TestRateLimitMiddleware_DisabledAllowsRequests(t *testing.T) {
	r := limitedRouter(RatePolicy{Name: "login", Enabled: false, RPS: 0, Burst: 1}, nil)

	for i := 0; i < 3; i++ {
		if w := serve(r, fromIP(http.MethodGet, "/x", "1.2.3.4")); w.Code != http.StatusOK {
			t.Fatalf("期望 200，实际为 %d", w.Code)
		}
	}
}

// 测试内容：验证限流开启且无补充时会阻止突发请求，不同 IP 互不影响。
func TestRateLimitMiddleware_EnabledBlocksBurst(t *testing.T) {
	// 突发 1 个令牌且不补充（rps=0）
	r := limitedRouter(RatePolicy{Name: "guestbook", Enabled: true, RPS: 0, Burst: 1}, nil)

	if w := serve(r, fromIP(http.MethodGet, "/x", "1.2.3.4")); w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w := serve(r, fromIP(http.MethodGet, "/x", "1.2.3.4")); w.Code != http.StatusTooManyRequests {
		t.Fatalf("期望 429，实际为 %d", w.Code)
	}
	if w := serve(r, fromIP(http.MethodGet, "/x", "5.6.7.8")); w.Code != http.StatusOK {
		t.Fatalf("其他 IP 期望 200，实际为 %d", w.Code)
	}
}

// 测试内容：验证 Redis 不可用时回退本地令牌桶，而不是放行或拒绝所有请求。
func TestRateLimitMiddleware_RedisUnavailableFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	r := limitedRouter(RatePolicy{Name: "login", Enabled: true, RPS: 0, Burst: 1}, client)
	if w := serve(r, fromIP(http.MethodGet, "/x", "1.2.3.4")); w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	if w := serve(r, fromIP(http.MethodGet, "/x", "1.2.3.4")); w.Code != http.StatusTooManyRequests {
		t.Fatalf("期望 429，实际为 %d", w.Code)
	}
}

// 测试内容：验证禁用参数下 Redis 限流直接放行，Redis 不可用时返回错误。
func TestAllowByRedisRateLimit(t *testing.T) {
	ok, err := allowByRedisRateLimit(context.Background(), nil, "rate", "1.2.3.4", 0, 1)
	if err != nil || !ok {
		t.Fatalf("期望 rps=0 时放行，实际为 ok=%v err=%v", ok, err)
	}
	ok, err = allowByRedisRateLimit(context.Background(), nil, "rate", "1.2.3.4", 1, 0)
	if err != nil || !ok {
		t.Fatalf("期望 burst=0 时放行，实际为 ok=%v err=%v", ok, err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	ok, err = allowByRedisRateLimit(context.Background(), client, "rate", "1.2.3.4", 1, 1)
	if err == nil || ok {
		t.Fatalf("期望 redis 错误，实际为 ok=%v err=%v", ok, err)
	}
}

// 测试内容：验证多个请求协程并发访问同一 IP 与清理扫描同时进行时不存在数据竞争（配合 -race）。
func TestIPRateLimiter_ConcurrentAccessAndSweep(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(100), 100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				l.getLimiter("1.2.3.4")
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			l.sweep(time.Now())
		}
	}()
	wg.Wait()

	if n := l.sweep(time.Now()); n != 1 {
		t.Fatalf("期望保留 1 个活跃条目，实际为 %d", n)
	}
}

// 测试内容：验证闲置超过阈值的 IP 被清理，活跃 IP 保留。
func TestIPRateLimiter_SweepRemovesIdle(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.getLimiter("1.1.1.1")
	l.getLimiter("2.2.2.2")

	later := time.Now().Add(limiterIdleTTL + time.Second)
	if v, ok := l.ips.Load("2.2.2.2"); ok {
		v.(*client).touch(later)
	}
	if n := l.sweep(later); n != 1 {
		t.Fatalf("期望剩余 1 个条目，实际为 %d", n)
	}
	if _, ok := l.ips.Load("1.1.1.1"); ok {
		t.Fatalf("期望闲置 IP 被清理")
	}
}

// 测试内容：验证清理协程只在有条目时启动，表清空后退出，关闭限流时不创建限流器。
func TestIPRateLimiter_CleanupLoopStopsWhenEmpty(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	l.sweepEvery = 5 * time.Millisecond
	l.idleTTL = time.Millisecond

	if l.isSweeping() {
		t.Fatalf("没有条目时不应启动清理协程")
	}
	l.getLimiter("1.2.3.4")
	if !l.isSweeping() {
		t.Fatalf("期望插入条目后启动清理协程")
	}

	deadline := time.Now().Add(2 * time.Second)
	for l.isSweeping() {
		if time.Now().After(deadline) {
			t.Fatalf("期望条目清空后清理协程退出")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// 退出后再次插入会重新启动
	l.getLimiter("5.6.7.8")
	if !l.isSweeping() {
		t.Fatalf("期望重新插入后再次启动清理协程")
	}
}
