package middleware

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golden-anniversary-server/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RatePolicy 描述一组路由共享的限流参数
type RatePolicy struct {
	Name    string
	Enabled bool
	RPS     float64
	Burst   int
}

const (
	limiterSweepEvery = time.Minute
	limiterIdleTTL    = 3 * time.Minute
)

// IPRateLimiter 每个 IP 一个令牌桶。清理协程只在有条目时运行，表清空后退出。
type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int

	sweepEvery time.Duration
	idleTTL    time.Duration
	sweeping   bool
}

type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nano
}

func (c *client) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *client) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastSeen.Load()))
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		r:          r,
		b:          b,
		sweepEvery: limiterSweepEvery,
		idleTTL:    limiterIdleTTL,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now()
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch(now)
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch(now)
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.touch(now)
	i.ips.Store(ip, c)

	if !i.sweeping {
		i.sweeping = true
		go i.cleanupLoop()
	}
	return c.limiter
}

// sweep 删除闲置条目，返回剩余条目数
func (i *IPRateLimiter) sweep(now time.Time) int {
	remaining := 0
	i.ips.Range(func(key, value interface{}) bool {
		if value.(*client).idleSince(now) > i.idleTTL {
			i.ips.Delete(key)
		} else {
			remaining++
		}
		return true
	})
	return remaining
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(i.sweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		if i.sweep(time.Now()) > 0 {
			continue
		}
		// 新条目只在 mu 下插入，持锁复查后再退出
		i.mu.Lock()
		if i.sweep(time.Now()) == 0 {
			i.sweeping = false
			i.mu.Unlock()
			return
		}
		i.mu.Unlock()
	}
}

func (i *IPRateLimiter) isSweeping() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sweeping
}

// RateLimitMiddleware 按客户端 IP 限流。
// 配置了 Redis 时使用固定窗口计数，多实例共享额度；Redis 出错时回退到本进程令牌桶。
func RateLimitMiddleware(policy RatePolicy, redisClient *redis.Client, prefix string) gin.HandlerFunc {
	if !policy.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewIPRateLimiter(rate.Limit(policy.RPS), policy.Burst)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if redisClient != nil {
			key := cache.RedisKey(prefix, "rate", policy.Name)
			allowed, err := allowByRedisRateLimit(c.Request.Context(), redisClient, key, ip, policy.RPS, policy.Burst)
			if err == nil {
				if !allowed {
					tooManyRequests(c)
					return
				}
				c.Next()
				return
			}
			log.Printf("⚠️ Redis 限流失败，回退本地限流: %v", err)
		}

		if !limiter.getLimiter(ip).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// allowByRedisRateLimit 固定窗口：窗口长度为 burst/rps 秒，窗口内最多 burst 次。rps 或 burst 非正时不限流。
func allowByRedisRateLimit(ctx context.Context, client *redis.Client, key, ip string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return true, nil
	}

	window := time.Duration(math.Ceil(float64(burst)/rps)) * time.Second
	if window < time.Second {
		window = time.Second
	}
	slot := time.Now().UnixNano() / int64(window)
	fullKey := key + ":" + ip + ":" + strconv.FormatInt(slot, 10)

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	pipe := client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(burst), nil
}

func tooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
	c.Abort()
}
