// 限流中间件
//
// 固定窗口、按客户端 IP 计数：/api/ 下 15 分钟 100 次，登录接口单独
// 收紧到 15 分钟 5 次。计数器后端可选 Redis（多实例共享）或进程内存。
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-admin/internal/apiserver/respond"
)

const (
	// RateLimitWindow 固定计数窗口
	RateLimitWindow = 15 * time.Minute
	// GeneralRateLimit /api/ 下的通用限额
	GeneralRateLimit = 100
	// LoginRateLimit 登录接口限额
	LoginRateLimit = 5
)

// CounterStore 窗口计数器后端
type CounterStore interface {
	// Incr 将 key 在当前窗口内的计数加一并返回新值
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter 限流器
type RateLimiter struct {
	counters CounterStore
	metrics  *Metrics
}

// NewRateLimiter 创建限流器，metrics 可以为 nil
func NewRateLimiter(counters CounterStore, metrics *Metrics) *RateLimiter {
	return &RateLimiter{counters: counters, metrics: metrics}
}

// Middleware 应用限流策略
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, limit := limitFor(r.URL.Path)
		if limit == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		window := time.Now().Unix() / int64(RateLimitWindow.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, ip, window)

		count, err := rl.counters.Incr(r.Context(), key, RateLimitWindow)
		if err != nil {
			// 计数器故障时放行，限流不应该让整个 API 不可用
			log.Printf("[ratelimit] counter error: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > int64(limit) {
			if rl.metrics != nil {
				rl.metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
			}
			respond.Fail(w, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitFor 返回路径对应的限流范围和限额，0 表示不限流
func limitFor(path string) (string, int) {
	if path == "/api/auth/login" {
		return "login", LoginRateLimit
	}
	if strings.HasPrefix(path, "/api/") {
		return "general", GeneralRateLimit
	}
	return "", 0
}

// clientIP 提取客户端 IP，优先信任反向代理头
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i != -1 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ============================================================================
// 计数器后端
// ============================================================================

// MemoryCounterStore 进程内存计数器（单实例部署的默认后端）
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]*memoryCounter
}

type memoryCounter struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryCounterStore 创建内存计数器
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{entries: make(map[string]*memoryCounter)}
}

// Incr 计数加一，顺带清理过期窗口
func (m *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}

	e, ok := m.entries[key]
	if !ok {
		e = &memoryCounter{expiresAt: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, nil
}

// RedisCounterStore Redis 计数器（多实例部署共享配额）
type RedisCounterStore struct {
	rdb *redis.Client
}

// NewRedisCounterStore 创建 Redis 计数器
func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb}
}

// Incr INCR + 首次设置过期时间
func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}
