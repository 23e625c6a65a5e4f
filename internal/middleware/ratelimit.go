package middleware

import (
	"net/http"
	"sync"
	"time"

	"agrimap/internal/logger"
)

// 文档注释：按秒重置的令牌桶
// 背景：地图构建包含一次远端获取，峰值时需保护上游数据源与本进程。
// 约束：不排队，超额请求直接返回 429；now 可替换以便测试。
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	now      func() time.Time
	mu       sync.Mutex
}

func NewTokenBucket(qps int) *TokenBucket {
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix(), now: time.Now}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit：qps<=0 时原样返回 next
func RateLimit(qps int, next http.Handler) http.Handler {
	if qps <= 0 {
		return next
	}
	tb := NewTokenBucket(qps)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.Allow() {
			logger.L().Debug("rate_limited", "path", r.URL.Path, "remote", r.RemoteAddr)
			w.Header().Set("retry-after", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
