package geo

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"agrimap/internal/logger"
	"agrimap/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisFetcher：原始载荷的 Redis 读穿缓存
// 约束：rc 为 nil 时直接透传；Redis 读写错误只记日志不影响主流程；只缓存获取成功且通过 validate 的载荷
type RedisFetcher struct {
	next     Fetcher
	rc       *redis.Client
	key      string
	ttl      time.Duration
	validate func([]byte) error
}

// NewRedisFetcher：name 参与缓存键计算，通常传数据源地址，地址变化即自然失效
// validate 为 nil 时不校验；通常传入按区域字段解码的 DecodeCheck
func NewRedisFetcher(next Fetcher, rc *redis.Client, name string, ttl time.Duration, validate func([]byte) error) *RedisFetcher {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisFetcher{next: next, rc: rc, key: cacheKey(name), ttl: ttl, validate: validate}
}

func cacheKey(name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return "geojson:" + strconv.FormatUint(h.Sum64(), 16)
}

func (f *RedisFetcher) FetchRaw(ctx context.Context) ([]byte, error) {
	if f.rc == nil {
		return f.next.FetchRaw(ctx)
	}
	b, err := f.rc.Get(ctx, f.key).Bytes()
	if err == nil && len(b) > 0 {
		metrics.RedisHitsTotal.Inc()
		logger.L().Debug("geojson_redis_hit", "key", f.key, "bytes", len(b))
		return b, nil
	}
	if err != nil && err != redis.Nil {
		logger.L().Warn("geojson_redis_get_error", "key", f.key, "err", err)
	}
	metrics.RedisMissesTotal.Inc()
	b, err = f.next.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	if f.validate != nil {
		if verr := f.validate(b); verr != nil {
			logger.L().Warn("geojson_redis_skip_invalid", "key", f.key, "err", verr)
			return b, nil
		}
	}
	if err := f.rc.Set(ctx, f.key, b, f.ttl).Err(); err != nil {
		logger.L().Warn("geojson_redis_set_error", "key", f.key, "err", err)
	}
	return b, nil
}

// Invalidate：删除缓存键，下次 FetchRaw 回源
func (f *RedisFetcher) Invalidate(ctx context.Context) error {
	if f.rc == nil {
		return nil
	}
	return f.rc.Del(ctx, f.key).Err()
}
