package geo

import (
	"context"
	"sync/atomic"
	"time"

	"agrimap/internal/logger"
	"agrimap/internal/metrics"
)

// SnapshotSource：进程内读穿缓存
// 约束：读路径无锁；已发布的 Collection 不再修改，刷新只替换指针；ttl<=0 表示首次填充后永久有效；获取失败不覆盖旧快照
type SnapshotSource struct {
	next Source
	ttl  time.Duration
	now  func() time.Time

	cur atomic.Pointer[Collection]
	// refresh：容量 1 的信号量，等待刷新的请求可随 ctx 放弃
	refresh chan struct{}
}

func NewSnapshotSource(next Source, ttl time.Duration) *SnapshotSource {
	return &SnapshotSource{next: next, ttl: ttl, now: time.Now, refresh: make(chan struct{}, 1)}
}

func (s *SnapshotSource) fresh(c *Collection) bool {
	if c == nil {
		return false
	}
	return s.ttl <= 0 || s.now().Sub(c.FetchedAt) < s.ttl
}

func (s *SnapshotSource) Fetch(ctx context.Context) (*Collection, error) {
	if c := s.cur.Load(); s.fresh(c) {
		metrics.SnapshotHitsTotal.Inc()
		return c, nil
	}
	select {
	case s.refresh <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-s.refresh }()
	// 等待期间可能已被其他请求刷新
	if c := s.cur.Load(); s.fresh(c) {
		metrics.SnapshotHitsTotal.Inc()
		return c, nil
	}
	c, err := s.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.FetchedAt = s.now()
	s.cur.Store(c)
	logger.L().Info("geojson_snapshot_ready", "features", len(c.Features), "dropped", c.Dropped)
	return c, nil
}

// Invalidate：丢弃当前快照，下次 Fetch 重新获取
func (s *SnapshotSource) Invalidate() { s.cur.Store(nil) }
