// 包 pipeline：一次调用内串联 获取 → 筛选 → 合成 → 组装 四个阶段
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"agrimap/internal/choropleth"
	"agrimap/internal/geo"
	"agrimap/internal/logger"
	"agrimap/internal/metrics"
	"agrimap/internal/region"
	"agrimap/internal/synth"

	"github.com/google/uuid"
)

// Pipeline：各阶段的静态装配；Run 可并发调用
// 约束：每次 Run 只调用一次 Source.Fetch，并新建独立的播种生成器，请求之间不共享随机状态
type Pipeline struct {
	src     geo.Source
	allow   region.AllowList
	seed    int64
	bounds  synth.Bounds
	builder *choropleth.Builder
}

func New(src geo.Source, allow region.AllowList, seed int64, builder *choropleth.Builder) *Pipeline {
	if builder == nil {
		builder = choropleth.NewBuilder(choropleth.DefaultOptions())
	}
	return &Pipeline{src: src, allow: allow, seed: seed, bounds: synth.DefaultBounds, builder: builder}
}

// Result：一次运行的产物与诊断数据
type Result struct {
	ID       string
	Spec     *choropleth.Spec
	Fetched  int
	Dropped  int
	Retained int
	Elapsed  time.Duration
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	id := uuid.NewString()
	l := logger.L().With("run", id)
	t0 := time.Now()
	metrics.BuildsTotal.Inc()

	col, err := p.src.Fetch(ctx)
	if err != nil {
		l.Error("pipeline_fetch_error", "err", err)
		return nil, err
	}
	kept := region.Filter(col.Features, p.allow)
	if l.Enabled(ctx, slog.LevelDebug) {
		l.Debug("pipeline_filter", "counts", region.Counts(kept))
	}
	attrs := synth.SynthesizeBounds(len(kept), synth.NewPython(p.seed), p.bounds)
	entries, err := choropleth.Join(kept, attrs)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	spec := p.builder.Build(entries)

	res := &Result{
		ID:       id,
		Spec:     spec,
		Fetched:  len(col.Features),
		Dropped:  col.Dropped,
		Retained: len(kept),
		Elapsed:  time.Since(t0),
	}
	metrics.BuildDurationMs.Observe(float64(res.Elapsed.Milliseconds()))
	if spec.IsEmpty {
		metrics.EmptyBuildsTotal.Inc()
		l.Warn("pipeline_empty_batch", "fetched", res.Fetched, "dropped", res.Dropped)
	}
	l.Info("pipeline_done",
		"fetched", res.Fetched,
		"dropped", res.Dropped,
		"retained", res.Retained,
		"domain", spec.ColorDomain,
		"duration_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}
