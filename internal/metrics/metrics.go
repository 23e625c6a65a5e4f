package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000}

var (
	BuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_builds_total",
		Help: "Total number of choropleth pipeline runs",
	})
	BuildDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "agrimap_build_duration_ms",
		Help:    "Pipeline run duration in milliseconds, fetch included",
		Buckets: durationBuckets,
	})
	EmptyBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_empty_builds_total",
		Help: "Total number of runs whose filtered batch was empty",
	})
	FetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_fetch_total",
		Help: "GeoJSON fetches by outcome",
	}, []string{"status"})
	FetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "agrimap_fetch_duration_ms",
		Help:    "GeoJSON fetch duration in milliseconds",
		Buckets: durationBuckets,
	})
	DroppedFeaturesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_dropped_features_total",
		Help: "Features dropped for missing region name or geometry",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_redis_hits_total",
		Help: "GeoJSON payload cache hits in redis",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_redis_misses_total",
		Help: "GeoJSON payload cache misses in redis",
	})
	SnapshotHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "agrimap_snapshot_hits_total",
		Help: "Runs served from the in-process geometry snapshot",
	})
	RenderTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimap_render_total",
		Help: "Rendered outputs by format",
	}, []string{"format"})
)

func init() {
	prometheus.MustRegister(
		BuildsTotal,
		BuildDurationMs,
		EmptyBuildsTotal,
		FetchTotal,
		FetchDurationMs,
		DroppedFeaturesTotal,
		RedisHitsTotal,
		RedisMissesTotal,
		SnapshotHitsTotal,
		RenderTotal,
	)
}

// 文档注释：返回 Prometheus 指标处理器，由主入口挂载到 API 前缀下的 /metrics
func Handler() http.Handler { return promhttp.Handler() }
