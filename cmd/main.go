// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"agrimap/internal/api"
	"agrimap/internal/choropleth"
	"agrimap/internal/config"
	"agrimap/internal/geo"
	"agrimap/internal/logger"
	"agrimap/internal/metrics"
	"agrimap/internal/middleware"
	"agrimap/internal/migrate"
	"agrimap/internal/pipeline"
	"agrimap/internal/region"
	"agrimap/internal/store"
	"agrimap/internal/utils"
)

func main() {
	config.LoadDotEnv()
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")

	cfg, err := config.Load()
	if err != nil {
		l.Error("config_error", "err", err)
		os.Exit(1)
	}
	l.Debug("config_api_base", "base", cfg.APIBase)
	l.Info("config_source", "url", cfg.SourceURL, "region_key", cfg.RegionKey, "governorates", len(cfg.Governorates), "seed", cfg.Seed)

	// 统计库可选：PG_HOST 未设置时 st 为 nil，所有写入为空操作
	db, err := utils.OpenPostgresFromEnv()
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	var st *store.Store
	if db == nil {
		l.Info("db_disabled")
	} else {
		l.Info("db_open_ok")
		if err := db.Ping(); err != nil {
			l.Error("db_ping_error", "err", err)
		} else {
			l.Info("db_ping_ok")
		}
		if err := migrate.EnsureSchema(context.Background(), db); err != nil {
			l.Error("schema_error", "err", err)
			os.Exit(1)
		}
		st = store.AttachDB(db)
		defer st.Close()
	}

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else {
		if err := rc.Ping(context.Background()).Err(); err != nil {
			l.Error("redis_ping_error", "err", err)
		} else {
			l.Info("redis_ping_ok")
		}
		defer rc.Close()
	}

	// 数据源链：HTTP → Redis 载荷缓存（可选，只缓存可解码的载荷）→ 解码 → 进程内快照（可选）
	client := &http.Client{Timeout: cfg.FetchTimeout}
	httpFetcher := geo.NewHTTPFetcher(cfg.SourceURL, client, cfg.MaxPayloadBytes)
	redisFetcher := geo.NewRedisFetcher(httpFetcher, rc, cfg.SourceURL, cfg.RedisTTL, geo.DecodeCheck(cfg.RegionKey))
	var src geo.Source = geo.NewLoader(redisFetcher, cfg.RegionKey)
	invalidators := []func(context.Context) error{redisFetcher.Invalidate}
	if cfg.SnapshotTTL > 0 {
		snap := geo.NewSnapshotSource(src, cfg.SnapshotTTL)
		src = snap
		invalidators = append(invalidators, func(context.Context) error { snap.Invalidate(); return nil })
		l.Info("snapshot_enabled", "ttl_s", int(cfg.SnapshotTTL/time.Second))
	}

	opts := choropleth.DefaultOptions()
	opts.Title = cfg.Title
	pl := pipeline.New(src, region.NewAllowList(cfg.Governorates...), cfg.Seed, choropleth.NewBuilder(opts))

	mux := http.NewServeMux()
	apiMux := api.BuildRoutes(pl, st)
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	// 手动丢弃快照与 Redis 缓存，下一次构建重新获取
	mux.Handle(cfg.APIBase+"/reload", api.ReloadHandler(invalidators...))

	handler := logger.AccessMiddleware(l)(mux)
	handler = middleware.RateLimit(cfg.RateLimitQPS, handler)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
}
