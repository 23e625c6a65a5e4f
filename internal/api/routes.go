// 包 api：集中注册 HTTP 路由；主入口只负责挂载到 API 前缀
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"agrimap/internal/geo"
	"agrimap/internal/logger"
	"agrimap/internal/pipeline"
	"agrimap/internal/render"
	"agrimap/internal/store"
)

// Runner：一次完整的地图构建
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError：数据源类错误按上游故障返回 502，其余为 500
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, geo.ErrSourceUnavailable):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "source_unavailable", Message: err.Error()})
	case errors.Is(err, geo.ErrMalformedData):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "malformed_data", Message: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "timeout", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal", Message: err.Error()})
	}
}

func intParam(r *http.Request, key string, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// ReloadHandler：POST 时依次执行各失效函数（进程内快照、Redis 载荷缓存），下一次构建回源
// 约束：任一失效失败返回 500，其余仍会执行
func ReloadHandler(invalidate ...func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("allow", http.MethodPost)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var failed error
		for _, fn := range invalidate {
			if err := fn(r.Context()); err != nil {
				logger.L().Error("cache_invalidate_error", "err", err)
				failed = err
			}
		}
		if failed != nil {
			writeError(w, failed)
			return
		}
		logger.L().Info("cache_invalidated", "targets", len(invalidate))
		w.WriteHeader(http.StatusNoContent)
	})
}

// BuildRoutes：st 可为 nil（统计关闭）
func BuildRoutes(run Runner, st *store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// build：执行一次构建并记录统计；失败时已写出错误响应
	build := func(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
		ctx := r.Context()
		res, err := run.Run(ctx)
		if err != nil {
			st.RecordBuild(context.WithoutCancel(ctx), store.OutcomeFailed)
			writeError(w, err)
			return nil, false
		}
		outcome := store.OutcomeOK
		if res.Spec.IsEmpty {
			outcome = store.OutcomeEmpty
		}
		st.RecordBuild(context.WithoutCancel(ctx), outcome)
		w.Header().Set("x-run-id", res.ID)
		return res, true
	}

	mux.HandleFunc("GET /choropleth", func(w http.ResponseWriter, r *http.Request) {
		res, ok := build(w, r)
		if !ok {
			return
		}
		w.Header().Set("x-dropped-features", strconv.Itoa(res.Dropped))
		writeJSON(w, http.StatusOK, res.Spec)
	})

	mux.HandleFunc("GET /choropleth.png", func(w http.ResponseWriter, r *http.Request) {
		res, ok := build(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		width := intParam(r, "w", 1000, 4000)
		height := intParam(r, "h", res.Spec.Layout.Height, 4000)
		if err := render.PNG(&buf, res.Spec, width, height); err != nil {
			logger.L().Error("render_png_error", "run", res.ID, "err", err)
			writeError(w, err)
			return
		}
		w.Header().Set("content-type", "image/png")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})

	mux.HandleFunc("GET /choropleth.xlsx", func(w http.ResponseWriter, r *http.Request) {
		res, ok := build(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := render.XLSX(&buf, res.Spec); err != nil {
			logger.L().Error("render_xlsx_error", "run", res.ID, "err", err)
			writeError(w, err)
			return
		}
		w.Header().Set("content-type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("content-disposition", `attachment; filename="production.xlsx"`)
		_, _ = w.Write(buf.Bytes())
	})

	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		t, err := st.GetTotals(r.Context())
		if err != nil {
			logger.L().Error("stats_read_error", "err", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
