package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"agrimap/internal/logger"
	"agrimap/internal/metrics"
)

// HTTPFetcher：对固定地址发起一次 GET
// 约束：不重试；超时、非 2xx 与读体失败统一归为 ErrSourceUnavailable，超过 maxBytes 的载荷归为 ErrMalformedData
type HTTPFetcher struct {
	url      string
	client   *http.Client
	maxBytes int64
}

func NewHTTPFetcher(url string, client *http.Client, maxBytes int64) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	return &HTTPFetcher{url: url, client: client, maxBytes: maxBytes}
}

func (f *HTTPFetcher) FetchRaw(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("accept", "application/geo+json, application/json")
	t0 := time.Now()
	logger.L().Debug("geojson_req", "url", f.url)
	resp, err := f.client.Do(req)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FetchTotal.WithLabelValues("status").Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		metrics.FetchTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: read body: %v", ErrSourceUnavailable, err)
	}
	if int64(len(b)) > f.maxBytes {
		metrics.FetchTotal.WithLabelValues("too_large").Inc()
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrMalformedData, f.maxBytes)
	}
	dur := time.Since(t0).Milliseconds()
	metrics.FetchTotal.WithLabelValues("ok").Inc()
	metrics.FetchDurationMs.Observe(float64(dur))
	logger.L().Debug("geojson_resp", "status", resp.StatusCode, "bytes", len(b), "duration_ms", dur)
	return b, nil
}

// FileFetcher：读取本地 GeoJSON 文件，供命令行离线渲染与测试使用
type FileFetcher struct{ Path string }

func (f FileFetcher) FetchRaw(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return b, nil
}
