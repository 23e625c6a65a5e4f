// 包 geo：行政区边界的获取与解码；输出仅包含带区域名与面状几何的要素
package geo

import (
	"context"
	"errors"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	// ErrSourceUnavailable：远端不可达、超时或返回非 2xx
	ErrSourceUnavailable = errors.New("geo: source unavailable")
	// ErrMalformedData：载荷不是 GeoJSON FeatureCollection
	ErrMalformedData = errors.New("geo: malformed data")
)

// Feature：一个 delegation 面要素
// 约束：Geometry 只会是 orb.Polygon 或 orb.MultiPolygon；RegionName 非空
type Feature struct {
	RegionName string
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// Collection：一次获取的结果
// 约束：发布后只读，可被并发调用方共享；下游阶段不得修改 Features 切片或其几何
type Collection struct {
	Features  []Feature
	Dropped   int
	FetchedAt time.Time
}

// Fetcher：获取原始 GeoJSON 字节
type Fetcher interface {
	FetchRaw(ctx context.Context) ([]byte, error)
}

// Source：获取已解码的要素集合
type Source interface {
	Fetch(ctx context.Context) (*Collection, error)
}
