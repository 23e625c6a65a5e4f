package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agrimap/internal/logger"
	"agrimap/internal/metrics"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Loader：把 Fetcher 的原始字节解码为 Collection
type Loader struct {
	fetcher   Fetcher
	regionKey string
}

func NewLoader(f Fetcher, regionKey string) *Loader {
	if regionKey == "" {
		regionKey = "gov_name_f"
	}
	return &Loader{fetcher: f, regionKey: regionKey}
}

func (l *Loader) Fetch(ctx context.Context) (*Collection, error) {
	b, err := l.fetcher.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	c, err := Decode(b, l.regionKey)
	if err != nil {
		return nil, err
	}
	if c.Dropped > 0 {
		metrics.DroppedFeaturesTotal.Add(float64(c.Dropped))
		logger.L().Warn("geojson_features_dropped", "dropped", c.Dropped, "kept", len(c.Features))
	}
	return c, nil
}

// Decode：解析 FeatureCollection
// 约束：顶层结构错误返回 ErrMalformedData；单个要素区域名缺失或为空串、几何为空或非面状、几何无法解码时丢弃并计数，保持源顺序
func Decode(b []byte, regionKey string) (*Collection, error) {
	var top struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(b, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	if top.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q is not FeatureCollection", ErrMalformedData, top.Type)
	}
	c := &Collection{Features: make([]Feature, 0, len(top.Features)), FetchedAt: time.Now()}
	for i, raw := range top.Features {
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			logger.L().Debug("geojson_feature_invalid", "idx", i, "err", err)
			c.Dropped++
			continue
		}
		name, _ := f.Properties[regionKey].(string)
		if name == "" || !polygonal(f.Geometry) {
			c.Dropped++
			continue
		}
		c.Features = append(c.Features, Feature{RegionName: name, Geometry: f.Geometry, Properties: f.Properties})
	}
	return c, nil
}

// DecodeCheck：返回仅校验能否解码的函数，供缓存层在写入前判断载荷
func DecodeCheck(regionKey string) func([]byte) error {
	return func(b []byte) error {
		_, err := Decode(b, regionKey)
		return err
	}
}

func polygonal(g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.Polygon:
		return len(v) > 0 && len(v[0]) > 0
	case orb.MultiPolygon:
		for _, p := range v {
			if len(p) > 0 && len(p[0]) > 0 {
				return true
			}
		}
	}
	return false
}
