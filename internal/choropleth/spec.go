// 包 choropleth：把筛选后的几何与合成属性组装为可渲染的分级设色图描述
package choropleth

import (
	"encoding/json"

	"agrimap/internal/geo"
	"agrimap/internal/synth"

	"github.com/paulmach/orb/geojson"
)

// Entry：一个要素及其合成属性；Fill 由 Build 按色阶填写
type Entry struct {
	Feature    geo.Feature
	Attributes synth.Attributes
	Fill       string
}

type Colorbar struct {
	Title    string   `json:"title"`
	TickVals []int    `json:"tickvals"`
	TickText []string `json:"ticktext"`
	X        float64  `json:"x"`
	XAnchor  string   `json:"xanchor"`
	Y        float64  `json:"y"`
	YAnchor  string   `json:"yanchor"`
}

type HoverField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Hover：悬停标题取 TitleField，正文依次展示 Fields
type Hover struct {
	TitleField string       `json:"title_field"`
	Fields     []HoverField `json:"fields"`
}

// HoverRecord：单个要素的悬停内容
type HoverRecord struct {
	Title       string `json:"title"`
	CerealLabel string `json:"cereal_label"`
	Production  int    `json:"production"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Framing：视口指令；Bounds 为保留几何的并集包围盒 [minLon,minLat,maxLon,maxLat]，空批次时为 nil
type Framing struct {
	FitBounds   string    `json:"fitbounds"`
	Bounds      []float64 `json:"bounds"`
	ShowBaseMap bool      `json:"show_basemap"`
	MapStyle    string    `json:"mapbox_style"`
	Zoom        float64   `json:"mapbox_zoom"`
	Center      LatLon    `json:"mapbox_center"`
}

type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

type Layout struct {
	Title  string `json:"title"`
	Height int    `json:"height"`
	Margin Margin `json:"margin"`
}

// Spec：交给渲染方的完整描述，生成后只读
// 约束：IsEmpty 为 true 时 ColorDomain/Colorbar 刻度为空切片，渲染方据此直接画空地图
type Spec struct {
	Entries     []Entry    `json:"-"`
	IsEmpty     bool       `json:"is_empty"`
	ColorField  string     `json:"color_field"`
	ColorScale  ColorScale `json:"color_scale"`
	ColorDomain []int      `json:"color_domain"`
	Colorbar    Colorbar   `json:"colorbar"`
	Hover       Hover      `json:"hover"`
	Framing     Framing    `json:"framing"`
	Layout      Layout     `json:"layout"`
}

// Domain：返回 [min,max]；空批次 ok=false
func (s *Spec) Domain() (min, max int, ok bool) {
	if s.IsEmpty || len(s.ColorDomain) != 2 {
		return 0, 0, false
	}
	return s.ColorDomain[0], s.ColorDomain[1], true
}

func (s *Spec) HoverData() []HoverRecord {
	out := make([]HoverRecord, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = HoverRecord{
			Title:       e.Feature.RegionName,
			CerealLabel: e.Attributes.Cereal.String(),
			Production:  e.Attributes.Production,
		}
	}
	return out
}

// FeatureCollection：按条目顺序输出 GeoJSON，要素 id 为条目下标，属性在源属性基础上追加合成字段
func (s *Spec) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, e := range s.Entries {
		f := geojson.NewFeature(e.Feature.Geometry)
		f.ID = i
		props := make(geojson.Properties, len(e.Feature.Properties)+7)
		for k, v := range e.Feature.Properties {
			props[k] = v
		}
		a := e.Attributes
		props["region_name"] = e.Feature.RegionName
		props["cereal_code"] = a.CerealCode
		props["variety_code"] = a.VarietyCode
		props["area"] = a.Area
		props["production"] = a.Production
		props["cereal_label"] = a.Cereal.String()
		props["fill"] = e.Fill
		f.Properties = props
		fc.Append(f)
	}
	return fc
}

type specAlias Spec

func (s *Spec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		*specAlias
		GeoJSON   *geojson.FeatureCollection `json:"geojson"`
		HoverData []HoverRecord              `json:"hover_data"`
	}{
		specAlias: (*specAlias)(s),
		GeoJSON:   s.FeatureCollection(),
		HoverData: s.HoverData(),
	})
}
