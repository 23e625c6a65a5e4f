package choropleth

import (
	"fmt"
	"strconv"

	"agrimap/internal/geo"
	"agrimap/internal/synth"

	"github.com/paulmach/orb"
)

// Options：版式常量；默认值沿用原始图表的取值
type Options struct {
	Title      string
	Height     int
	Margin     Margin
	ColorScale ColorScale
	MapStyle   string
	Zoom       float64
	Center     LatLon
}

func DefaultOptions() Options {
	return Options{
		Title:      "Map of Production by Governorate - Simulated Data",
		Height:     895,
		Margin:     Margin{R: 0, T: 60, L: 0, B: 0},
		ColorScale: YlGn,
		MapStyle:   "carto-positron",
		Zoom:       7,
		Center:     LatLon{Lat: 34.0, Lon: 9.0},
	}
}

// Builder：无状态，可被并发调用
type Builder struct{ opts Options }

func NewBuilder(opts Options) *Builder {
	d := DefaultOptions()
	if opts.Title == "" {
		opts.Title = d.Title
	}
	if opts.Height <= 0 {
		opts.Height = d.Height
	}
	if len(opts.ColorScale) == 0 {
		opts.ColorScale = d.ColorScale
	}
	if opts.MapStyle == "" {
		opts.MapStyle = d.MapStyle
	}
	if opts.Zoom == 0 {
		opts.Zoom = d.Zoom
	}
	if opts.Center == (LatLon{}) {
		opts.Center = d.Center
	}
	return &Builder{opts: opts}
}

// Join：按下标配对要素与属性
func Join(features []geo.Feature, attrs []synth.Attributes) ([]Entry, error) {
	if len(features) != len(attrs) {
		return nil, fmt.Errorf("choropleth: %d features but %d attribute rows", len(features), len(attrs))
	}
	out := make([]Entry, len(features))
	for i := range features {
		out[i] = Entry{Feature: features[i], Attributes: attrs[i]}
	}
	return out, nil
}

// Build：计算色域、色条刻度、悬停定义与视口
// 约束：色域与刻度只取当前批次产量的最小/最大值，刻度文本为未格式化的十进制数；空批次返回 IsEmpty=true 不报错；不修改入参切片
func (b *Builder) Build(entries []Entry) *Spec {
	s := &Spec{
		Entries:     make([]Entry, len(entries)),
		IsEmpty:     len(entries) == 0,
		ColorField:  "production",
		ColorScale:  b.opts.ColorScale,
		ColorDomain: []int{},
		Colorbar: Colorbar{
			Title:    "Production",
			TickVals: []int{},
			TickText: []string{},
			X:        1.05,
			XAnchor:  "left",
			Y:        0.5,
			YAnchor:  "middle",
		},
		Hover: Hover{
			TitleField: "region_name",
			Fields: []HoverField{
				{Key: "cereal_label", Label: "Cereale Type"},
				{Key: "production", Label: "Production"},
			},
		},
		Framing: Framing{
			FitBounds:   "locations",
			ShowBaseMap: false,
			MapStyle:    b.opts.MapStyle,
			Zoom:        b.opts.Zoom,
			Center:      b.opts.Center,
		},
		Layout: Layout{Title: b.opts.Title, Height: b.opts.Height, Margin: b.opts.Margin},
	}
	copy(s.Entries, entries)
	if s.IsEmpty {
		return s
	}

	lo, hi := s.Entries[0].Attributes.Production, s.Entries[0].Attributes.Production
	for _, e := range s.Entries[1:] {
		p := e.Attributes.Production
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	s.ColorDomain = []int{lo, hi}
	s.Colorbar.TickVals = []int{lo, hi}
	s.Colorbar.TickText = []string{strconv.Itoa(lo), strconv.Itoa(hi)}

	for i := range s.Entries {
		s.Entries[i].Fill = Hex(b.opts.ColorScale.At(normalize(s.Entries[i].Attributes.Production, lo, hi)))
	}
	if bound, ok := unionBound(s.Entries); ok {
		s.Framing.Bounds = []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
	}
	return s
}

// normalize：退化色域（min==max）取色阶中点
func normalize(v, lo, hi int) float64 {
	if hi == lo {
		return 0.5
	}
	return float64(v-lo) / float64(hi-lo)
}

func unionBound(entries []Entry) (orb.Bound, bool) {
	var out orb.Bound
	have := false
	for _, e := range entries {
		if e.Feature.Geometry == nil {
			continue
		}
		b := e.Feature.Geometry.Bound()
		if !have {
			out, have = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, have
}
