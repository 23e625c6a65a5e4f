// 包 render：分级设色图描述的参考渲染实现（PNG 预览与 XLSX 属性表）；只读取 Spec，不回写
package render

import (
	"fmt"
	"image/color"
	"io"

	"agrimap/internal/choropleth"
	"agrimap/internal/metrics"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var outline = color.RGBA{R: 90, G: 90, B: 90, A: 255}

// swatch：图例色块
type swatch struct{ c color.Color }

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Min.X, Y: c.Max.Y},
	}
	c.FillPolygon(s.c, pts)
}

// PNG：逐要素绘制填充多边形，图例只标注色域两端
// 约束：空 Spec 输出仅含标题的空画布；尺寸单位为像素（按 96 DPI 换算）
func PNG(w io.Writer, s *choropleth.Spec, widthPx, heightPx int) error {
	if widthPx <= 0 {
		widthPx = 1000
	}
	if heightPx <= 0 {
		heightPx = s.Layout.Height
	}
	p := plot.New()
	p.Title.Text = s.Layout.Title
	p.HideAxes()

	for _, e := range s.Entries {
		fill, err := parseHex(e.Fill)
		if err != nil {
			return err
		}
		for _, poly := range polygons(e.Feature.Geometry) {
			rings := make([]plotter.XYer, 0, len(poly))
			for _, r := range poly {
				xys := make(plotter.XYs, len(r))
				for i, pt := range r {
					xys[i] = plotter.XY{X: pt.Lon(), Y: pt.Lat()}
				}
				rings = append(rings, xys)
			}
			pg, err := plotter.NewPolygon(rings...)
			if err != nil {
				return fmt.Errorf("render: %s: %w", e.Feature.RegionName, err)
			}
			pg.Color = fill
			pg.LineStyle.Color = outline
			pg.LineStyle.Width = vg.Points(0.5)
			p.Add(pg)
		}
	}
	if lo, hi, ok := s.Domain(); ok {
		p.Legend.Top = true
		p.Legend.Add(fmt.Sprintf("%s %d", s.Colorbar.Title, lo), swatch{c: s.ColorScale.At(0)})
		p.Legend.Add(fmt.Sprintf("%s %d", s.Colorbar.Title, hi), swatch{c: s.ColorScale.At(1)})
	}

	const dpi = 96
	wt, err := p.WriterTo(vg.Length(widthPx)*vg.Inch/dpi, vg.Length(heightPx)*vg.Inch/dpi, "png")
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(w); err != nil {
		return err
	}
	metrics.RenderTotal.WithLabelValues("png").Inc()
	return nil
}

func polygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{v}
	case orb.MultiPolygon:
		return v
	}
	return nil
}

func parseHex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return c, fmt.Errorf("render: bad fill %q: %w", s, err)
	}
	return c, nil
}
