package choropleth

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
)

// Stop：色阶上的一个锚点，Pos 取值 [0,1]
type Stop struct {
	Pos   float64
	Color color.RGBA
}

// MarshalJSON：输出 [pos, "rgb(r,g,b)"]，与常见前端图表库的 colorscale 写法一致
func (s Stop) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Pos, fmt.Sprintf("rgb(%d,%d,%d)", s.Color.R, s.Color.G, s.Color.B)})
}

// ColorScale：按 Pos 升序排列的锚点
type ColorScale []Stop

// YlGn：ColorBrewer 九级黄绿顺序色阶
var YlGn = ColorScale{
	{0.000, color.RGBA{255, 255, 229, 255}},
	{0.125, color.RGBA{247, 252, 185, 255}},
	{0.250, color.RGBA{217, 240, 163, 255}},
	{0.375, color.RGBA{173, 221, 142, 255}},
	{0.500, color.RGBA{120, 198, 121, 255}},
	{0.625, color.RGBA{65, 171, 93, 255}},
	{0.750, color.RGBA{35, 132, 67, 255}},
	{0.875, color.RGBA{0, 104, 55, 255}},
	{1.000, color.RGBA{0, 69, 41, 255}},
}

// At：线性插值取色；t 超出 [0,1] 时截断，NaN 视为 0
func (cs ColorScale) At(t float64) color.RGBA {
	if len(cs) == 0 {
		return color.RGBA{A: 255}
	}
	if math.IsNaN(t) || t <= cs[0].Pos {
		return cs[0].Color
	}
	last := cs[len(cs)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 1; i < len(cs); i++ {
		hi := cs[i]
		if t > hi.Pos {
			continue
		}
		lo := cs[i-1]
		f := (t - lo.Pos) / (hi.Pos - lo.Pos)
		return color.RGBA{
			R: lerp(lo.Color.R, hi.Color.R, f),
			G: lerp(lo.Color.G, hi.Color.G, f),
			B: lerp(lo.Color.B, hi.Color.B, f),
			A: lerp(lo.Color.A, hi.Color.A, f),
		}
	}
	return last.Color
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// Hex：#rrggbb
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
