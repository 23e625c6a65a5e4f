// 包 synth：为每个要素确定性地合成农业属性（模拟数据）
package synth

import "agrimap/internal/geo"

// IntSource：闭区间均匀整数抽样
type IntSource interface {
	IntRange(lo, hi int) int
}

// Range：闭区间
type Range struct{ Min, Max int }

func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Bounds：四个属性的取值区间
type Bounds struct {
	Cereal     Range
	Variety    Range
	Area       Range
	Production Range
}

var DefaultBounds = Bounds{
	Cereal:     Range{1, 4},
	Variety:    Range{1, 12},
	Area:       Range{10, 100},
	Production: Range{20, 5000},
}

// Attributes：与要素一一对应的合成属性
type Attributes struct {
	CerealCode  int    `json:"cereal_code"`
	VarietyCode int    `json:"variety_code"`
	Area        int    `json:"area"`
	Production  int    `json:"production"`
	Cereal      Cereal `json:"cereal_label"`
}

// Synthesize：使用 DefaultBounds 生成属性
func Synthesize(features []geo.Feature, src IntSource) []Attributes {
	return SynthesizeBounds(len(features), src, DefaultBounds)
}

// SynthesizeSeeded：为本次调用新建一个以 seed 播种的生成器
func SynthesizeSeeded(features []geo.Feature, seed int64) []Attributes {
	return Synthesize(features, NewPython(seed))
}

// SynthesizeBounds：按四轮顺序抽样：先全部谷物代码，再全部品种代码，再全部面积，最后全部产量
// 约束：抽样顺序决定全部结果，调整顺序即使种子不变也会改变每个值；输出顺序与输入一致
func SynthesizeBounds(n int, src IntSource, b Bounds) []Attributes {
	out := make([]Attributes, n)
	for i := range out {
		out[i].CerealCode = src.IntRange(b.Cereal.Min, b.Cereal.Max)
	}
	for i := range out {
		out[i].VarietyCode = src.IntRange(b.Variety.Min, b.Variety.Max)
	}
	for i := range out {
		out[i].Area = src.IntRange(b.Area.Min, b.Area.Max)
	}
	for i := range out {
		out[i].Production = src.IntRange(b.Production.Min, b.Production.Max)
	}
	for i := range out {
		out[i].Cereal = CerealFromCode(out[i].CerealCode)
	}
	return out
}
