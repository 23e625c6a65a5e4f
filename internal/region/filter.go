// 包 region：按省名白名单筛选要素
package region

import "agrimap/internal/geo"

// AllowList：省名集合，精确匹配，大小写与重音敏感
type AllowList map[string]struct{}

func NewAllowList(names ...string) AllowList {
	a := make(AllowList, len(names))
	for _, n := range names {
		a[n] = struct{}{}
	}
	return a
}

func (a AllowList) Contains(name string) bool {
	_, ok := a[name]
	return ok
}

// Filter：保留 RegionName 属于白名单的要素，保持输入相对顺序
// 约束：返回新切片，不修改输入（输入可能来自共享快照）；无命中时返回长度为 0 的非 nil 切片
func Filter(features []geo.Feature, allow AllowList) []geo.Feature {
	out := make([]geo.Feature, 0, len(features))
	for _, f := range features {
		if allow.Contains(f.RegionName) {
			out = append(out, f)
		}
	}
	return out
}

// Counts：按省统计要素数量，用于诊断日志
func Counts(features []geo.Feature) map[string]int {
	m := make(map[string]int)
	for _, f := range features {
		m[f.RegionName]++
	}
	return m
}
