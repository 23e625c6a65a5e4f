package synth

import (
	"testing"

	"agrimap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nFeatures(n int) []geo.Feature {
	return make([]geo.Feature, n)
}

func column(attrs []Attributes, get func(Attributes) int) []int {
	out := make([]int, len(attrs))
	for i, a := range attrs {
		out[i] = get(a)
	}
	return out
}

// Values below were recorded from CPython's random module:
// random.seed(42); [random.randint(1, 4) for _ in range(9)]; ...
func TestSynthesizeSeeded_ReferenceVector(t *testing.T) {
	attrs := SynthesizeSeeded(nFeatures(9), 42)
	require.Len(t, attrs, 9)
	assert.Equal(t, []int{1, 1, 3, 2, 2, 2, 1, 1, 4}, column(attrs, func(a Attributes) int { return a.CerealCode }))
	assert.Equal(t, []int{1, 1, 2, 4, 4, 9, 10, 1, 9}, column(attrs, func(a Attributes) int { return a.VarietyCode }))
	assert.Equal(t, []int{35, 93, 99, 79, 63, 38, 67, 85, 45}, column(attrs, func(a Attributes) int { return a.Area }))
	assert.Equal(t, []int{73, 1327, 3482, 2807, 2296, 1293, 1783, 2777, 857}, column(attrs, func(a Attributes) int { return a.Production }))
	labels := make([]string, len(attrs))
	for i, a := range attrs {
		labels[i] = a.Cereal.String()
	}
	assert.Equal(t, []string{"BD", "BD", "Tr", "BT", "BT", "BT", "BD", "BD", "Or"}, labels)
}

func TestSynthesizeSeeded_DependsOnBatchLength(t *testing.T) {
	attrs := SynthesizeSeeded(nFeatures(3), 42)
	assert.Equal(t, []int{1, 1, 3}, column(attrs, func(a Attributes) int { return a.CerealCode }))
	assert.Equal(t, []int{4, 4, 3}, column(attrs, func(a Attributes) int { return a.VarietyCode }))
	assert.Equal(t, []int{23, 96, 79}, column(attrs, func(a Attributes) int { return a.Area }))
	assert.Equal(t, []int{732, 4857, 3476}, column(attrs, func(a Attributes) int { return a.Production }))
}

func TestSynthesizeSeeded_LongBatchCrossesTwist(t *testing.T) {
	attrs := SynthesizeSeeded(nFeatures(1000), 42)
	last := attrs[len(attrs)-1]
	assert.Equal(t, 4, last.CerealCode)
	assert.Equal(t, 5, last.VarietyCode)
	assert.Equal(t, 41, last.Area)
	assert.Equal(t, 4827, last.Production)
	sum := 0
	for _, a := range attrs {
		sum += a.Production
	}
	assert.Equal(t, 2469511, sum)
}

func TestSynthesize_Deterministic(t *testing.T) {
	for _, n := range []int{0, 1, 9, 50} {
		a := SynthesizeSeeded(nFeatures(n), 42)
		b := SynthesizeSeeded(nFeatures(n), 42)
		assert.Equal(t, a, b, "n=%d", n)
	}
	assert.NotEqual(t, SynthesizeSeeded(nFeatures(9), 42), SynthesizeSeeded(nFeatures(9), 43))
}

func TestSynthesize_RangeBounds(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		for _, a := range SynthesizeSeeded(nFeatures(200), seed) {
			require.True(t, DefaultBounds.Cereal.Contains(a.CerealCode), "cereal %d", a.CerealCode)
			require.True(t, DefaultBounds.Variety.Contains(a.VarietyCode), "variety %d", a.VarietyCode)
			require.True(t, DefaultBounds.Area.Contains(a.Area), "area %d", a.Area)
			require.True(t, DefaultBounds.Production.Contains(a.Production), "production %d", a.Production)
			require.NotEqual(t, CerealUnknown, a.Cereal)
		}
	}
}

func TestSynthesize_EmptyBatch(t *testing.T) {
	attrs := SynthesizeSeeded(nil, 42)
	assert.NotNil(t, attrs)
	assert.Empty(t, attrs)
}

// recorder captures the draw order requested from the source.
type recorder struct{ calls []Range }

func (r *recorder) IntRange(lo, hi int) int {
	r.calls = append(r.calls, Range{lo, hi})
	return lo
}

func TestSynthesize_FourPassDrawOrder(t *testing.T) {
	rec := &recorder{}
	_ = Synthesize(nFeatures(3), rec)
	b := DefaultBounds
	want := []Range{
		b.Cereal, b.Cereal, b.Cereal,
		b.Variety, b.Variety, b.Variety,
		b.Area, b.Area, b.Area,
		b.Production, b.Production, b.Production,
	}
	assert.Equal(t, want, rec.calls)
}

func TestSynthesizeBounds_WideCerealRangeYieldsUnknown(t *testing.T) {
	b := DefaultBounds
	b.Cereal = Range{1, 6}
	attrs := SynthesizeBounds(20, NewPython(42), b)
	// random.seed(42); [random.randint(1, 6) for _ in range(20)]
	want := []int{6, 1, 1, 6, 3, 2, 2, 2, 6, 1, 6, 6, 5, 1, 5, 4, 1, 1, 1, 2}
	assert.Equal(t, want, column(attrs, func(a Attributes) int { return a.CerealCode }))
	for _, a := range attrs {
		if a.CerealCode > 4 {
			assert.Equal(t, CerealUnknown, a.Cereal)
		} else {
			assert.NotEqual(t, CerealUnknown, a.Cereal)
		}
	}
}

func TestLabel(t *testing.T) {
	want := map[int]string{1: "BD", 2: "BT", 3: "Tr", 4: "Or"}
	for code, label := range want {
		assert.Equal(t, label, Label(code))
		assert.Equal(t, label, Label(code), "label is stable across calls")
	}
	for _, code := range []int{0, -1, 5, 12, 1 << 30} {
		assert.Equal(t, "Unknown", Label(code))
	}
	b, err := CerealTr.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Tr", string(b))
}
