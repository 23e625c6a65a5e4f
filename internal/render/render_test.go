package render

import (
	"bytes"
	"image/png"
	"testing"

	"agrimap/internal/choropleth"
	"agrimap/internal/geo"
	"agrimap/internal/synth"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSpec() *choropleth.Spec {
	sq := func(x, y float64) orb.Polygon {
		return orb.Polygon{orb.Ring{{x, y}, {x + 0.1, y}, {x + 0.1, y + 0.1}, {x, y + 0.1}, {x, y}}}
	}
	entries := []choropleth.Entry{
		{Feature: geo.Feature{RegionName: "Ariana", Geometry: sq(10.1, 36.9)}, Attributes: synth.Attributes{CerealCode: 4, Cereal: synth.CerealOr, VarietyCode: 9, Area: 45, Production: 857}},
		{Feature: geo.Feature{RegionName: "Bizerte", Geometry: orb.MultiPolygon{sq(9.6, 37.2), sq(9.9, 37.3)}}, Attributes: synth.Attributes{CerealCode: 1, Cereal: synth.CerealBD, VarietyCode: 1, Area: 93, Production: 1327}},
	}
	return choropleth.NewBuilder(choropleth.DefaultOptions()).Build(entries)
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, sampleSpec(), 400, 300))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestPNG_EmptySpec(t *testing.T) {
	s := choropleth.NewBuilder(choropleth.DefaultOptions()).Build(nil)
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, s, 200, 200))
	_, err := png.Decode(&buf)
	require.NoError(t, err)
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleSpec()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(attributesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, attributeHeader, rows[0])
	assert.Equal(t, []string{"Ariana", "4", "Or", "9", "45", "857"}, rows[1])
	assert.Equal(t, []string{"Bizerte", "1", "BD", "1", "93", "1327"}, rows[2])
}

func TestXLSX_EmptySpecHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, choropleth.NewBuilder(choropleth.DefaultOptions()).Build(nil)))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(attributesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#0a45ff")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x0a), c.R)
	assert.Equal(t, uint8(0x45), c.G)
	assert.Equal(t, uint8(0xff), c.B)
	_, err = parseHex("green")
	assert.Error(t, err)
}
