package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"agrimap/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../geo/testdata/delegations.geojson"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AGRIMAP_CONFIG", "GEOJSON_URL", "GOVERNORATES", "SYNTH_SEED", "GEOJSON_REGION_KEY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuild_JSONToStdout(t *testing.T) {
	clearEnv(t)
	out, err := run(t, "build", "--input", fixture)
	require.NoError(t, err)

	var doc struct {
		IsEmpty     bool  `json:"is_empty"`
		ColorDomain []int `json:"color_domain"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.False(t, doc.IsEmpty)
	assert.Equal(t, []int{73, 3482}, doc.ColorDomain)
}

func TestBuild_WritesFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	jp := filepath.Join(dir, "spec.json")
	pp := filepath.Join(dir, "map.png")
	xp := filepath.Join(dir, "attrs.xlsx")

	out, err := run(t, "build", "-i", fixture, "--json", jp, "--png", pp, "--xlsx", xp, "--width", "200", "--height", "150")
	require.NoError(t, err)
	assert.Empty(t, out)

	for _, p := range []string{jp, pp, xp} {
		st, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, st.Size(), p)
	}
}

func TestBuild_FlagsOverrideConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("SYNTH_SEED", "7")
	out, err := run(t, "build", "--input", fixture, "--governorates", "Ariana,Béja", "--seed", "42")
	require.NoError(t, err)

	var doc struct {
		HoverData []struct {
			Title string `json:"title"`
		} `json:"hover_data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.HoverData, 2)
	assert.Equal(t, "Béja", doc.HoverData[0].Title)
	assert.Equal(t, "Ariana", doc.HoverData[1].Title)
}

func TestBuild_MissingInput(t *testing.T) {
	clearEnv(t)
	_, err := run(t, "build", "--input", filepath.Join(t.TempDir(), "none.geojson"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, geo.ErrSourceUnavailable))
}
