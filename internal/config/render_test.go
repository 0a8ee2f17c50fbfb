package config

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/banshee-data/ledviz/internal/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderConfig(t *testing.T) {
	cfg := DefaultRenderConfig()

	if cfg.DPI == nil || *cfg.DPI != 300 {
		t.Errorf("Expected DPI 300, got %v", cfg.DPI)
	}
	if cfg.ConePoints == nil || *cfg.ConePoints != 50 {
		t.Errorf("Expected ConePoints 50, got %v", cfg.ConePoints)
	}
	if cfg.StrictCounts == nil || *cfg.StrictCounts {
		t.Errorf("Expected StrictCounts false, got %v", cfg.StrictCounts)
	}
	require.NoError(t, cfg.Validate())

	// Defaults and empty config must agree through the getters.
	empty := EmptyRenderConfig()
	assert.Equal(t, cfg.GetDPI(), empty.GetDPI())
	assert.Equal(t, cfg.GetScreenDPI(), empty.GetScreenDPI())
	assert.Equal(t, cfg.GetViewElevationDeg(), empty.GetViewElevationDeg())
	assert.Equal(t, cfg.GetViewAzimuthDeg(), empty.GetViewAzimuthDeg())
	assert.Equal(t, cfg.GetConePoints(), empty.GetConePoints())
	assert.Equal(t, cfg.GetHighConfidence(), empty.GetHighConfidence())
	assert.Equal(t, cfg.GetStrictCounts(), empty.GetStrictCounts())

	w, h := empty.Get3DSize()
	assert.Equal(t, 12.0, w)
	assert.Equal(t, 10.0, h)
	w, h = empty.GetProjectionsSize()
	assert.Equal(t, 15.0, w)
	assert.Equal(t, 5.0, h)
}

func TestLoadRenderConfig_JSON(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/render.json", []byte(`{
  "dpi": 150,
  "view_azimuth_deg": 45,
  "cone_points": 80,
  "strict_counts": true
}`), 0644))

	cfg, err := LoadRenderConfig(mfs, "/render.json")
	require.NoError(t, err)

	assert.Equal(t, 150.0, cfg.GetDPI())
	assert.Equal(t, 45.0, cfg.GetViewAzimuthDeg())
	assert.Equal(t, 80, cfg.GetConePoints())
	assert.True(t, cfg.GetStrictCounts())

	// Unset fields keep defaults.
	assert.Equal(t, 30.0, cfg.GetViewElevationDeg())
	assert.Equal(t, 0.8, cfg.GetHighConfidence())
}

func TestLoadRenderConfig_YAML(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/render.yaml", []byte("screen_dpi: 72\nhigh_confidence: 0.9\nwidth_3d_in: 8\n"), 0644))

	cfg, err := LoadRenderConfig(mfs, "/render.yaml")
	require.NoError(t, err)

	assert.Equal(t, 72.0, cfg.GetScreenDPI())
	assert.Equal(t, 0.9, cfg.GetHighConfidence())
	w, h := cfg.Get3DSize()
	assert.Equal(t, 8.0, w)
	assert.Equal(t, 10.0, h)
}

func TestLoadRenderConfig_EmptyYAML(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/render.yml", []byte("# nothing overridden\n"), 0644))

	cfg, err := LoadRenderConfig(mfs, "/render.yml")
	require.NoError(t, err)
	assert.Equal(t, 300.0, cfg.GetDPI())
}

func TestLoadRenderConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		wantErr string
	}{
		{"wrong extension", "/render.toml", "dpi = 1", "extension"},
		{"malformed json", "/bad.json", "{dpi:", "parse config JSON"},
		{"unknown json key", "/unknown.json", `{"dpii": 100}`, "parse config JSON"},
		{"malformed yaml", "/bad.yaml", "dpi: [1, 2", "parse config YAML"},
		{"negative dpi", "/neg.json", `{"dpi": -1}`, "dpi must be positive"},
		{"zero width", "/zero.json", `{"width_projections_in": 0}`, "width_projections_in must be positive"},
		{"elevation out of range", "/elev.json", `{"view_elevation_deg": 120}`, "view_elevation_deg"},
		{"threshold out of range", "/thr.yaml", "high_confidence: 1.5\n", "high_confidence"},
		{"negative cone points", "/cone.json", `{"cone_points": -4}`, "cone_points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := fsutil.NewMemoryFileSystem()
			require.NoError(t, mfs.WriteFile(tt.path, []byte(tt.content), 0644))

			_, err := LoadRenderConfig(mfs, tt.path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "expected ErrInvalidConfig, got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRenderConfig_TooLarge(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	big := `{"dpi": 100` + strings.Repeat(" ", maxConfigSize) + `}`
	require.NoError(t, mfs.WriteFile("/big.json", []byte(big), 0644))

	_, err := LoadRenderConfig(mfs, "/big.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadRenderConfig_Missing(t *testing.T) {
	_, err := LoadRenderConfig(fsutil.NewMemoryFileSystem(), "/missing.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestGetConePoints_ZeroMeansDefault(t *testing.T) {
	cfg := &RenderConfig{ConePoints: ptrInt(0)}
	if got := cfg.GetConePoints(); got != 50 {
		t.Errorf("GetConePoints() = %d, want 50", got)
	}
}
