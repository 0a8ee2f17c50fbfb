package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/ledviz/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every load or validation failure.
var ErrInvalidConfig = errors.New("invalid render config")

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// RenderConfig controls figure geometry and output resolution.
// Fields are pointers so a partial file only overrides what it names;
// the Get* methods supply defaults for everything else.
type RenderConfig struct {
	// Output resolution
	DPI       *float64 `json:"dpi,omitempty" yaml:"dpi,omitempty"`
	ScreenDPI *float64 `json:"screen_dpi,omitempty" yaml:"screen_dpi,omitempty"`

	// Figure sizes in inches
	Width3DIn           *float64 `json:"width_3d_in,omitempty" yaml:"width_3d_in,omitempty"`
	Height3DIn          *float64 `json:"height_3d_in,omitempty" yaml:"height_3d_in,omitempty"`
	WidthProjectionsIn  *float64 `json:"width_projections_in,omitempty" yaml:"width_projections_in,omitempty"`
	HeightProjectionsIn *float64 `json:"height_projections_in,omitempty" yaml:"height_projections_in,omitempty"`

	// 3D camera
	ViewElevationDeg *float64 `json:"view_elevation_deg,omitempty" yaml:"view_elevation_deg,omitempty"`
	ViewAzimuthDeg   *float64 `json:"view_azimuth_deg,omitempty" yaml:"view_azimuth_deg,omitempty"`

	// Overlay and statistics
	ConePoints     *int     `json:"cone_points,omitempty" yaml:"cone_points,omitempty"`
	HighConfidence *float64 `json:"high_confidence,omitempty" yaml:"high_confidence,omitempty"`

	// StrictCounts makes declared-count mismatches fatal.
	StrictCounts *bool `json:"strict_counts,omitempty" yaml:"strict_counts,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }

// EmptyRenderConfig returns a RenderConfig with all fields unset.
func EmptyRenderConfig() *RenderConfig {
	return &RenderConfig{}
}

// DefaultRenderConfig returns a config with every field populated with its default.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		DPI:                 ptrFloat64(300),
		ScreenDPI:           ptrFloat64(96),
		Width3DIn:           ptrFloat64(12),
		Height3DIn:          ptrFloat64(10),
		WidthProjectionsIn:  ptrFloat64(15),
		HeightProjectionsIn: ptrFloat64(5),
		ViewElevationDeg:    ptrFloat64(30),
		ViewAzimuthDeg:      ptrFloat64(-60),
		ConePoints:          ptrInt(50),
		HighConfidence:      ptrFloat64(0.8),
		StrictCounts:        ptrBool(false),
	}
}

// LoadRenderConfig loads a RenderConfig from a .json, .yaml or .yml file.
// Fields omitted from the file keep their defaults.
func LoadRenderConfig(fsys fsutil.FileSystem, path string) (*RenderConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: config file must have .json, .yaml or .yml extension, got %q", ErrInvalidConfig, ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("%w: config file too large: %d bytes (max %d)", ErrInvalidConfig, info.Size(), maxConfigSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRenderConfig()
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config JSON: %v", ErrInvalidConfig, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty YAML document decodes to io.EOF; treat it as "no overrides".
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: failed to parse config YAML: %v", ErrInvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *RenderConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"dpi", c.DPI},
		{"screen_dpi", c.ScreenDPI},
		{"width_3d_in", c.Width3DIn},
		{"height_3d_in", c.Height3DIn},
		{"width_projections_in", c.WidthProjectionsIn},
		{"height_projections_in", c.HeightProjectionsIn},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, p.name, *p.v)
		}
	}

	if c.ViewElevationDeg != nil {
		if *c.ViewElevationDeg < -90 || *c.ViewElevationDeg > 90 {
			return fmt.Errorf("%w: view_elevation_deg must be between -90 and 90, got %g", ErrInvalidConfig, *c.ViewElevationDeg)
		}
	}

	if c.HighConfidence != nil {
		if *c.HighConfidence < 0 || *c.HighConfidence > 1 {
			return fmt.Errorf("%w: high_confidence must be between 0 and 1, got %g", ErrInvalidConfig, *c.HighConfidence)
		}
	}

	if c.ConePoints != nil && *c.ConePoints < 0 {
		return fmt.Errorf("%w: cone_points must be non-negative, got %d", ErrInvalidConfig, *c.ConePoints)
	}

	return nil
}

// GetDPI returns the raster save resolution.
func (c *RenderConfig) GetDPI() float64 {
	if c.DPI == nil {
		return 300
	}
	return *c.DPI
}

// GetScreenDPI returns the resolution used for the display window.
func (c *RenderConfig) GetScreenDPI() float64 {
	if c.ScreenDPI == nil {
		return 96
	}
	return *c.ScreenDPI
}

// Get3DSize returns the 3D figure width and height in inches.
func (c *RenderConfig) Get3DSize() (width, height float64) {
	width, height = 12, 10
	if c.Width3DIn != nil {
		width = *c.Width3DIn
	}
	if c.Height3DIn != nil {
		height = *c.Height3DIn
	}
	return width, height
}

// GetProjectionsSize returns the projection figure width and height in inches.
func (c *RenderConfig) GetProjectionsSize() (width, height float64) {
	width, height = 15, 5
	if c.WidthProjectionsIn != nil {
		width = *c.WidthProjectionsIn
	}
	if c.HeightProjectionsIn != nil {
		height = *c.HeightProjectionsIn
	}
	return width, height
}

// GetViewElevationDeg returns the 3D camera elevation.
func (c *RenderConfig) GetViewElevationDeg() float64 {
	if c.ViewElevationDeg == nil {
		return 30
	}
	return *c.ViewElevationDeg
}

// GetViewAzimuthDeg returns the 3D camera azimuth.
func (c *RenderConfig) GetViewAzimuthDeg() float64 {
	if c.ViewAzimuthDeg == nil {
		return -60
	}
	return *c.ViewAzimuthDeg
}

// GetConePoints returns the cone outline sample count.
func (c *RenderConfig) GetConePoints() int {
	if c.ConePoints == nil || *c.ConePoints == 0 {
		return 50
	}
	return *c.ConePoints
}

// GetHighConfidence returns the high-confidence threshold used by the report.
func (c *RenderConfig) GetHighConfidence() float64 {
	if c.HighConfidence == nil {
		return 0.8
	}
	return *c.HighConfidence
}

// GetStrictCounts returns the strict_counts value or the default.
func (c *RenderConfig) GetStrictCounts() bool {
	if c.StrictCounts == nil {
		return false
	}
	return *c.StrictCounts
}
