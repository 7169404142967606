// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all settings.
type Config struct {
	Annotation AnnotationConfig `yaml:"annotation"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Index      IndexConfig      `yaml:"index"`
	Camera     CameraConfig     `yaml:"camera"`
	Viewport   ViewportConfig   `yaml:"viewport"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AnnotationConfig holds display and input settings for annotations.
type AnnotationConfig struct {
	UnitScale      float64 `yaml:"unit_scale"`
	UnitLabel      string  `yaml:"unit_label"`
	ConfirmGesture string  `yaml:"confirm_gesture"` // double or single
}

// MeshConfig selects the default mesh and reset behaviour.
type MeshConfig struct {
	Default    string `yaml:"default"` // cube or cube_on_plane
	AllowReset bool   `yaml:"allow_reset"`
	OpenSCAD   string `yaml:"openscad"` // openscad executable
}

// IndexConfig tunes the spatial index build.
type IndexConfig struct {
	MaxLeafTriangles int `yaml:"max_leaf_triangles"`
	MaxDepth         int `yaml:"max_depth"`
}

// CameraConfig holds the perspective camera settings.
type CameraConfig struct {
	FovDegrees float64 `yaml:"fov_degrees"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	Distance   float64 `yaml:"distance"`
}

// ViewportConfig is the size used by headless rendering and picking.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WatchConfig controls reloading of user meshes on file change.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Annotation: AnnotationConfig{
			UnitScale:      10,
			UnitLabel:      "m",
			ConfirmGesture: "double",
		},
		Mesh: MeshConfig{
			Default:    "cube",
			AllowReset: false,
			OpenSCAD:   "openscad",
		},
		Index: IndexConfig{
			MaxLeafTriangles: 4,
			MaxDepth:         64,
		},
		Camera: CameraConfig{
			FovDegrees: 50,
			Near:       0.1,
			Far:        1000,
			Distance:   5,
		},
		Viewport: ViewportConfig{
			Width:  800,
			Height: 600,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that the values can be used
func (c *Config) Validate() error {
	var errs []error

	if c.Annotation.UnitScale <= 0 {
		errs = append(errs, fmt.Errorf("annotation.unit_scale must be positive, got %g", c.Annotation.UnitScale))
	}
	switch c.Annotation.ConfirmGesture {
	case "double", "single":
	default:
		errs = append(errs, fmt.Errorf("annotation.confirm_gesture must be double or single, got %q", c.Annotation.ConfirmGesture))
	}
	switch c.Mesh.Default {
	case "cube", "cube_on_plane":
	default:
		errs = append(errs, fmt.Errorf("mesh.default must be cube or cube_on_plane, got %q", c.Mesh.Default))
	}
	if c.Index.MaxLeafTriangles < 1 {
		errs = append(errs, fmt.Errorf("index.max_leaf_triangles must be at least 1, got %d", c.Index.MaxLeafTriangles))
	}
	if c.Index.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("index.max_depth must be at least 1, got %d", c.Index.MaxDepth))
	}
	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_degrees must be in (0, 180), got %g", c.Camera.FovDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera.near must be positive and below camera.far, got %g and %g", c.Camera.Near, c.Camera.Far))
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}

	return errors.Join(errs...)
}
