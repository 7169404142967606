package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command line overrides shared by the gopick binaries
type Flags struct {
	ConfigPath  string
	Debug       bool
	UnitScale   float64
	UnitLabel   string
	Gesture     string
	DefaultMesh string
	AllowReset  bool
}

// Register adds the override flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Config file (default ./gopick.yaml or the user config dir)")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Float64Var(&f.UnitScale, "unit-scale", 0, "Display units per world unit")
	fs.StringVar(&f.UnitLabel, "unit-label", "", "Unit shown next to coordinates")
	fs.StringVar(&f.Gesture, "gesture", "", "Confirm gesture: double or single")
	fs.StringVar(&f.DefaultMesh, "default-mesh", "", "Default mesh: cube or cube_on_plane")
	fs.BoolVar(&f.AllowReset, "allow-reset", false, "Allow returning to the default mesh")
}

// Apply copies every flag that was set on the command line into c.
// Unset flags leave the file or default value in place.
func (f *Flags) Apply(fs *pflag.FlagSet, c *Config) {
	if fs.Changed("unit-scale") {
		c.Annotation.UnitScale = f.UnitScale
	}
	if fs.Changed("unit-label") {
		c.Annotation.UnitLabel = f.UnitLabel
	}
	if fs.Changed("gesture") {
		c.Annotation.ConfirmGesture = f.Gesture
	}
	if fs.Changed("default-mesh") {
		c.Mesh.Default = f.DefaultMesh
	}
	if fs.Changed("allow-reset") {
		c.Mesh.AllowReset = f.AllowReset
	}
	if f.Debug {
		c.Logging.Level = "debug"
	}
}

// Resolve loads the config file, applies the overrides and validates the result
func (f *Flags) Resolve(fs *pflag.FlagSet) (*Config, error) {
	c, err := Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.Apply(fs, c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
