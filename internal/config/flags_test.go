package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) (*Flags, *pflag.FlagSet) {
	t.Helper()
	var f Flags
	fs := pflag.NewFlagSet("gopick", pflag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse(args))
	return &f, fs
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopick.yaml")
	data := `
annotation:
  unit_scale: 1000
  unit_label: mm
mesh:
  allow_reset: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	f, fs := parseFlags(t,
		"--config", path,
		"--unit-label", "cm",
		"--gesture", "single",
		"--default-mesh", "cube_on_plane",
		"--allow-reset=false",
		"--debug",
	)
	cfg, err := f.Resolve(fs)
	require.NoError(t, err)

	want := Default()
	want.Annotation.UnitScale = 1000
	want.Annotation.UnitLabel = "cm"
	want.Annotation.ConfirmGesture = "single"
	want.Mesh.Default = "cube_on_plane"
	want.Mesh.AllowReset = false
	want.Logging.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsetFlagsKeepDefaults(t *testing.T) {
	f, fs := parseFlags(t)
	cfg := Default()
	f.Apply(fs, cfg)

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Apply() changed unset values (-want +got):\n%s", diff)
	}
}

func TestResolveRejectsInvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopick.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mesh:\n  default: cube\n"), 0644))

	f, fs := parseFlags(t, "--config", path, "--gesture", "triple")
	_, err := f.Resolve(fs)
	assert.Error(t, err)
}
