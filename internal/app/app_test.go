package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/gopick/internal/config"
	"github.com/philipparndt/gopick/internal/scene"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/mesh"
	"github.com/philipparndt/gopick/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSTL(t *testing.T, path string, m *mesh.Mesh) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, stl.WriteBinary(f, &stl.Model{Name: m.Name, Triangles: m.Triangles}))
}

func TestNewFromDefaults(t *testing.T) {
	a, err := New(config.Default(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, scene.StateDefault, a.Controller.State())
	assert.Equal(t, 12, a.Controller.Mesh().TriangleCount())

	// The fitted view looks straight at the cube front face
	p, ok, err := a.Session.PointerDoubleTap(400, 300)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, p.Position.ApproxEqual(geometry.NewVector3(0, 0, 1), 1e-6))
	assert.InDelta(t, 10.0, p.Display.Z, 1e-5)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Annotation.UnitScale = 0
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestNewHonoursConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mesh.Default = mesh.BuiltinCubeOnPlane
	cfg.Annotation.ConfirmGesture = "single"
	cfg.Annotation.UnitScale = 1
	cfg.Annotation.UnitLabel = "mm"

	a, err := New(cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, 14, a.Controller.Mesh().TriangleCount())

	_, ok, err := a.Session.PointerDoubleTap(400, 300)
	require.NoError(t, err)
	assert.False(t, ok)

	p, ok, err := a.Session.PointerTap(400, 300)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, p.Position.Z, p.Display.Z, 1e-9)
	assert.Equal(t, "mm", a.Session.Snapshot().UnitLabel)
}

func TestOpenAndWaitSwapsMesh(t *testing.T) {
	a, err := New(config.Default(), nil)
	require.NoError(t, err)

	_, ok, err := a.Session.PointerDoubleTap(400, 300)
	require.NoError(t, err)
	require.True(t, ok)

	path := filepath.Join(t.TempDir(), "part.stl")
	writeSTL(t, path, mesh.Cube(1))

	require.NoError(t, a.OpenAndWait(context.Background(), path))
	assert.Equal(t, scene.StateLoaded, a.Controller.State())
	assert.Equal(t, 0, a.Controller.Store().Len())
}

func TestOpenMissingFileReportsFailure(t *testing.T) {
	a, err := New(config.Default(), nil)
	require.NoError(t, err)

	err = a.OpenAndWait(context.Background(), filepath.Join(t.TempDir(), "missing.stl"))
	assert.ErrorIs(t, err, scene.ErrModelLoadFailed)
	assert.Equal(t, scene.StateDefault, a.Controller.State())
}

func TestWatchFiles(t *testing.T) {
	a, err := New(config.Default(), nil)
	require.NoError(t, err)

	files, err := a.WatchFiles("part.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"part.stl"}, files)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.scad"), []byte("module m() {}\n"), 0o644))
	main := filepath.Join(dir, "main.scad")
	require.NoError(t, os.WriteFile(main, []byte("use <lib.scad>\nm();\n"), 0o644))

	files, err = a.WatchFiles(main)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestWatchReloadsOnChange(t *testing.T) {
	cfg := config.Default()
	cfg.Watch.Debounce = 50 * time.Millisecond

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	path := filepath.Join(t.TempDir(), "part.stl")
	writeSTL(t, path, mesh.Cube(1))

	reloaded := make(chan struct{}, 4)
	require.NoError(t, a.Watch(context.Background(), path, func() {
		reloaded <- struct{}{}
	}))
	assert.Equal(t, path, a.Watching())

	writeSTL(t, path, mesh.Cube(3))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after file change")
	}

	require.NoError(t, a.Session.Wait(context.Background()))
	assert.Equal(t, scene.StateLoaded, a.Controller.State())
	assert.InDelta(t, 3.0, a.Controller.Mesh().BoundingBox().Size().X, 1e-6)
}

func TestWatchDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Watch.Enabled = false

	a, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, a.Watch(context.Background(), "missing.stl", nil))
	assert.Equal(t, "", a.Watching())
}
