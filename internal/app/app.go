// Package app wires configuration into a ready-to-use picking session.
package app

import (
	"context"
	"fmt"
	"math"

	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/internal/config"
	"github.com/philipparndt/gopick/internal/logger"
	"github.com/philipparndt/gopick/internal/scene"
	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/mesh"
	"github.com/philipparndt/gopick/pkg/openscad"
	"github.com/philipparndt/gopick/pkg/pick"
	"github.com/philipparndt/gopick/pkg/viewer"
	"go.uber.org/zap"
)

// App holds the components built from one configuration
type App struct {
	Config     *config.Config
	Loader     *mesh.Loader
	Controller *scene.Controller
	Session    *scene.Session

	log     *zap.Logger
	watch   *watchState
	cancels []context.CancelFunc
}

// New builds the store, default mesh, controller, loader and session described by cfg.
// view may be nil, in which case a static view fitted to the default mesh is used.
func New(cfg *config.Config, view scene.ViewProvider) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	gesture, err := scene.ParseGesture(cfg.Annotation.ConfirmGesture)
	if err != nil {
		return nil, err
	}

	defaultMesh, err := mesh.Builtin(cfg.Mesh.Default)
	if err != nil {
		return nil, err
	}

	store := annotation.NewStore(
		annotation.WithUnitScale(cfg.Annotation.UnitScale),
		annotation.WithUnitLabel(cfg.Annotation.UnitLabel),
	)

	controller := scene.NewController(defaultMesh, store,
		scene.WithLogger(logger.Named("scene")),
		scene.WithAllowReset(cfg.Mesh.AllowReset),
		scene.WithIndexOptions(
			bvh.WithMaxLeafTriangles(cfg.Index.MaxLeafTriangles),
			bvh.WithMaxDepth(cfg.Index.MaxDepth),
		),
	)

	loader := mesh.NewLoader(
		mesh.WithOpenSCAD(openscad.NewRenderer("",
			openscad.WithBinary(cfg.Mesh.OpenSCAD),
			openscad.WithLogger(logger.Named("openscad")),
		)),
	)

	if view == nil {
		view = StaticView(cfg, defaultMesh)
	}

	session := scene.NewSession(controller, view,
		scene.WithConfirmGesture(gesture),
		scene.WithSessionLogger(logger.Named("session")),
	)

	return &App{
		Config:     cfg,
		Loader:     loader,
		Controller: controller,
		Session:    session,
		log:        logger.Named("app"),
	}, nil
}

// Camera returns an orbit camera looking at m from the configured distance
func Camera(cfg *config.Config, m *mesh.Mesh) *viewer.OrbitCamera {
	fov := cfg.Camera.FovDegrees * math.Pi / 180
	bbox := m.BoundingBox()
	if bbox.IsEmpty() {
		return viewer.NewOrbitCamera(bbox.Center(), cfg.Camera.Distance, fov, cfg.Camera.Near, cfg.Camera.Far)
	}
	size := bbox.Size()
	distance := math.Max(cfg.Camera.Distance, math.Max(size.X, math.Max(size.Y, size.Z))*2)
	return viewer.NewOrbitCamera(bbox.Center(), distance, fov, cfg.Camera.Near, cfg.Camera.Far)
}

// StaticView returns the configured viewport with a camera fitted to m
func StaticView(cfg *config.Config, m *mesh.Mesh) scene.StaticView {
	vp := pick.NewViewport(float64(cfg.Viewport.Width), float64(cfg.Viewport.Height))
	return scene.StaticView{
		Viewport: vp,
		Camera:   Camera(cfg, m).Transform(vp),
	}
}

// Open starts loading the file at path. The swap happens on the next Poll or Wait.
func (a *App) Open(ctx context.Context, path string) {
	a.log.Info("Loading mesh", zap.String("path", path))
	a.Session.Load(ctx, a.Loader, mesh.FileSource(path))
}

// OpenAndWait loads the file at path and applies it before returning
func (a *App) OpenAndWait(ctx context.Context, path string) error {
	a.Open(ctx, path)
	return a.Session.Wait(ctx)
}

// Close stops the file watcher and any background work started by the app
func (a *App) Close() error {
	for _, cancel := range a.cancels {
		cancel()
	}
	a.cancels = nil

	if a.watch == nil {
		return nil
	}
	err := a.watch.watcher.Close()
	a.watch = nil
	return err
}
