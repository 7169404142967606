package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/internal/scene"
	"github.com/philipparndt/gopick/pkg/pick"
	"github.com/philipparndt/gopick/pkg/viewer"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrInvalidEvent is returned for script events that set zero or several actions
var ErrInvalidEvent = errors.New("event must set exactly one action")

// Pointer is a position in viewport pixels
type Pointer struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Rotation is an orbit camera rotation in radians
type Rotation struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Event is one scripted input. Exactly one field is set.
type Event struct {
	Move      *Pointer  `yaml:"move,omitempty"`
	Tap       *Pointer  `yaml:"tap,omitempty"`
	DoubleTap *Pointer  `yaml:"double_tap,omitempty"`
	Load      string    `yaml:"load,omitempty"`
	Poll      bool      `yaml:"poll,omitempty"`
	Wait      bool      `yaml:"wait,omitempty"`
	Reset     bool      `yaml:"reset,omitempty"`
	Rotate    *Rotation `yaml:"rotate,omitempty"`
	Zoom      float64   `yaml:"zoom,omitempty"`
	Fit       bool      `yaml:"fit,omitempty"`
}

func (e Event) actions() int {
	n := 0
	for _, set := range []bool{
		e.Move != nil, e.Tap != nil, e.DoubleTap != nil, e.Load != "",
		e.Poll, e.Wait, e.Reset, e.Rotate != nil, e.Zoom != 0, e.Fit,
	} {
		if set {
			n++
		}
	}
	return n
}

// Script is a recorded interaction replayed against a session
type Script struct {
	Events []Event `yaml:"events"`

	// Dir resolves relative load paths; defaults to the working directory
	Dir string `yaml:"-"`
}

// ParseScript reads a YAML script. Load paths are relative to the script file.
func ParseScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return &s, s.Validate()
}

// Validate checks every event
func (s *Script) Validate() error {
	var errs []error
	for i, e := range s.Events {
		if e.actions() != 1 {
			errs = append(errs, fmt.Errorf("event %d: %w", i+1, ErrInvalidEvent))
		}
	}
	return errors.Join(errs...)
}

// ScriptResult is the outcome of a replayed script
type ScriptResult struct {
	Snapshot   annotation.Snapshot
	Confirmed  []annotation.Point
	LoadErrors []error
	Camera     *viewer.OrbitCamera
	Viewport   pick.Viewport
}

// RunScript replays the events in order. Pending loads are applied at the end.
// Load failures are collected in the result, other errors abort the run.
func (a *App) RunScript(ctx context.Context, s *Script) (*ScriptResult, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	vp := pick.NewViewport(float64(a.Config.Viewport.Width), float64(a.Config.Viewport.Height))
	result := &ScriptResult{
		Camera:   Camera(a.Config, a.Controller.Mesh()),
		Viewport: vp,
	}
	updateView := func() {
		a.Session.SetView(scene.StaticView{Viewport: vp, Camera: result.Camera.Transform(vp)})
	}
	collect := func(err error) {
		if err != nil {
			a.log.Warn("Scripted load failed", zap.Error(err))
			result.LoadErrors = append(result.LoadErrors, err)
		}
	}
	updateView()

	for i, e := range s.Events {
		var err error
		switch {
		case e.Move != nil:
			err = a.Session.PointerMove(e.Move.X, e.Move.Y)
		case e.Tap != nil:
			err = a.confirm(result, a.Session.PointerTap, *e.Tap)
		case e.DoubleTap != nil:
			err = a.confirm(result, a.Session.PointerDoubleTap, *e.DoubleTap)
		case e.Load != "":
			path := e.Load
			if !filepath.IsAbs(path) && s.Dir != "" {
				path = filepath.Join(s.Dir, path)
			}
			a.Open(ctx, path)
		case e.Poll:
			collect(a.Session.Poll())
		case e.Wait:
			if werr := a.Session.Wait(ctx); werr != nil {
				if ctx.Err() != nil {
					err = werr
				} else {
					collect(werr)
				}
			}
		case e.Reset:
			err = a.Session.ResetToDefault()
		case e.Rotate != nil:
			result.Camera.Rotate(e.Rotate.X, e.Rotate.Y)
			updateView()
		case e.Zoom != 0:
			result.Camera.Zoom(e.Zoom)
			updateView()
		case e.Fit:
			result.Camera = Camera(a.Config, a.Controller.Mesh())
			updateView()
		}
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
	}

	if err := a.Session.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		collect(err)
	}

	result.Snapshot = a.Session.Snapshot()
	return result, nil
}

func (a *App) confirm(result *ScriptResult, gesture func(x, y float64) (annotation.Point, bool, error), p Pointer) error {
	point, ok, err := gesture(p.X, p.Y)
	if err != nil {
		return err
	}
	if ok {
		result.Confirmed = append(result.Confirmed, point)
	}
	return nil
}
