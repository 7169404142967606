package scene

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/pkg/mesh"
	"github.com/philipparndt/gopick/pkg/pick"
	"go.uber.org/zap"
)

// Gesture selects which pointer event confirms a point
type Gesture int

const (
	// GestureDoubleTap confirms on double tap (double click)
	GestureDoubleTap Gesture = iota
	// GestureTap confirms on a single tap
	GestureTap
)

func (g Gesture) String() string {
	if g == GestureTap {
		return "single"
	}
	return "double"
}

// ParseGesture parses "double" or "single"
func ParseGesture(s string) (Gesture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "double", "double_tap", "dblclick":
		return GestureDoubleTap, nil
	case "single", "tap", "click":
		return GestureTap, nil
	default:
		return GestureDoubleTap, fmt.Errorf("unknown confirm gesture %q (expected double or single)", s)
	}
}

// ViewProvider supplies the current viewport and camera for picking
type ViewProvider interface {
	View() (pick.Viewport, pick.CameraTransform)
}

// StaticView is a fixed viewport and camera
type StaticView struct {
	Viewport pick.Viewport
	Camera   pick.CameraTransform
}

// View implements ViewProvider
func (v StaticView) View() (pick.Viewport, pick.CameraTransform) {
	return v.Viewport, v.Camera
}

// Session routes pointer input and load completions to the controller.
// Input methods and Poll are meant to be called from a single event loop.
type Session struct {
	controller *Controller
	view       ViewProvider
	gesture    Gesture
	log        *zap.Logger

	mu      sync.Mutex
	pending []<-chan Completion
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithConfirmGesture selects the confirming pointer event
func WithConfirmGesture(g Gesture) SessionOption {
	return func(s *Session) {
		s.gesture = g
	}
}

// WithSessionLogger sets the session logger
func WithSessionLogger(log *zap.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession creates a session over the controller and view
func NewSession(controller *Controller, view ViewProvider, opts ...SessionOption) *Session {
	s := &Session{
		controller: controller,
		view:       view,
		gesture:    GestureDoubleTap,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Controller returns the underlying controller
func (s *Session) Controller() *Controller {
	return s.controller
}

// SetView replaces the view provider
func (s *Session) SetView(view ViewProvider) {
	s.view = view
}

// PointerMove updates the hover point. An invalid viewport skips the frame
// and leaves the hover point as it was.
func (s *Session) PointerMove(x, y float64) error {
	vp, cam := s.view.View()
	return s.controller.Hover(x, y, vp, cam)
}

// PointerTap confirms a point when the single tap gesture is configured
func (s *Session) PointerTap(x, y float64) (annotation.Point, bool, error) {
	if s.gesture != GestureTap {
		return annotation.Point{}, false, nil
	}
	return s.confirm(x, y)
}

// PointerDoubleTap confirms a point when the double tap gesture is configured
func (s *Session) PointerDoubleTap(x, y float64) (annotation.Point, bool, error) {
	if s.gesture != GestureDoubleTap {
		return annotation.Point{}, false, nil
	}
	return s.confirm(x, y)
}

func (s *Session) confirm(x, y float64) (annotation.Point, bool, error) {
	vp, cam := s.view.View()
	p, ok, err := s.controller.Confirm(x, y, vp, cam)
	if err != nil {
		return annotation.Point{}, false, err
	}
	if ok {
		s.log.Debug("Point confirmed",
			zap.Int("index", p.Index),
			zap.Float64("x", p.Position.X),
			zap.Float64("y", p.Position.Y),
			zap.Float64("z", p.Position.Z))
	}
	return p, ok, nil
}

// Load starts decoding the source in the background. The result is applied by Poll or Wait.
func (s *Session) Load(ctx context.Context, loader MeshLoader, src mesh.Source) {
	ch := s.controller.LoadAsync(ctx, loader, src)

	s.mu.Lock()
	s.pending = append(s.pending, ch)
	s.mu.Unlock()
}

// Pending returns the number of loads not yet applied
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Poll applies every finished load without blocking.
// Stale completions are dropped; load failures are returned joined.
func (s *Session) Poll() error {
	s.mu.Lock()
	var ready []Completion
	remaining := s.pending[:0]
	for _, ch := range s.pending {
		select {
		case c, ok := <-ch:
			if ok {
				ready = append(ready, c)
			}
		default:
			remaining = append(remaining, ch)
		}
	}
	s.pending = remaining
	s.mu.Unlock()

	return s.apply(ready)
}

// Wait blocks until every pending load has finished and applies them in request order
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	var ready []Completion
	for i, ch := range pending {
		select {
		case c, ok := <-ch:
			if ok {
				ready = append(ready, c)
			}
		case <-ctx.Done():
			s.mu.Lock()
			s.pending = append(pending[i:], s.pending...)
			s.mu.Unlock()
			return errors.Join(ctx.Err(), s.apply(ready))
		}
	}
	return s.apply(ready)
}

func (s *Session) apply(ready []Completion) error {
	var errs []error
	for _, c := range ready {
		err := s.controller.CompleteLoad(c)
		switch {
		case err == nil, errors.Is(err, ErrStaleLoad):
		default:
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetToDefault swaps back to the default mesh if enabled
func (s *Session) ResetToDefault() error {
	return s.controller.ResetToDefault()
}

// Snapshot returns the current annotation state
func (s *Session) Snapshot() annotation.Snapshot {
	return s.controller.Store().Snapshot()
}
