// Package annotation keeps the ordered list of confirmed surface points and the
// transient hover point for the active mesh.
package annotation

import (
	"fmt"
	"sync"

	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/geometry"
)

const (
	// DefaultUnitScale converts scene units into display units
	DefaultUnitScale = 10.0

	// DefaultUnitLabel is appended to display coordinates
	DefaultUnitLabel = "m"
)

// Point is a confirmed annotation
type Point struct {
	Index    int              // 1-based insertion order
	Position geometry.Vector3 // Surface point in scene units
	Display  geometry.Vector3 // Position multiplied by the unit scale
}

// Label returns the per-axis readout shown next to the marker
func (p Point) Label(unit string) string {
	return fmt.Sprintf("X: %.2f %s\nY: %.2f %s\nZ: %.2f %s",
		p.Display.X, unit, p.Display.Y, unit, p.Display.Z, unit)
}

// Store holds confirmed points and the hover point.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	points    []Point
	hover     *geometry.Vector3
	unitScale float64
	unitLabel string
	version   uint64
}

// Option configures a Store
type Option func(*Store)

// WithUnitScale sets the factor applied to positions for display
func WithUnitScale(scale float64) Option {
	return func(s *Store) {
		if scale > 0 {
			s.unitScale = scale
		}
	}
}

// WithUnitLabel sets the unit suffix used in labels
func WithUnitLabel(label string) Option {
	return func(s *Store) {
		s.unitLabel = label
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		unitScale: DefaultUnitScale,
		unitLabel: DefaultUnitLabel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConfirmHit appends the hit as the next point. A miss leaves the store unchanged.
func (s *Store) ConfirmHit(hit bvh.Hit, ok bool) (Point, bool) {
	if !ok {
		return Point{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Point{
		Index:    len(s.points) + 1,
		Position: hit.Point,
		Display:  hit.Point.Mul(s.unitScale),
	}
	s.points = append(s.points, p)
	s.version++
	return p, true
}

// SetHover replaces the hover point, or clears it on a miss
func (s *Store) SetHover(hit bvh.Hit, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		if s.hover != nil {
			s.hover = nil
			s.version++
		}
		return
	}

	p := hit.Point
	s.hover = &p
	s.version++
}

// Clear removes all points and the hover point
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.points) == 0 && s.hover == nil {
		return
	}
	s.points = nil
	s.hover = nil
	s.version++
}

// Len returns the number of confirmed points
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Version increases on every change; presenters can skip redraws when it is unchanged
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a consistent copy of the store
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Points:    append([]Point(nil), s.points...),
		UnitScale: s.unitScale,
		UnitLabel: s.unitLabel,
		Version:   s.version,
	}
	if s.hover != nil {
		h := *s.hover
		snap.Hover = &h
	}
	return snap
}
