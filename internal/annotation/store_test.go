package annotation

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitAt(x, y, z float64) bvh.Hit {
	return bvh.Hit{Point: geometry.NewVector3(x, y, z), Distance: 1}
}

func TestConfirmHit(t *testing.T) {
	s := NewStore()

	p, ok := s.ConfirmHit(hitAt(0, 0, 1), true)
	require.True(t, ok)

	want := Point{
		Index:    1,
		Position: geometry.NewVector3(0, 0, 1),
		Display:  geometry.NewVector3(0, 0, 10),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("ConfirmHit() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, s.Len())
}

func TestConfirmMissIsIgnored(t *testing.T) {
	s := NewStore()
	s.ConfirmHit(hitAt(1, 2, 3), true)
	before := s.Version()

	_, ok := s.ConfirmHit(bvh.Hit{}, false)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, before, s.Version())
}

func TestInsertionOrder(t *testing.T) {
	s := NewStore(WithUnitScale(2))
	for i := 0; i < 5; i++ {
		s.ConfirmHit(hitAt(float64(i), 0, 0), true)
	}

	snap := s.Snapshot()
	require.Len(t, snap.Points, 5)
	for i, p := range snap.Points {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, float64(i), p.Position.X)
		assert.Equal(t, float64(2*i), p.Display.X)
	}
}

func TestHoverIsVolatile(t *testing.T) {
	s := NewStore()
	s.ConfirmHit(hitAt(0, 0, 1), true)

	s.SetHover(hitAt(0.5, 0.5, 1), true)
	snap := s.Snapshot()
	require.NotNil(t, snap.Hover)
	assert.Equal(t, geometry.NewVector3(0.5, 0.5, 1), *snap.Hover)

	s.SetHover(hitAt(0.2, 0.2, 1), true)
	assert.Equal(t, geometry.NewVector3(0.2, 0.2, 1), *s.Snapshot().Hover)

	s.SetHover(bvh.Hit{}, false)
	assert.Nil(t, s.Snapshot().Hover)

	// Hover changes never touch confirmed points
	assert.Equal(t, 1, s.Len())
}

func TestClearIsIdempotent(t *testing.T) {
	s := NewStore()
	s.ConfirmHit(hitAt(0, 0, 1), true)
	s.SetHover(hitAt(0, 0, 1), true)

	s.Clear()
	first := s.Snapshot()
	s.Clear()
	second := s.Snapshot()

	assert.Empty(t, first.Points)
	assert.Nil(t, first.Hover)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Clear changed the store (-first +second):\n%s", diff)
	}

	// Indexes restart after a clear
	p, _ := s.ConfirmHit(hitAt(1, 1, 1), true)
	assert.Equal(t, 1, p.Index)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.ConfirmHit(hitAt(0, 0, 1), true)
	s.SetHover(hitAt(0, 1, 1), true)

	snap := s.Snapshot()
	snap.Points[0].Position = geometry.NewVector3(9, 9, 9)
	snap.Hover.X = 9

	fresh := s.Snapshot()
	assert.Equal(t, geometry.NewVector3(0, 0, 1), fresh.Points[0].Position)
	assert.Equal(t, geometry.NewVector3(0, 1, 1), *fresh.Hover)
}

func TestSegmentsAndPreview(t *testing.T) {
	s := NewStore()

	_, ok := s.Snapshot().Preview()
	assert.False(t, ok)

	s.ConfirmHit(hitAt(0, 0, 0), true)
	assert.Empty(t, s.Snapshot().Segments())

	s.SetHover(hitAt(0, 0, 3), true)
	preview, ok := s.Snapshot().Preview()
	require.True(t, ok)
	assert.Equal(t, 3.0, preview.Length())

	s.ConfirmHit(hitAt(3, 0, 0), true)
	s.ConfirmHit(hitAt(3, 4, 0), true)
	snap := s.Snapshot()

	want := []Segment{
		{From: geometry.NewVector3(0, 0, 0), To: geometry.NewVector3(3, 0, 0)},
		{From: geometry.NewVector3(3, 0, 0), To: geometry.NewVector3(3, 4, 0)},
	}
	if diff := cmp.Diff(want, snap.Segments()); diff != "" {
		t.Errorf("Segments() mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 70.0, snap.PathLength(), 1e-9)
}

func TestLabel(t *testing.T) {
	s := NewStore()
	p, _ := s.ConfirmHit(hitAt(0.1234, -0.5, 1), true)

	assert.Equal(t, "X: 1.23 m\nY: -5.00 m\nZ: 10.00 m", s.Snapshot().Label(p))
	assert.Equal(t, "X: 1.23 mm\nY: -5.00 mm\nZ: 10.00 mm", p.Label("mm"))
}

func TestOptions(t *testing.T) {
	s := NewStore(WithUnitScale(0), WithUnitLabel("cm"))
	snap := s.Snapshot()
	assert.Equal(t, DefaultUnitScale, snap.UnitScale)
	assert.Equal(t, "cm", snap.UnitLabel)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.ConfirmHit(hitAt(1, 1, 1), true)
				s.SetHover(hitAt(0, 0, 0), j%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				snap := s.Snapshot()
				for k, p := range snap.Points {
					if p.Index != k+1 {
						t.Errorf("point %d has index %d", k, p.Index)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, s.Len())
}
