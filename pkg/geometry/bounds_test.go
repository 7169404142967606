package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	expectedMin := NewVector3(-1, 0, 2)
	expectedMax := NewVector3(4, 5, 6)

	if bbox.Min != expectedMin {
		t.Errorf("Min failed: expected %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Max failed: expected %v, got %v", expectedMax, bbox.Max)
	}
}

func TestBoundingBoxSize(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	size := bbox.Size()
	expected := NewVector3(10, 20, 30)

	if size != expected {
		t.Errorf("Size failed: expected %v, got %v", expected, size)
	}
}

func TestBoundingBoxCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	center := bbox.Center()
	expected := NewVector3(5, 10, 15)

	if center != expected {
		t.Errorf("Center failed: expected %v, got %v", expected, center)
	}
}

func TestBoundingBoxVolume(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(2, 3, 4))

	volume := bbox.Volume()
	expected := 24.0 // 2 * 3 * 4 = 24

	if math.Abs(volume-expected) > 1e-10 {
		t.Errorf("Volume failed: expected %v, got %v", expected, volume)
	}
}

func TestBoundingBoxUnionAndEmpty(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Error("IsEmpty failed: new box should be empty")
	}

	other := NewBoundingBox()
	other.Extend(NewVector3(-1, -2, -3))
	other.Extend(NewVector3(1, 2, 3))
	bbox.Union(other)

	if bbox.IsEmpty() {
		t.Error("IsEmpty failed: box should not be empty after union")
	}
	if bbox != other {
		t.Errorf("Union failed: expected %v, got %v", other, bbox)
	}
}

func TestBoundingBoxLongestAxis(t *testing.T) {
	tests := []struct {
		max      Vector3
		expected int
	}{
		{NewVector3(5, 1, 1), 0},
		{NewVector3(1, 5, 1), 1},
		{NewVector3(1, 1, 5), 2},
		{NewVector3(2, 2, 2), 0},
	}

	for _, tt := range tests {
		bbox := BoundingBox{Min: Vector3{}, Max: tt.max}
		if got := bbox.LongestAxis(); got != tt.expected {
			t.Errorf("LongestAxis(%v) failed: expected %d, got %d", tt.max, tt.expected, got)
		}
	}
}

func TestBoundingBoxIntersectRay(t *testing.T) {
	bbox := BoundingBox{Min: NewVector3(-1, -1, -1), Max: NewVector3(1, 1, 1)}

	// Hit from the front
	ray, _ := NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, -1))
	dist, ok := bbox.IntersectRay(ray, math.Inf(1))
	if !ok || math.Abs(dist-4) > 1e-10 {
		t.Errorf("IntersectRay failed: expected hit at 4, got %v (ok=%v)", dist, ok)
	}

	// Entry beyond max distance
	if _, ok := bbox.IntersectRay(ray, 3); ok {
		t.Error("IntersectRay failed: expected no hit within max distance 3")
	}

	// Origin inside the box
	inside, _ := NewRay(Vector3{}, NewVector3(1, 0, 0))
	dist, ok = bbox.IntersectRay(inside, math.Inf(1))
	if !ok || dist != 0 {
		t.Errorf("IntersectRay failed: expected entry 0 from inside, got %v (ok=%v)", dist, ok)
	}

	// Parallel and offset
	parallel, _ := NewRay(NewVector3(0, 3, 5), NewVector3(0, 0, -1))
	if _, ok := bbox.IntersectRay(parallel, math.Inf(1)); ok {
		t.Error("IntersectRay failed: expected miss for offset parallel ray")
	}

	// Pointing away
	away, _ := NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, 1))
	if _, ok := bbox.IntersectRay(away, math.Inf(1)); ok {
		t.Error("IntersectRay failed: expected miss for ray pointing away")
	}
}
