package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestNewRayNormalizes(t *testing.T) {
	ray, err := NewRay(NewVector3(1, 2, 3), NewVector3(0, 0, -10))
	if err != nil {
		t.Fatalf("NewRay failed: %v", err)
	}

	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Direction not normalized: length %v", ray.Direction.Length())
	}
	if ray.Direction != NewVector3(0, 0, -1) {
		t.Errorf("Direction failed: expected (0, 0, -1), got %v", ray.Direction)
	}
}

func TestNewRayZeroDirection(t *testing.T) {
	_, err := NewRay(Vector3{}, Vector3{})
	if !errors.Is(err, ErrZeroDirection) {
		t.Errorf("Expected ErrZeroDirection, got %v", err)
	}
}

func TestRayAt(t *testing.T) {
	ray, _ := NewRay(NewVector3(0, 0, 5), NewVector3(0, 0, -1))

	if got := ray.At(4); got != NewVector3(0, 0, 1) {
		t.Errorf("At failed: expected (0, 0, 1), got %v", got)
	}
}
