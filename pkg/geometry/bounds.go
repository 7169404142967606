package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates a new, empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// Union expands the bounding box to include another box
func (b *BoundingBox) Union(other BoundingBox) {
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// IsEmpty reports whether nothing has been added to the box
func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return Vector3{
		X: (b.Min.X + b.Max.X) / 2.0,
		Y: (b.Min.Y + b.Max.Y) / 2.0,
		Z: (b.Min.Z + b.Max.Z) / 2.0,
	}
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the largest extent
func (b BoundingBox) LongestAxis() int {
	size := b.Size()
	axis := 0
	if size.Y > size.X && size.Y >= size.Z {
		axis = 1
	} else if size.Z > size.X && size.Z > size.Y {
		axis = 2
	}
	return axis
}

// IntersectRay tests the ray against the box with the slab method.
// It returns the distance at which the ray enters the box, clamped to 0 when the
// origin is inside, and whether that entry lies within [0, maxDist].
func (b BoundingBox) IntersectRay(ray Ray, maxDist float64) (float64, bool) {
	tmin := 0.0
	tmax := maxDist

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		dir := ray.Direction.Axis(axis)
		lo := b.Min.Axis(axis)
		hi := b.Max.Axis(axis)

		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - origin) / dir
		t2 := (hi - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}

	return tmin, true
}
