package geometry

import "errors"

// ErrZeroDirection is returned when a ray is constructed from a zero-length direction
var ErrZeroDirection = errors.New("ray direction must be non-zero")

// Ray is a half-line with an origin and a unit-length direction
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vector3) (Ray, error) {
	if direction.Length() == 0 {
		return Ray{}, ErrZeroDirection
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}, nil
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
