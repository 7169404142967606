package viewer

import (
	"math"

	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/pick"
)

// OrbitCamera orbits a target point at a given distance
type OrbitCamera struct {
	Position  geometry.Vector3
	Target    geometry.Vector3
	Up        geometry.Vector3
	FOV       float64 // Vertical field of view in radians
	Near      float64
	Far       float64
	Distance  float64
	RotationX float64 // Rotation around X axis (vertical)
	RotationY float64 // Rotation around Y axis (horizontal)
}

// NewOrbitCamera creates a camera on the +Z axis looking at target
func NewOrbitCamera(target geometry.Vector3, distance, fov, near, far float64) *OrbitCamera {
	c := &OrbitCamera{
		Target:   target,
		Up:       geometry.NewVector3(0, 1, 0),
		FOV:      fov,
		Near:     near,
		Far:      far,
		Distance: distance,
	}
	c.UpdatePosition()
	return c
}

// FitCamera creates a camera positioned to view a bounding box
func FitCamera(bbox geometry.BoundingBox, fov, near, far float64) *OrbitCamera {
	size := bbox.Size()
	distance := math.Max(size.X, math.Max(size.Y, size.Z)) * 2.0
	if distance <= 0 {
		distance = 5
	}
	return NewOrbitCamera(bbox.Center(), distance, fov, near, far)
}

// UpdatePosition updates camera position based on rotation angles
func (c *OrbitCamera) UpdatePosition() {
	x := c.Distance * math.Cos(c.RotationX) * math.Sin(c.RotationY)
	y := c.Distance * math.Sin(c.RotationX)
	z := c.Distance * math.Cos(c.RotationX) * math.Cos(c.RotationY)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *OrbitCamera) Rotate(deltaX, deltaY float64) {
	c.RotationX += deltaX
	c.RotationY += deltaY

	// Clamp X rotation to prevent gimbal lock
	maxAngle := math.Pi/2 - 0.1
	c.RotationX = math.Max(-maxAngle, math.Min(maxAngle, c.RotationX))

	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *OrbitCamera) Zoom(delta float64) {
	c.Distance *= 1.0 + delta
	if c.Distance < c.Near*2 {
		c.Distance = c.Near * 2
	}
	c.UpdatePosition()
}

// Transform returns the view and projection for a viewport
func (c *OrbitCamera) Transform(vp pick.Viewport) pick.CameraTransform {
	aspect := 1.0
	if vp.Valid() {
		aspect = vp.Aspect()
	}
	return pick.NewCameraTransform(c.Position, c.Target, c.Up, c.FOV, aspect, c.Near, c.Far)
}

// Project projects a 3D point to screen coordinates in the viewport
func (c *OrbitCamera) Project(point geometry.Vector3, vp pick.Viewport) (x, y float64, ok bool) {
	x, y, _, ok = pick.Project(point, vp, c.Transform(vp))
	return x, y, ok
}
