// Package pick turns pointer positions into world-space rays and resolves them
// against one or more indexed meshes.
package pick

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gopick/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidViewport is returned for a viewport with zero or negative area.
	// Callers skip picking for the frame.
	ErrInvalidViewport = errors.New("viewport width and height must be positive")

	// ErrSingularTransform is returned when the camera transform cannot be inverted
	ErrSingularTransform = errors.New("camera transform is not invertible")
)

// Viewport is the pixel rectangle the scene is drawn into.
// Pointer coordinates are measured in the same space as Left/Top.
type Viewport struct {
	Left, Top     float64
	Width, Height float64
}

// NewViewport creates a viewport anchored at the origin
func NewViewport(width, height float64) Viewport {
	return Viewport{Width: width, Height: height}
}

// Valid reports whether the viewport has a positive area
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// Aspect returns width / height
func (v Viewport) Aspect() float64 {
	return v.Width / v.Height
}

// CameraTransform is the read-only camera state needed to build rays
type CameraTransform struct {
	Position   geometry.Vector3
	View       Matrix4
	Projection Matrix4
}

// NewCameraTransform builds a perspective camera transform.
// fovY is in radians.
func NewCameraTransform(position, target, up geometry.Vector3, fovY, aspect, near, far float64) CameraTransform {
	return CameraTransform{
		Position:   position,
		View:       LookAt(position, target, up),
		Projection: Perspective(fovY, aspect, near, far),
	}
}

// BuildRay converts pointer coordinates into a world-space ray.
//
// The pointer is mapped to normalized device coordinates in [-1, 1] with Y flipped,
// then the near and far plane points are un-projected through the inverse
// view-projection matrix. The ray starts on the near plane.
func BuildRay(pointerX, pointerY float64, vp Viewport, cam CameraTransform) (geometry.Ray, error) {
	if !vp.Valid() {
		return geometry.Ray{}, fmt.Errorf("%w: %.0fx%.0f", ErrInvalidViewport, vp.Width, vp.Height)
	}

	ndcX := 2.0*(pointerX-vp.Left)/vp.Width - 1.0
	ndcY := 1.0 - 2.0*(pointerY-vp.Top)/vp.Height

	var inv mat.Dense
	if err := inv.Inverse(cam.Projection.Mul(cam.View).dense()); err != nil {
		return geometry.Ray{}, fmt.Errorf("%w: %v", ErrSingularTransform, err)
	}

	near, ok := unproject(&inv, ndcX, ndcY, -1)
	if !ok {
		return geometry.Ray{}, ErrSingularTransform
	}
	far, ok := unproject(&inv, ndcX, ndcY, 1)
	if !ok {
		return geometry.Ray{}, ErrSingularTransform
	}

	ray, err := geometry.NewRay(near, far.Sub(near))
	if err != nil {
		return geometry.Ray{}, fmt.Errorf("%w: %v", ErrSingularTransform, err)
	}
	return ray, nil
}

// unproject maps a clip-space point back to world space with a perspective divide
func unproject(inv *mat.Dense, x, y, z float64) (geometry.Vector3, bool) {
	var out mat.VecDense
	out.MulVec(inv, mat.NewVecDense(4, []float64{x, y, z, 1}))

	w := out.AtVec(3)
	if w == 0 {
		return geometry.Vector3{}, false
	}
	return geometry.NewVector3(out.AtVec(0)/w, out.AtVec(1)/w, out.AtVec(2)/w), true
}
