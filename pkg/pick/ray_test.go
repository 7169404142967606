package pick

import (
	"math"
	"math/rand"
	"testing"

	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frontCamera(vp Viewport) CameraTransform {
	return NewCameraTransform(
		geometry.NewVector3(0, 0, 5),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(0, 1, 0),
		50*math.Pi/180, vp.Aspect(), 0.1, 1000,
	)
}

func TestMatrixMulIdentity(t *testing.T) {
	m := Perspective(1, 1.5, 0.1, 100)
	assert.Equal(t, m, m.Mul(Identity()))
	assert.Equal(t, m, Identity().Mul(m))
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := geometry.NewVector3(3, 2, 5)
	view := LookAt(eye, geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 1, 0))

	// Translation column applied to the eye must land at the origin
	x := view[0]*eye.X + view[4]*eye.Y + view[8]*eye.Z + view[12]
	y := view[1]*eye.X + view[5]*eye.Y + view[9]*eye.Z + view[13]
	z := view[2]*eye.X + view[6]*eye.Y + view[10]*eye.Z + view[14]
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 0, z, 1e-12)
}

func TestBuildRayCenter(t *testing.T) {
	vp := NewViewport(800, 600)
	ray, err := BuildRay(400, 300, vp, frontCamera(vp))
	require.NoError(t, err)

	assert.True(t, ray.Direction.ApproxEqual(geometry.NewVector3(0, 0, -1), 1e-9), "direction %v", ray.Direction)
	assert.InDelta(t, 0, ray.Origin.X, 1e-9)
	assert.InDelta(t, 0, ray.Origin.Y, 1e-9)
	assert.InDelta(t, 4.9, ray.Origin.Z, 1e-6)
}

func TestBuildRayAxes(t *testing.T) {
	vp := NewViewport(800, 600)
	cam := frontCamera(vp)

	top, err := BuildRay(400, 0, vp, cam)
	require.NoError(t, err)
	assert.Greater(t, top.Direction.Y, 0.0, "pointer at the top edge points up")

	bottom, err := BuildRay(400, 600, vp, cam)
	require.NoError(t, err)
	assert.Less(t, bottom.Direction.Y, 0.0)

	left, err := BuildRay(0, 300, vp, cam)
	require.NoError(t, err)
	assert.Less(t, left.Direction.X, 0.0)

	right, err := BuildRay(800, 300, vp, cam)
	require.NoError(t, err)
	assert.Greater(t, right.Direction.X, 0.0)
}

func TestBuildRayViewportOffset(t *testing.T) {
	vp := Viewport{Left: 100, Top: 50, Width: 800, Height: 600}
	ray, err := BuildRay(500, 350, vp, frontCamera(vp))
	require.NoError(t, err)
	assert.True(t, ray.Direction.ApproxEqual(geometry.NewVector3(0, 0, -1), 1e-9))
}

func TestBuildRayUnitDirection(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		vp := NewViewport(50+rng.Float64()*2000, 50+rng.Float64()*2000)
		eye := geometry.NewVector3(rng.Float64()*20-10, rng.Float64()*20-10, 5+rng.Float64()*20)
		cam := NewCameraTransform(eye, geometry.NewVector3(0, 0, 0), geometry.NewVector3(0, 1, 0),
			(20+rng.Float64()*90)*math.Pi/180, vp.Aspect(), 0.1, 1000)

		ray, err := BuildRay(rng.Float64()*vp.Width, rng.Float64()*vp.Height, vp, cam)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, ray.Direction.Length(), 1e-9)
	}
}

func TestBuildRayInvalidViewport(t *testing.T) {
	cam := frontCamera(NewViewport(1, 1))
	for _, vp := range []Viewport{
		NewViewport(0, 600),
		NewViewport(800, 0),
		NewViewport(-1, 600),
	} {
		_, err := BuildRay(10, 10, vp, cam)
		assert.ErrorIs(t, err, ErrInvalidViewport)
	}
}

func TestBuildRaySingularTransform(t *testing.T) {
	_, err := BuildRay(10, 10, NewViewport(800, 600), CameraTransform{})
	assert.ErrorIs(t, err, ErrSingularTransform)
}
