package pick

import (
	"testing"

	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedTarget struct {
	hit bvh.Hit
	ok  bool
}

func (f fixedTarget) Intersect(geometry.Ray) (bvh.Hit, bool) {
	return f.hit, f.ok
}

func cube(half float64) []geometry.Triangle {
	v := func(x, y, z float64) geometry.Vector3 {
		return geometry.NewVector3(x*half, y*half, z*half)
	}
	quads := [][4]geometry.Vector3{
		{v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1)},
		{v(1, -1, -1), v(-1, -1, -1), v(-1, 1, -1), v(1, 1, -1)},
		{v(-1, -1, -1), v(-1, -1, 1), v(-1, 1, 1), v(-1, 1, -1)},
		{v(1, -1, 1), v(1, -1, -1), v(1, 1, -1), v(1, 1, 1)},
		{v(-1, 1, 1), v(1, 1, 1), v(1, 1, -1), v(-1, 1, -1)},
		{v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)},
	}
	tris := make([]geometry.Triangle, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			geometry.NewTriangleFromVertices(q[0], q[1], q[2]),
			geometry.NewTriangleFromVertices(q[0], q[2], q[3]))
	}
	return tris
}

func TestIntersectNoTargets(t *testing.T) {
	ray, err := geometry.NewRay(geometry.NewVector3(0, 0, 5), geometry.NewVector3(0, 0, -1))
	require.NoError(t, err)

	_, ok := Intersect(ray)
	assert.False(t, ok)

	_, ok = Intersect(ray, nil, fixedTarget{})
	assert.False(t, ok)
}

func TestIntersectNearestAcrossMeshes(t *testing.T) {
	ray, err := geometry.NewRay(geometry.NewVector3(0, 0, 5), geometry.NewVector3(0, 0, -1))
	require.NoError(t, err)

	small := bvh.Build(cube(0.5), bvh.WithMeshID("small"))
	large := bvh.Build(cube(1), bvh.WithMeshID("large"))

	hit, ok := Intersect(ray, small, large)
	require.True(t, ok)
	assert.Equal(t, "large", hit.MeshID)
	assert.InDelta(t, 4.0, hit.Distance, 1e-9)

	hit, ok = Intersect(ray, small)
	require.True(t, ok)
	assert.Equal(t, "small", hit.MeshID)
	assert.InDelta(t, 4.5, hit.Distance, 1e-9)
}

func TestIntersectTieKeepsEarlierTarget(t *testing.T) {
	ray, err := geometry.NewRay(geometry.NewVector3(0, 0, 5), geometry.NewVector3(0, 0, -1))
	require.NoError(t, err)

	first := fixedTarget{hit: bvh.Hit{Distance: 2, MeshID: "first"}, ok: true}
	second := fixedTarget{hit: bvh.Hit{Distance: 2, MeshID: "second"}, ok: true}

	hit, ok := Intersect(ray, first, second)
	require.True(t, ok)
	assert.Equal(t, "first", hit.MeshID)
}

func TestPickCubeFromFrontCamera(t *testing.T) {
	vp := NewViewport(800, 600)
	index := bvh.Build(cube(1), bvh.WithMeshID("cube"))

	hit, ok, err := Pick(400, 300, vp, frontCamera(vp), index)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cube", hit.MeshID)
	assert.True(t, hit.Point.ApproxEqual(geometry.NewVector3(0, 0, 1), 1e-6), "point %v", hit.Point)
	assert.InDelta(t, 3.9, hit.Distance, 1e-6)

	// Far corner of the viewport misses the cube
	_, ok, err = Pick(0, 0, vp, frontCamera(vp), index)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPickInvalidViewport(t *testing.T) {
	index := bvh.Build(cube(1))
	_, ok, err := Pick(0, 0, NewViewport(0, 0), frontCamera(NewViewport(1, 1)), index)
	assert.ErrorIs(t, err, ErrInvalidViewport)
	assert.False(t, ok)
}
