package mesh

import (
	"fmt"

	"github.com/philipparndt/gopick/pkg/geometry"
)

// Built-in mesh names accepted by Builtin
const (
	BuiltinCube        = "cube"
	BuiltinCubeOnPlane = "cube_on_plane"
)

// Cube returns an axis-aligned cube with the given edge length centered at the origin
func Cube(size float64) *Mesh {
	return New(BuiltinCube, box(geometry.NewVector3(0, 0, 0), geometry.NewVector3(size/2, size/2, size/2)))
}

// CubeOnPlane returns the default cube resting on a pickable ground plane
func CubeOnPlane() *Mesh {
	tris := box(geometry.NewVector3(0, 0, 0), geometry.NewVector3(1, 1, 1))
	tris = append(tris, plane(-1, 10)...)
	return New(BuiltinCubeOnPlane, tris)
}

// Builtin returns the built-in mesh with the given name
func Builtin(name string) (*Mesh, error) {
	switch name {
	case "", BuiltinCube:
		return Cube(2), nil
	case BuiltinCubeOnPlane:
		return CubeOnPlane(), nil
	default:
		return nil, fmt.Errorf("unknown built-in mesh %q", name)
	}
}

// box triangulates an axis-aligned box with outward winding
func box(center, half geometry.Vector3) []geometry.Triangle {
	v := func(x, y, z float64) geometry.Vector3 {
		return geometry.NewVector3(center.X+x*half.X, center.Y+y*half.Y, center.Z+z*half.Z)
	}
	faces := [][4]geometry.Vector3{
		{v(-1, -1, 1), v(1, -1, 1), v(1, 1, 1), v(-1, 1, 1)},     // +z
		{v(1, -1, -1), v(-1, -1, -1), v(-1, 1, -1), v(1, 1, -1)}, // -z
		{v(-1, -1, -1), v(-1, -1, 1), v(-1, 1, 1), v(-1, 1, -1)}, // -x
		{v(1, -1, 1), v(1, -1, -1), v(1, 1, -1), v(1, 1, 1)},     // +x
		{v(-1, 1, 1), v(1, 1, 1), v(1, 1, -1), v(-1, 1, -1)},     // +y
		{v(-1, -1, -1), v(1, -1, -1), v(1, -1, 1), v(-1, -1, 1)}, // -y
	}
	tris := make([]geometry.Triangle, 0, 12)
	for _, f := range faces {
		tris = append(tris, quad(f)...)
	}
	return tris
}

// plane returns a square in the XZ plane at height y facing up
func plane(y, half float64) []geometry.Triangle {
	return quad([4]geometry.Vector3{
		geometry.NewVector3(-half, y, half),
		geometry.NewVector3(half, y, half),
		geometry.NewVector3(half, y, -half),
		geometry.NewVector3(-half, y, -half),
	})
}

func quad(q [4]geometry.Vector3) []geometry.Triangle {
	return []geometry.Triangle{
		geometry.NewTriangleFromVertices(q[0], q[1], q[2]),
		geometry.NewTriangleFromVertices(q[0], q[2], q[3]),
	}
}
