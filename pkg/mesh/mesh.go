// Package mesh holds triangulated meshes and decodes them from the supported file formats.
package mesh

import (
	"errors"

	"github.com/google/uuid"
	"github.com/philipparndt/gopick/pkg/geometry"
)

var (
	// ErrUnsupportedFormat is returned for a source whose extension has no registered decoder
	ErrUnsupportedFormat = errors.New("unsupported mesh format")

	// ErrEmptyMesh is returned when a source decodes to zero triangles
	ErrEmptyMesh = errors.New("mesh contains no triangles")
)

// Mesh is a named triangle soup with a unique identity
type Mesh struct {
	ID        string
	Name      string
	Source    string
	Triangles []geometry.Triangle
}

// New creates a mesh with a fresh identity
func New(name string, triangles []geometry.Triangle) *Mesh {
	return &Mesh{
		ID:        uuid.NewString(),
		Name:      name,
		Triangles: triangles,
	}
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the mesh
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, t := range m.Triangles {
		bbox.Extend(t.V1)
		bbox.Extend(t.V2)
		bbox.Extend(t.V3)
	}
	return bbox
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		total += t.Area()
	}
	return total
}
