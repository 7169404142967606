package stl

import (
	"github.com/philipparndt/gopick/pkg/geometry"
)

// Format is the STL encoding a model was read from
type Format int

const (
	FormatUnknown Format = iota
	FormatASCII
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Model is a decoded STL file
type Model struct {
	Name      string
	Format    Format
	Triangles []geometry.Triangle
}

// NewModel creates an empty model
func NewModel(name string, format Format) *Model {
	return &Model{
		Name:      name,
		Format:    format,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle appends a facet
func (m *Model) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of facets
func (m *Model) TriangleCount() int {
	return len(m.Triangles)
}

// SurfaceArea sums the facet areas
func (m *Model) SurfaceArea() float64 {
	total := 0.0
	for _, triangle := range m.Triangles {
		total += triangle.Area()
	}
	return total
}
