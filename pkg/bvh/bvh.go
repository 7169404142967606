// Package bvh builds a bounding volume hierarchy over a triangle mesh and answers
// nearest-hit ray queries against it.
//
// An Index owns an immutable copy of the triangles it was built from. It is never
// updated in place: when the mesh changes, build a new Index and drop the old one.
package bvh

import (
	"github.com/philipparndt/gopick/pkg/geometry"
)

const (
	// DefaultMaxLeafTriangles is the leaf size threshold used when no option overrides it
	DefaultMaxLeafTriangles = 4

	// DefaultMaxDepth caps recursion on pathological inputs
	DefaultMaxDepth = 64

	// tieTolerance is the distance within which two hits count as identical.
	// The first hit encountered in traversal order is kept.
	tieTolerance = 1e-9
)

// Hit describes the nearest surface point found along a ray
type Hit struct {
	Point         geometry.Vector3  // Surface point in world space
	Distance      float64           // Distance from the ray origin, never negative
	Triangle      geometry.Triangle // Triangle that was hit
	TriangleIndex int               // Index of the triangle in the slice passed to Build
	MeshID        string            // Owning mesh, as given by WithMeshID
}

// node is a flattened BVH node. Leaves have left == -1 and reference
// order[start : start+count].
type node struct {
	bounds      geometry.BoundingBox
	left, right int
	start       int
	count       int
}

func (n *node) isLeaf() bool {
	return n.left < 0
}

// Index is a bounding volume hierarchy over a fixed snapshot of triangles
type Index struct {
	meshID    string
	triangles []geometry.Triangle
	order     []int
	nodes     []node
	depth     int
	leaves    int
	maxLeaf   int
}

// Stats summarizes the shape of an index
type Stats struct {
	Triangles   int
	Nodes       int
	Leaves      int
	Depth       int
	MaxLeafSize int
}

// Option configures Build
type Option func(*buildConfig)

type buildConfig struct {
	maxLeafTriangles int
	maxDepth         int
	meshID           string
}

// WithMaxLeafTriangles sets how many triangles a leaf may hold before it is split
func WithMaxLeafTriangles(n int) Option {
	return func(c *buildConfig) {
		if n >= 1 {
			c.maxLeafTriangles = n
		}
	}
}

// WithMaxDepth limits the depth of the hierarchy
func WithMaxDepth(depth int) Option {
	return func(c *buildConfig) {
		if depth >= 1 {
			c.maxDepth = depth
		}
	}
}

// WithMeshID attaches a mesh identity that is copied into every Hit
func WithMeshID(id string) Option {
	return func(c *buildConfig) {
		c.meshID = id
	}
}

// MeshID returns the mesh identity the index was built with
func (idx *Index) MeshID() string {
	return idx.meshID
}

// Len returns the number of triangles in the index
func (idx *Index) Len() int {
	return len(idx.triangles)
}

// Bounds returns the bounds of the whole index, or an empty box for an empty index
func (idx *Index) Bounds() geometry.BoundingBox {
	if len(idx.nodes) == 0 {
		return geometry.NewBoundingBox()
	}
	return idx.nodes[0].bounds
}

// Stats returns structural statistics about the index
func (idx *Index) Stats() Stats {
	return Stats{
		Triangles:   len(idx.triangles),
		Nodes:       len(idx.nodes),
		Leaves:      idx.leaves,
		Depth:       idx.depth,
		MaxLeafSize: idx.maxLeaf,
	}
}
