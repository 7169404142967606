package bvh

import (
	"math"

	"github.com/philipparndt/gopick/pkg/geometry"
)

type stackEntry struct {
	node  int
	entry float64
}

// Intersect returns the nearest hit along the ray, or false if the ray misses.
//
// Children are visited nearest-first and a subtree is skipped once the best hit is
// closer than the subtree's entry distance. Hits within tieTolerance of the current
// best do not replace it, so on ties the triangle met first in traversal wins; which
// one that is carries no meaning.
func (idx *Index) Intersect(ray geometry.Ray) (Hit, bool) {
	if len(idx.nodes) == 0 {
		return Hit{}, false
	}

	best := math.Inf(1)
	bestTri := -1

	rootEntry, ok := idx.nodes[0].bounds.IntersectRay(ray, best)
	if !ok {
		return Hit{}, false
	}

	stack := make([]stackEntry, 0, 2*idx.depth+2)
	stack = append(stack, stackEntry{node: 0, entry: rootEntry})

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.entry >= best-tieTolerance {
			continue
		}

		n := &idx.nodes[top.node]
		if n.isLeaf() {
			for _, ti := range idx.order[n.start : n.start+n.count] {
				dist, hit := idx.triangles[ti].IntersectRay(ray)
				if hit && dist < best-tieTolerance {
					best = dist
					bestTri = ti
				}
			}
			continue
		}

		leftEntry, leftOK := idx.nodes[n.left].bounds.IntersectRay(ray, best)
		rightEntry, rightOK := idx.nodes[n.right].bounds.IntersectRay(ray, best)

		switch {
		case leftOK && rightOK:
			// Push the farther child first so the nearer one is popped next
			if leftEntry <= rightEntry {
				stack = append(stack,
					stackEntry{node: n.right, entry: rightEntry},
					stackEntry{node: n.left, entry: leftEntry})
			} else {
				stack = append(stack,
					stackEntry{node: n.left, entry: leftEntry},
					stackEntry{node: n.right, entry: rightEntry})
			}
		case leftOK:
			stack = append(stack, stackEntry{node: n.left, entry: leftEntry})
		case rightOK:
			stack = append(stack, stackEntry{node: n.right, entry: rightEntry})
		}
	}

	if bestTri < 0 {
		return Hit{}, false
	}
	return idx.hit(ray, bestTri, best), true
}

func (idx *Index) hit(ray geometry.Ray, ti int, dist float64) Hit {
	return Hit{
		Point:         ray.At(dist),
		Distance:      dist,
		Triangle:      idx.triangles[ti],
		TriangleIndex: ti,
		MeshID:        idx.meshID,
	}
}

// IntersectLinear tests every triangle in order and returns the nearest hit.
// It is the reference the index is checked against and is fine for tiny meshes.
func IntersectLinear(ray geometry.Ray, triangles []geometry.Triangle, meshID string) (Hit, bool) {
	best := math.Inf(1)
	bestTri := -1
	for i, tri := range triangles {
		dist, hit := tri.IntersectRay(ray)
		if hit && dist < best-tieTolerance {
			best = dist
			bestTri = i
		}
	}
	if bestTri < 0 {
		return Hit{}, false
	}
	return Hit{
		Point:         ray.At(best),
		Distance:      best,
		Triangle:      triangles[bestTri],
		TriangleIndex: bestTri,
		MeshID:        meshID,
	}, true
}
