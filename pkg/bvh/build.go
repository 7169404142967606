package bvh

import (
	"sort"

	"github.com/philipparndt/gopick/pkg/geometry"
)

// Build constructs an index over the given triangles.
// The slice is copied; later changes to it do not affect the index.
// Nodes are split at the centroid median along the longest axis of the centroid bounds.
func Build(triangles []geometry.Triangle, opts ...Option) *Index {
	cfg := buildConfig{
		maxLeafTriangles: DefaultMaxLeafTriangles,
		maxDepth:         DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	idx := &Index{
		meshID:    cfg.meshID,
		triangles: make([]geometry.Triangle, len(triangles)),
		order:     make([]int, len(triangles)),
	}
	copy(idx.triangles, triangles)

	if len(triangles) == 0 {
		return idx
	}

	b := &builder{
		cfg:       cfg,
		idx:       idx,
		bounds:    make([]geometry.BoundingBox, len(triangles)),
		centroids: make([]geometry.Vector3, len(triangles)),
	}
	for i, tri := range idx.triangles {
		idx.order[i] = i
		b.bounds[i] = tri.Bounds()
		b.centroids[i] = tri.Center()
	}

	// Upper bound on node count for a binary tree with at least one triangle per leaf
	idx.nodes = make([]node, 0, 2*len(triangles)-1)
	b.build(0, len(triangles), 1)

	return idx
}

type builder struct {
	cfg       buildConfig
	idx       *Index
	bounds    []geometry.BoundingBox
	centroids []geometry.Vector3
}

// build creates the node covering order[start:end] and returns its position in idx.nodes
func (b *builder) build(start, end, depth int) int {
	idx := b.idx
	if depth > idx.depth {
		idx.depth = depth
	}

	bounds := geometry.NewBoundingBox()
	centroidBounds := geometry.NewBoundingBox()
	for _, ti := range idx.order[start:end] {
		bounds.Union(b.bounds[ti])
		centroidBounds.Extend(b.centroids[ti])
	}

	pos := len(idx.nodes)
	idx.nodes = append(idx.nodes, node{
		bounds: pad(bounds),
		left:   -1,
		right:  -1,
		start:  start,
		count:  end - start,
	})

	count := end - start
	axis := centroidBounds.LongestAxis()
	extent := centroidBounds.Size().Axis(axis)

	// Splitting cannot separate triangles whose centroids coincide
	if count <= b.cfg.maxLeafTriangles || depth >= b.cfg.maxDepth || extent <= 0 {
		idx.leaves++
		if count > idx.maxLeaf {
			idx.maxLeaf = count
		}
		return pos
	}

	span := idx.order[start:end]
	sort.SliceStable(span, func(i, j int) bool {
		return b.centroids[span[i]].Axis(axis) < b.centroids[span[j]].Axis(axis)
	})

	mid := start + count/2
	left := b.build(start, mid, depth+1)
	right := b.build(mid, end, depth+1)

	n := &idx.nodes[pos]
	n.left = left
	n.right = right
	n.count = 0
	return pos
}

// pad grows a box by a small margin relative to its size so that hits on shared
// edges and faces lying on the box boundary survive rounding in the slab test.
func pad(b geometry.BoundingBox) geometry.BoundingBox {
	margin := 1e-9 * (1 + b.Diagonal())
	m := geometry.NewVector3(margin, margin, margin)
	return geometry.BoundingBox{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}
