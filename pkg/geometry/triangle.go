package geometry

import "math"

// Triangle represents a triangular facet in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// NewTriangle creates a new triangle
func NewTriangle(normal, v1, v2, v3 Vector3) Triangle {
	return Triangle{
		Normal: normal,
		V1:     v1,
		V2:     v2,
		V3:     v3,
	}
}

// NewTriangleFromVertices creates a triangle and derives its normal from the winding order
func NewTriangleFromVertices(v1, v2, v3 Vector3) Triangle {
	t := Triangle{V1: v1, V2: v2, V3: v3}
	t.Normal = t.CalculateNormal()
	return t
}

// CalculateNormal computes the normal vector for the triangle
func (t Triangle) CalculateNormal() Vector3 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	return edge1.Cross(edge2).Normalize()
}

// Area returns the surface area of the triangle
func (t Triangle) Area() float64 {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	cross := edge1.Cross(edge2)
	return cross.Length() / 2.0
}

// EdgeLengths returns the lengths of all three edges
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		t.V1.Distance(t.V2),
		t.V2.Distance(t.V3),
		t.V3.Distance(t.V1),
	}
}

// Perimeter returns the total length of all edges
func (t Triangle) Perimeter() float64 {
	lengths := t.EdgeLengths()
	return lengths[0] + lengths[1] + lengths[2]
}

// Center returns the centroid of the triangle
func (t Triangle) Center() Vector3 {
	return Vector3{
		X: (t.V1.X + t.V2.X + t.V3.X) / 3.0,
		Y: (t.V1.Y + t.V2.Y + t.V3.Y) / 3.0,
		Z: (t.V1.Z + t.V2.Z + t.V3.Z) / 3.0,
	}
}

// Bounds returns the axis-aligned bounding box of the triangle
func (t Triangle) Bounds() BoundingBox {
	return BoundingBox{
		Min: t.V1.Min(t.V2).Min(t.V3),
		Max: t.V1.Max(t.V2).Max(t.V3),
	}
}

// determinantEpsilon is relative to the product of the two edge lengths, so the
// parallel test does not depend on the mesh's unit scale. Zero-area triangles
// always fall under it and therefore never report a hit.
const determinantEpsilon = 1e-12

// IntersectRay tests the ray against the triangle using the Möller–Trumbore algorithm.
// Both faces are hit-testable (no back-face culling). It returns the distance along the
// ray to the hit, which is never negative.
func (t Triangle) IntersectRay(ray Ray) (float64, bool) {
	edge1 := t.V2.Sub(t.V1)
	edge2 := t.V3.Sub(t.V1)
	h := ray.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if math.Abs(det) <= determinantEpsilon*edge1.Length()*edge2.Length() {
		return 0, false
	}

	invDet := 1.0 / det
	s := ray.Origin.Sub(t.V1)
	u := invDet * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := invDet * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := invDet * edge2.Dot(q)
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
