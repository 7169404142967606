package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/mesh"
)

// degenerateArea is the area below which a triangle can never be hit by a ray
const degenerateArea = 1e-12

// MeshReport contains measurements of a mesh and its spatial index
type MeshReport struct {
	Name                string
	ID                  string
	BoundingBox         geometry.BoundingBox
	Dimensions          geometry.Vector3
	SurfaceArea         float64
	TriangleCount       int
	DegenerateTriangles int
	EdgeCount           int
	MinEdgeLength       float64
	MaxEdgeLength       float64
	AvgEdgeLength       float64
	Index               bvh.Stats
}

// AnalyzeMesh measures the mesh and describes the index built over it
func AnalyzeMesh(m *mesh.Mesh, index *bvh.Index) *MeshReport {
	result := &MeshReport{
		Name:          m.Name,
		ID:            m.ID,
		BoundingBox:   m.BoundingBox(),
		SurfaceArea:   m.SurfaceArea(),
		TriangleCount: m.TriangleCount(),
	}
	if index != nil {
		result.Index = index.Stats()
	}
	if result.TriangleCount == 0 {
		return result
	}
	result.Dimensions = result.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, triangle := range m.Triangles {
		if triangle.Area() < degenerateArea {
			result.DegenerateTriangles++
		}
		for _, length := range triangle.EdgeLengths() {
			result.EdgeCount++
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
		}
	}

	result.MinEdgeLength = minLength
	result.MaxEdgeLength = maxLength
	result.AvgEdgeLength = totalLength / float64(result.EdgeCount)

	return result
}

// SegmentReport describes the distance between two consecutive points in display units
type SegmentReport struct {
	From, To int // 1-based point indexes
	Delta    geometry.Vector3
	Length   float64
}

// ArcReport is the circle through points picked along a curved edge, in display units
type ArcReport struct {
	Center   geometry.Vector3 // World space
	Radius   float64
	Diameter float64
	StdDev   float64
}

// PathReport summarizes a polyline of confirmed points
type PathReport struct {
	Segments []SegmentReport
	Total    float64
	Extent   geometry.Vector3
	Arc      *ArcReport // Set for three or more non-collinear points
}

// MeasurePath measures the polyline through points, scaled into display units
func MeasurePath(points []geometry.Vector3, scale float64) PathReport {
	var report PathReport
	if len(points) == 0 {
		return report
	}

	bbox := geometry.NewBoundingBox()
	bbox.Extend(points[0])
	for i := 1; i < len(points); i++ {
		p1, p2 := points[i-1], points[i]
		bbox.Extend(p2)

		seg := SegmentReport{
			From: i,
			To:   i + 1,
			Delta: geometry.NewVector3(
				math.Abs(p2.X-p1.X)*scale,
				math.Abs(p2.Y-p1.Y)*scale,
				math.Abs(p2.Z-p1.Z)*scale,
			),
			Length: p1.Distance(p2) * scale,
		}
		report.Segments = append(report.Segments, seg)
		report.Total += seg.Length
	}
	report.Extent = bbox.Size().Mul(scale)

	if fit, err := geometry.FitCircle(points); err == nil {
		report.Arc = &ArcReport{
			Center:   fit.Center,
			Radius:   fit.Radius * scale,
			Diameter: 2 * fit.Radius * scale,
			StdDev:   fit.StdDev * scale,
		}
	}

	return report
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
