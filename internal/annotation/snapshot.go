package annotation

import "github.com/philipparndt/gopick/pkg/geometry"

// Segment is a line between two points in scene units
type Segment struct {
	From, To geometry.Vector3
}

// Length returns the segment length in scene units
func (s Segment) Length() float64 {
	return s.From.Distance(s.To)
}

// Snapshot is a point-in-time copy of a Store
type Snapshot struct {
	Points    []Point
	Hover     *geometry.Vector3
	UnitScale float64
	UnitLabel string
	Version   uint64
}

// Segments returns the polyline through the confirmed points in insertion order
func (s Snapshot) Segments() []Segment {
	if len(s.Points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(s.Points)-1)
	for i := 1; i < len(s.Points); i++ {
		segs = append(segs, Segment{From: s.Points[i-1].Position, To: s.Points[i].Position})
	}
	return segs
}

// Preview returns the segment from the last confirmed point to the hover point
func (s Snapshot) Preview() (Segment, bool) {
	if len(s.Points) == 0 || s.Hover == nil {
		return Segment{}, false
	}
	return Segment{From: s.Points[len(s.Points)-1].Position, To: *s.Hover}, true
}

// PathLength returns the polyline length in display units
func (s Snapshot) PathLength() float64 {
	total := 0.0
	for _, seg := range s.Segments() {
		total += seg.Length()
	}
	return total * s.UnitScale
}

// Label returns the readout for a point using the snapshot's unit label
func (s Snapshot) Label(p Point) string {
	return p.Label(s.UnitLabel)
}
