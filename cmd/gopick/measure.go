package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/philipparndt/gopick/pkg/analysis"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/spf13/cobra"
)

var measurePoints []string

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure the polyline through world-space points",
	Long: `Measure the path through two or more points given as x,y,z in world units.
Lengths are reported in display units using the configured unit scale.`,
	Example: "  gopick measure -p 0,0,1 -p 1,0,1 -p 1,1,1",
	Args:    cobra.NoArgs,
	RunE:    runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringArrayVarP(&measurePoints, "point", "p", nil, "Point as x,y,z (repeat for each point)")
	_ = measureCmd.MarkFlagRequired("point")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	points := make([]geometry.Vector3, 0, len(measurePoints))
	for _, s := range measurePoints {
		p, err := parsePoint(s)
		if err != nil {
			return err
		}
		points = append(points, p)
	}
	if len(points) < 2 {
		return fmt.Errorf("need at least two points, got %d", len(points))
	}

	unit := cfg.Annotation.UnitLabel
	report := analysis.MeasurePath(points, cfg.Annotation.UnitScale)

	fmt.Println("Path Measurement")
	fmt.Println("================")
	for i, p := range points {
		fmt.Printf("Point %d: %s\n", i+1, analysis.FormatVector(p))
	}
	fmt.Println()

	for _, seg := range report.Segments {
		fmt.Printf("Segment %d-%d: %s\n", seg.From, seg.To, analysis.FormatMeasurement(seg.Length, unit))
		fmt.Printf("  dX: %s  dY: %s  dZ: %s\n",
			analysis.FormatMeasurement(seg.Delta.X, unit),
			analysis.FormatMeasurement(seg.Delta.Y, unit),
			analysis.FormatMeasurement(seg.Delta.Z, unit))
	}
	fmt.Printf("\nTotal: %s\n", analysis.FormatMeasurement(report.Total, unit))
	fmt.Printf("Extent: %s x %s x %s\n",
		analysis.FormatMeasurement(report.Extent.X, unit),
		analysis.FormatMeasurement(report.Extent.Y, unit),
		analysis.FormatMeasurement(report.Extent.Z, unit))

	if report.Arc != nil {
		fmt.Println("\nCircle through first, middle and last point:")
		fmt.Printf("  Center: %s\n", analysis.FormatVector(report.Arc.Center))
		fmt.Printf("  Radius: %s\n", analysis.FormatMeasurement(report.Arc.Radius, unit))
		fmt.Printf("  Diameter: %s\n", analysis.FormatMeasurement(report.Arc.Diameter, unit))
		fmt.Printf("  Deviation: %s\n", analysis.FormatMeasurement(report.Arc.StdDev, unit))
	}
	return nil
}

func parsePoint(s string) (geometry.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return geometry.Vector3{}, fmt.Errorf("invalid point %q: expected x,y,z", s)
	}
	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		coords[i] = v
	}
	return geometry.NewVector3(coords[0], coords[1], coords[2]), nil
}
