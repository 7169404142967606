package main

import (
	"fmt"

	"github.com/philipparndt/gopick/pkg/analysis"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display information about a mesh and its spatial index",
	Long:  "Show dimensions, triangle count, surface area, edge statistics and index layout. Without a file the default mesh is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}
	defer a.Close()

	result := analysis.AnalyzeMesh(a.Controller.Mesh(), a.Controller.Index())

	fmt.Println("Mesh Information")
	fmt.Println("================")
	fmt.Printf("Name: %s\n", meshName(a))
	fmt.Printf("State: %s\n\n", a.Controller.State())

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Triangles: %d\n", result.TriangleCount)
	fmt.Printf("  Degenerate: %d\n", result.DegenerateTriangles)
	fmt.Printf("  Edges: %d\n", result.EdgeCount)
	fmt.Printf("  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	fmt.Println("Bounding Box:")
	fmt.Printf("  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Printf("  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Printf("  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Println("Dimensions:")
	fmt.Printf("  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Printf("  Height (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Printf("  Depth (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Printf("  Diagonal: %.6f units\n\n", result.BoundingBox.Diagonal())

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f units\n", result.MinEdgeLength)
	fmt.Printf("  Maximum: %.6f units\n", result.MaxEdgeLength)
	fmt.Printf("  Average: %.6f units\n\n", result.AvgEdgeLength)

	fmt.Println("Spatial Index:")
	fmt.Printf("  Nodes: %d\n", result.Index.Nodes)
	fmt.Printf("  Leaves: %d\n", result.Index.Leaves)
	fmt.Printf("  Depth: %d\n", result.Index.Depth)
	fmt.Printf("  Largest Leaf: %d triangles\n", result.Index.MaxLeafSize)
	return nil
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
