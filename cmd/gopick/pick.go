package main

import (
	"fmt"

	"github.com/philipparndt/gopick/internal/app"
	"github.com/philipparndt/gopick/pkg/analysis"
	"github.com/spf13/cobra"
)

var pickX, pickY float64

var pickCmd = &cobra.Command{
	Use:   "pick [file]",
	Short: "Cast a ray through a viewport pixel and report the nearest hit",
	Long: `Build a ray through the given pixel of the configured viewport, looking at the
mesh from the front, and report the nearest surface point. Pixels default to the viewport center.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().Float64Var(&pickX, "x", -1, "Pixel column (default viewport center)")
	pickCmd.Flags().Float64Var(&pickY, "y", -1, "Pixel row (default viewport center)")
}

func runPick(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}
	defer a.Close()

	x, y := pickX, pickY
	if !cmd.Flags().Changed("x") {
		x = float64(cfg.Viewport.Width) / 2
	}
	if !cmd.Flags().Changed("y") {
		y = float64(cfg.Viewport.Height) / 2
	}

	view := app.StaticView(cfg, a.Controller.Mesh())
	hit, ok, err := a.Controller.Pick(x, y, view.Viewport, view.Camera)
	if err != nil {
		return err
	}

	fmt.Printf("Pixel: (%.1f, %.1f)\n", x, y)
	p, ok := a.Controller.Store().ConfirmHit(hit, ok)
	if !ok {
		fmt.Println("No hit")
		return nil
	}
	fmt.Printf("World: %s\n", analysis.FormatVector(p.Position))
	fmt.Printf("Distance: %.6f units\n", hit.Distance)
	fmt.Printf("Triangle: #%d\n", hit.TriangleIndex)
	fmt.Println(p.Label(cfg.Annotation.UnitLabel))
	return nil
}
