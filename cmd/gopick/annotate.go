package main

import (
	"fmt"

	"github.com/philipparndt/gopick/internal/app"
	"github.com/philipparndt/gopick/internal/render"
	"github.com/philipparndt/gopick/pkg/analysis"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/spf13/cobra"
)

var (
	scriptPath  string
	annotatePNG string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [file]",
	Short: "Replay a pointer script and print the resulting annotations",
	Long: `Replay a YAML script of pointer moves, taps, loads and camera changes against
the session and print the confirmed points. Example script:

  events:
    - move: {x: 400, y: 300}
    - double_tap: {x: 400, y: 300}
    - rotate: {x: 0.2, y: 0.4}
    - double_tap: {x: 420, y: 310}
    - load: part.stl
    - wait: true`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVarP(&scriptPath, "script", "s", "", "Event script (YAML)")
	annotateCmd.Flags().StringVarP(&annotatePNG, "png", "o", "", "Also render the final frame to this PNG file")
	_ = annotateCmd.MarkFlagRequired("script")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	script, err := app.ParseScript(scriptPath)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.RunScript(cmd.Context(), script)
	if err != nil {
		return err
	}

	snap := result.Snapshot
	unit := snap.UnitLabel

	fmt.Println("Annotations")
	fmt.Println("===========")
	fmt.Printf("Mesh: %s (%s)\n", meshName(a), a.Controller.State())
	fmt.Printf("Confirmed during script: %d\n\n", len(result.Confirmed))

	if len(snap.Points) == 0 {
		fmt.Println("No points on the active mesh.")
	}
	for _, p := range snap.Points {
		fmt.Printf("Point %d at %s\n", p.Index, analysis.FormatVector(p.Position))
		fmt.Println(snap.Label(p))
		fmt.Println()
	}
	positions := make([]geometry.Vector3, len(snap.Points))
	for i, p := range snap.Points {
		positions[i] = p.Position
	}
	report := analysis.MeasurePath(positions, snap.UnitScale)
	for _, seg := range report.Segments {
		fmt.Printf("Segment %d-%d: %s\n", seg.From, seg.To, analysis.FormatMeasurement(seg.Length, unit))
	}
	if len(report.Segments) > 0 {
		fmt.Printf("Path length: %s\n", analysis.FormatMeasurement(snap.PathLength(), unit))
	}
	if report.Arc != nil {
		fmt.Printf("Radius: %s\n", analysis.FormatMeasurement(report.Arc.Radius, unit))
	}
	if snap.Hover != nil {
		fmt.Printf("Hover: %s\n", analysis.FormatVector(*snap.Hover))
	}
	for _, err := range result.LoadErrors {
		fmt.Printf("Load failed: %v\n", err)
	}

	if annotatePNG == "" {
		return nil
	}
	r, err := render.New(int(result.Viewport.Width), int(result.Viewport.Height))
	if err != nil {
		return err
	}
	frame := render.Frame{
		Mesh:     a.Controller.Mesh(),
		Snapshot: snap,
		Camera:   result.Camera.Transform(result.Viewport),
	}
	if err := r.RenderFile(annotatePNG, frame); err != nil {
		return err
	}
	fmt.Printf("\nRendered to %s\n", annotatePNG)
	return nil
}
