package main

import (
	"fmt"

	"github.com/philipparndt/gopick/internal/app"
	"github.com/philipparndt/gopick/internal/render"
	"github.com/philipparndt/gopick/pkg/pick"
	"github.com/spf13/cobra"
)

var (
	renderOutput   string
	renderRotateX  float64
	renderRotateY  float64
	renderNoLabels bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render the mesh wireframe to a PNG image",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "gopick.png", "Output PNG file")
	renderCmd.Flags().Float64Var(&renderRotateX, "rotate-x", 0, "Camera elevation in radians")
	renderCmd.Flags().Float64Var(&renderRotateY, "rotate-y", 0, "Camera azimuth in radians")
	renderCmd.Flags().BoolVar(&renderNoLabels, "no-labels", false, "Omit coordinate labels")
}

func runRender(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := render.New(cfg.Viewport.Width, cfg.Viewport.Height, render.WithLabels(!renderNoLabels))
	if err != nil {
		return err
	}

	camera := app.Camera(cfg, a.Controller.Mesh())
	camera.Rotate(renderRotateX, renderRotateY)

	vp := pick.NewViewport(float64(cfg.Viewport.Width), float64(cfg.Viewport.Height))
	frame := render.Frame{
		Mesh:     a.Controller.Mesh(),
		Snapshot: a.Session.Snapshot(),
		Camera:   camera.Transform(vp),
	}
	if err := r.RenderFile(renderOutput, frame); err != nil {
		return err
	}
	fmt.Printf("Rendered %s to %s\n", meshName(a), renderOutput)
	return nil
}
