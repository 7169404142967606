package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/internal/app"
	"github.com/philipparndt/gopick/internal/config"
	"github.com/philipparndt/gopick/internal/logger"
	"github.com/philipparndt/gopick/internal/scene"
	"github.com/philipparndt/gopick/pkg/analysis"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/viewer"
	"github.com/philipparndt/gopick/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const pollInterval = 50 * time.Millisecond

type GUI struct {
	window fyne.Window
	app    *app.App
	view   *viewer.MeshView
	ctx    context.Context

	meshLabel   *widget.Label
	pointsLabel *widget.Label
	lengthLabel *widget.Label
	statusLabel *widget.Label
	resetButton *widget.Button
}

var overrides config.Flags

var rootCmd = &cobra.Command{
	Use:          "gopick-gui [file]",
	Short:        "Pick and measure points on 3D meshes in a window",
	Version:      version.GetFullVersion(),
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	overrides.Register(rootCmd.PersistentFlags())
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := overrides.Resolve(cmd.Flags())
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	a, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fa := fyneapp.New()
	w := fa.NewWindow("GoPick - Surface Picking")

	g := &GUI{window: w, app: a, ctx: ctx}
	g.setupUI()

	if len(args) == 1 {
		g.open(args[0])
	}

	go g.pollLoads(ctx)

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (g *GUI) setupUI() {
	cfg := g.app.Config
	controller := g.app.Controller

	g.view = viewer.NewMeshView(g.app.Session, app.Camera(cfg, controller.Mesh()))
	g.view.SetOnChange(g.updateAnnotations)
	g.view.SetOnError(func(err error) {
		g.statusLabel.SetText(fmt.Sprintf("Pick failed: %v", err))
	})

	// Swaps are applied by Poll on the UI goroutine
	controller.OnSwap(func(event scene.SwapEvent) {
		g.view.SetCamera(app.Camera(cfg, controller.Mesh()))
		g.updateMesh()
		g.updateAnnotations(g.app.Session.Snapshot())
		g.statusLabel.SetText(fmt.Sprintf("Loaded %s", event.Name))
	})

	g.meshLabel = widget.NewLabel("")
	g.pointsLabel = widget.NewLabel("")
	g.pointsLabel.Wrapping = fyne.TextWrapWord
	g.lengthLabel = widget.NewLabel("")
	g.lengthLabel.TextStyle = fyne.TextStyle{Bold: true}
	g.statusLabel = widget.NewLabel("")
	g.statusLabel.Wrapping = fyne.TextWrapWord

	openButton := widget.NewButton("Open File", g.showFileDialog)
	g.resetButton = widget.NewButton("Reset to Default", func() {
		if err := g.app.Session.ResetToDefault(); err != nil {
			dialog.ShowError(err, g.window)
		}
	})
	if !cfg.Mesh.AllowReset {
		g.resetButton.Disable()
	}

	gestureHint := "Double-click"
	if cfg.Annotation.ConfirmGesture == scene.GestureTap.String() {
		gestureHint = "Click"
	}
	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• " + gestureHint + " on the surface to add a point\n" +
			"• Move the mouse to preview the next segment\n" +
			"• Drag to rotate the view\n" +
			"• Scroll to zoom in/out\n" +
			"• Loading a model clears all points",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Mesh:"),
		widget.NewSeparator(),
		g.meshLabel,
		widget.NewSeparator(),
		widget.NewLabel("Points:"),
		widget.NewSeparator(),
		g.pointsLabel,
		g.lengthLabel,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
		g.resetButton,
		g.statusLabel,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	g.window.SetContent(container.NewBorder(nil, nil, nil, infoScroll, g.view))

	g.updateMesh()
	g.updateAnnotations(g.app.Session.Snapshot())
}

func (g *GUI) showFileDialog() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		g.open(path)
	}, g.window)

	exts := g.app.Loader.Extensions()
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

// open requests a load and watches the file for later changes
func (g *GUI) open(path string) {
	g.statusLabel.SetText(fmt.Sprintf("Loading %s...", path))
	g.app.Open(g.ctx, path)

	err := g.app.Watch(g.ctx, path, func() {
		fyne.Do(func() {
			g.statusLabel.SetText(fmt.Sprintf("Reloading %s...", path))
		})
	})
	if err != nil {
		logger.Log.Warn("Failed to watch file", zap.String("path", path), zap.Error(err))
	}
}

// pollLoads applies finished loads on the UI goroutine
func (g *GUI) pollLoads(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if g.app.Session.Pending() == 0 {
				continue
			}
			fyne.Do(func() {
				if err := g.app.Session.Poll(); err != nil {
					g.showLoadError(err)
				}
			})
		}
	}
}

func (g *GUI) showLoadError(err error) {
	var failed *scene.ModelLoadFailedError
	if errors.As(err, &failed) {
		g.statusLabel.SetText(fmt.Sprintf("Could not load %s", failed.Source))
	}
	dialog.ShowError(err, g.window)
}

func (g *GUI) updateMesh() {
	controller := g.app.Controller
	result := analysis.AnalyzeMesh(controller.Mesh(), controller.Index())

	name := controller.Mesh().Name
	if name == "" {
		name = controller.Mesh().Source
	}
	g.meshLabel.SetText(fmt.Sprintf(
		"%s (%s)\nTriangles: %d\nSurface Area: %.2f\n\nDimensions:\n  X: %.2f\n  Y: %.2f\n  Z: %.2f",
		name,
		controller.State(),
		result.TriangleCount,
		result.SurfaceArea,
		result.Dimensions.X,
		result.Dimensions.Y,
		result.Dimensions.Z,
	))

	if g.app.Config.Mesh.AllowReset && controller.State() == scene.StateLoaded {
		g.resetButton.Enable()
	} else {
		g.resetButton.Disable()
	}
}

func (g *GUI) updateAnnotations(snap annotation.Snapshot) {
	if len(snap.Points) == 0 {
		g.pointsLabel.SetText("No points selected")
		g.lengthLabel.SetText("")
		return
	}

	var b strings.Builder
	for _, p := range snap.Points {
		fmt.Fprintf(&b, "Point %d\n%s\n\n", p.Index, snap.Label(p))
	}
	g.pointsLabel.SetText(strings.TrimSpace(b.String()))

	text := ""
	if len(snap.Points) > 1 {
		text = "Path: " + analysis.FormatMeasurement(snap.PathLength(), snap.UnitLabel)
	}
	positions := make([]geometry.Vector3, len(snap.Points))
	for i, p := range snap.Points {
		positions[i] = p.Position
	}
	if arc := analysis.MeasurePath(positions, snap.UnitScale).Arc; arc != nil {
		text += "\nRadius: " + analysis.FormatMeasurement(arc.Radius, snap.UnitLabel)
	}
	g.lengthLabel.SetText(text)
}
