// Package render draws the active mesh and its annotations into PNG images.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/mesh"
	"github.com/philipparndt/gopick/pkg/pick"
	"golang.org/x/image/font/gofont/goregular"
)

// Frame is everything needed to draw one image
type Frame struct {
	Mesh     *mesh.Mesh
	Snapshot annotation.Snapshot
	Camera   pick.CameraTransform
}

// Renderer draws frames of a fixed size
type Renderer struct {
	width, height int
	background    gg.RGBA
	labels        bool
	face          text.Face
}

// Option configures a Renderer
type Option func(*Renderer)

// WithBackground sets the background color
func WithBackground(c gg.RGBA) Option {
	return func(r *Renderer) {
		r.background = c
	}
}

// WithLabels toggles the coordinate readouts next to markers
func WithLabels(enabled bool) Option {
	return func(r *Renderer) {
		r.labels = enabled
	}
}

// New creates a renderer for images of the given size
func New(width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", pick.ErrInvalidViewport, width, height)
	}

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load label font: %w", err)
	}

	r := &Renderer{
		width:      width,
		height:     height,
		background: gg.RGB(0.12, 0.12, 0.14),
		labels:     true,
		face:       source.Face(12),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Viewport returns the viewport matching the image size
func (r *Renderer) Viewport() pick.Viewport {
	return pick.NewViewport(float64(r.width), float64(r.height))
}

// Render draws the frame and encodes it as PNG
func (r *Renderer) Render(w io.Writer, frame Frame) error {
	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()

	if err := r.draw(dc, frame); err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// RenderFile draws the frame into a PNG file
func (r *Renderer) RenderFile(path string, frame Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.Render(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Renderer) draw(dc *gg.Context, frame Frame) error {
	vp := r.Viewport()
	project := func(p geometry.Vector3) (float64, float64, bool) {
		x, y, _, ok := pick.Project(p, vp, frame.Camera)
		return x, y, ok
	}

	dc.ClearWithColor(r.background)

	// Wireframe
	if frame.Mesh != nil {
		dc.SetRGB(0.55, 0.55, 0.6)
		dc.SetLineWidth(1)
		for _, t := range frame.Mesh.Triangles {
			vertices := [3]geometry.Vector3{t.V1, t.V2, t.V3}
			for i := 0; i < 3; i++ {
				x1, y1, ok1 := project(vertices[i])
				x2, y2, ok2 := project(vertices[(i+1)%3])
				if ok1 && ok2 {
					dc.DrawLine(x1, y1, x2, y2)
				}
			}
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to draw wireframe: %w", err)
		}
	}

	snap := frame.Snapshot

	// Confirmed polyline
	dc.SetRGB(0.25, 0.63, 1)
	dc.SetLineWidth(2)
	for _, seg := range snap.Segments() {
		x1, y1, ok1 := project(seg.From)
		x2, y2, ok2 := project(seg.To)
		if ok1 && ok2 {
			dc.DrawLine(x1, y1, x2, y2)
		}
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw segments: %w", err)
	}

	// Preview segment
	if seg, ok := snap.Preview(); ok {
		x1, y1, ok1 := project(seg.From)
		x2, y2, ok2 := project(seg.To)
		if ok1 && ok2 {
			dc.SetRGBA(0.25, 0.63, 1, 0.6)
			dc.SetLineWidth(1)
			dc.SetDash(6, 4)
			dc.DrawLine(x1, y1, x2, y2)
			if err := dc.Stroke(); err != nil {
				return fmt.Errorf("failed to draw preview: %w", err)
			}
			dc.ClearDash()
		}
	}

	// Markers
	for _, p := range snap.Points {
		x, y, ok := project(p.Position)
		if !ok {
			continue
		}
		dc.SetRGB(1, 0.25, 0.25)
		dc.DrawCircle(x, y, 5)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to draw marker %d: %w", p.Index, err)
		}

		if r.labels {
			dc.SetFont(r.face)
			dc.SetRGB(1, 1, 1)
			for i, line := range strings.Split(snap.Label(p), "\n") {
				dc.DrawString(line, x+9, y-4+float64(i)*14)
			}
		}
	}

	if snap.Hover != nil {
		if x, y, ok := project(*snap.Hover); ok {
			dc.SetRGB(1, 0.78, 0)
			dc.DrawCircle(x, y, 4)
			if err := dc.Fill(); err != nil {
				return fmt.Errorf("failed to draw hover marker: %w", err)
			}
		}
	}

	return nil
}
