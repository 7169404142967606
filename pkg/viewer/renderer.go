package viewer

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gopick/internal/annotation"
	"github.com/philipparndt/gopick/internal/scene"
	"github.com/philipparndt/gopick/pkg/geometry"
	"github.com/philipparndt/gopick/pkg/pick"
)

var (
	markerColor  = color.NRGBA{R: 255, G: 64, B: 64, A: 255}
	hoverColor   = color.NRGBA{R: 255, G: 200, B: 0, A: 255}
	segmentColor = color.NRGBA{R: 64, G: 160, B: 255, A: 255}
	previewColor = color.NRGBA{R: 64, G: 160, B: 255, A: 128}
	labelColor   = color.White
)

// MeshView renders the active mesh and its annotations and routes pointer input
// to a session. Single and double taps are both forwarded; the session decides
// which one confirms.
type MeshView struct {
	widget.BaseWidget
	session    *scene.Session
	camera     *OrbitCamera
	size       fyne.Size
	dragStart  *fyne.Position
	isDragging bool
	onChange   func(annotation.Snapshot)
	onError    func(error)
}

// NewMeshView creates a view over the session. The view becomes the session's ViewProvider.
func NewMeshView(session *scene.Session, camera *OrbitCamera) *MeshView {
	v := &MeshView{
		session: session,
		camera:  camera,
	}
	session.SetView(v)
	v.ExtendBaseWidget(v)
	return v
}

// SetOnChange sets the callback invoked after input changed the annotations
func (v *MeshView) SetOnChange(callback func(annotation.Snapshot)) {
	v.onChange = callback
}

// SetOnError sets the callback for pick errors other than an unsized viewport
func (v *MeshView) SetOnError(callback func(error)) {
	v.onError = callback
}

// SetCamera replaces the camera, for example after a mesh swap
func (v *MeshView) SetCamera(camera *OrbitCamera) {
	v.camera = camera
	v.Refresh()
}

// Camera returns the current camera
func (v *MeshView) Camera() *OrbitCamera {
	return v.camera
}

// View implements scene.ViewProvider
func (v *MeshView) View() (pick.Viewport, pick.CameraTransform) {
	vp := pick.NewViewport(float64(v.size.Width), float64(v.size.Height))
	return vp, v.camera.Transform(vp)
}

// MouseIn is required by desktop.Hoverable
func (v *MeshView) MouseIn(*desktop.MouseEvent) {}

// MouseMoved updates the hover point
func (v *MeshView) MouseMoved(event *desktop.MouseEvent) {
	if v.isDragging {
		return
	}
	v.handle(v.session.PointerMove(float64(event.Position.X), float64(event.Position.Y)))
}

// MouseOut is required by desktop.Hoverable
func (v *MeshView) MouseOut() {}

// Tapped forwards a single tap
func (v *MeshView) Tapped(event *fyne.PointEvent) {
	if v.isDragging {
		return
	}
	_, _, err := v.session.PointerTap(float64(event.Position.X), float64(event.Position.Y))
	v.handle(err)
}

// DoubleTapped forwards a double tap
func (v *MeshView) DoubleTapped(event *fyne.PointEvent) {
	_, _, err := v.session.PointerDoubleTap(float64(event.Position.X), float64(event.Position.Y))
	v.handle(err)
}

// Dragged handles mouse drag events for rotation
func (v *MeshView) Dragged(event *fyne.DragEvent) {
	if v.dragStart != nil {
		deltaX := event.Position.X - v.dragStart.X
		deltaY := event.Position.Y - v.dragStart.Y

		v.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
		v.Refresh()
	}
	pos := event.Position
	v.dragStart = &pos
	v.isDragging = true
}

// DragEnd handles the end of a drag event
func (v *MeshView) DragEnd() {
	v.dragStart = nil
	v.isDragging = false
}

// Scrolled handles scroll events for zooming
func (v *MeshView) Scrolled(event *fyne.ScrollEvent) {
	v.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	v.Refresh()
}

func (v *MeshView) handle(err error) {
	if err != nil {
		// Input before the first layout has no viewport yet
		if v.onError != nil && v.size.Width > 0 && v.size.Height > 0 {
			v.onError(err)
		}
		return
	}
	v.Refresh()
	if v.onChange != nil {
		v.onChange(v.session.Snapshot())
	}
}

// CreateRenderer creates the renderer for the widget
func (v *MeshView) CreateRenderer() fyne.WidgetRenderer {
	return &meshViewRenderer{view: v}
}

// meshViewRenderer implements fyne.WidgetRenderer
type meshViewRenderer struct {
	view    *MeshView
	objects []fyne.CanvasObject
}

func (r *meshViewRenderer) Layout(size fyne.Size) {
	r.view.size = size
	r.rebuild()
}

func (r *meshViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (r *meshViewRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.view)
}

func (r *meshViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *meshViewRenderer) Destroy() {}

func (r *meshViewRenderer) rebuild() {
	v := r.view
	vp, cam := v.View()
	if !vp.Valid() {
		r.objects = nil
		return
	}

	project := func(p geometry.Vector3) (fyne.Position, bool) {
		x, y, _, ok := pick.Project(p, vp, cam)
		return fyne.NewPos(float32(x), float32(y)), ok
	}

	objects := make([]fyne.CanvasObject, 0)

	// Wireframe
	for _, triangle := range v.session.Controller().Mesh().Triangles {
		vertices := [3]geometry.Vector3{triangle.V1, triangle.V2, triangle.V3}
		for i := 0; i < 3; i++ {
			p1, ok1 := project(vertices[i])
			p2, ok2 := project(vertices[(i+1)%3])
			if !ok1 || !ok2 {
				continue
			}
			objects = append(objects, newLine(p1, p2, color.NRGBA{R: 150, G: 150, B: 150, A: 255}, 1))
		}
	}

	snap := v.session.Snapshot()

	for _, seg := range snap.Segments() {
		p1, ok1 := project(seg.From)
		p2, ok2 := project(seg.To)
		if ok1 && ok2 {
			objects = append(objects, newLine(p1, p2, segmentColor, 2))
		}
	}
	if seg, ok := snap.Preview(); ok {
		p1, ok1 := project(seg.From)
		p2, ok2 := project(seg.To)
		if ok1 && ok2 {
			objects = append(objects, newLine(p1, p2, previewColor, 1))
		}
	}

	for _, point := range snap.Points {
		pos, ok := project(point.Position)
		if !ok {
			continue
		}
		objects = append(objects, newMarker(pos, markerColor, 10))
		for i, line := range strings.Split(snap.Label(point), "\n") {
			text := canvas.NewText(line, labelColor)
			text.TextSize = 11
			text.Move(fyne.NewPos(pos.X+8, pos.Y-8+float32(i)*13))
			objects = append(objects, text)
		}
	}

	if snap.Hover != nil {
		if pos, ok := project(*snap.Hover); ok {
			objects = append(objects, newMarker(pos, hoverColor, 8))
		}
	}

	r.objects = objects
}

func newLine(p1, p2 fyne.Position, c color.Color, width float32) *canvas.Line {
	line := canvas.NewLine(c)
	line.StrokeWidth = width
	line.Position1 = p1
	line.Position2 = p2
	return line
}

func newMarker(pos fyne.Position, c color.Color, size float32) *canvas.Circle {
	marker := canvas.NewCircle(c)
	marker.StrokeColor = color.White
	marker.StrokeWidth = 2
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(pos.X-size/2, pos.Y-size/2))
	return marker
}
