package pick

import "github.com/philipparndt/gopick/pkg/geometry"

// Project maps a world point to viewport pixel coordinates with the same
// transform BuildRay inverts. depth is the NDC depth in [-1, 1] for visible points.
// ok is false for points at or behind the camera plane.
func Project(p geometry.Vector3, vp Viewport, cam CameraTransform) (x, y, depth float64, ok bool) {
	m := cam.Projection.Mul(cam.View)

	cx := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	cy := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	cz := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w <= 0 {
		return 0, 0, 0, false
	}

	ndcX, ndcY := cx/w, cy/w
	x = vp.Left + (ndcX+1)/2*vp.Width
	y = vp.Top + (1-ndcY)/2*vp.Height
	return x, y, cz / w, true
}
