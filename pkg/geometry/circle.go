package geometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrCollinear is returned when the points used for a circle fit lie on a line
var ErrCollinear = errors.New("points are collinear")

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Unit normal of the plane containing the circle
	StdDev float64 // Standard deviation of fit (quality measure)
}

// Circumcircle returns the circle through three points in their own plane
func Circumcircle(a, b, c Vector3) (CircleFit, error) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	n := ab.Cross(ac)
	nn := n.Dot(n)

	scale := math.Max(ab.Dot(ab), ac.Dot(ac))
	if scale == 0 || nn < 1e-20*scale*scale {
		return CircleFit{}, ErrCollinear
	}

	// a + (|ac|² (n × ab) + |ab|² (ac × n)) / 2|n|²
	offset := n.Cross(ab).Mul(ac.Dot(ac)).Add(ac.Cross(n).Mul(ab.Dot(ab))).Mul(1 / (2 * nn))
	return CircleFit{
		Center: a.Add(offset),
		Radius: offset.Length(),
		Normal: n.Normalize(),
	}, nil
}

// FitCircle fits a circle to points picked along an arc. The circle passes
// through the first, middle and last point; StdDev measures how far the
// remaining points are off the circle, including their distance from its plane.
func FitCircle(points []Vector3) (CircleFit, error) {
	if len(points) < 3 {
		return CircleFit{}, fmt.Errorf("need at least 3 points to fit a circle, got %d", len(points))
	}

	fit, err := Circumcircle(points[0], points[len(points)/2], points[len(points)-1])
	if err != nil {
		return CircleFit{}, err
	}

	var sumError float64
	for _, p := range points {
		d := p.Sub(fit.Center)
		height := d.Dot(fit.Normal)
		inPlane := d.Sub(fit.Normal.Mul(height)).Length()
		sumError += (inPlane-fit.Radius)*(inPlane-fit.Radius) + height*height
	}
	fit.StdDev = math.Sqrt(sumError / float64(len(points)))

	return fit, nil
}
