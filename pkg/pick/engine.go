package pick

import (
	"github.com/philipparndt/gopick/pkg/bvh"
	"github.com/philipparndt/gopick/pkg/geometry"
)

// Target is anything that can answer a nearest-hit ray query; *bvh.Index is the usual one
type Target interface {
	Intersect(ray geometry.Ray) (bvh.Hit, bool)
}

// Intersect queries every target independently and returns the globally nearest hit.
// Each hit carries the mesh identity of the target it came from. When two targets
// report the same distance the earlier target wins.
func Intersect(ray geometry.Ray, targets ...Target) (bvh.Hit, bool) {
	var best bvh.Hit
	found := false
	for _, target := range targets {
		if target == nil {
			continue
		}
		hit, ok := target.Intersect(ray)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}
	return best, found
}

// Pick builds the ray for a pointer position and intersects it with the targets.
// A miss is reported as ok == false with a nil error.
func Pick(pointerX, pointerY float64, vp Viewport, cam CameraTransform, targets ...Target) (bvh.Hit, bool, error) {
	ray, err := BuildRay(pointerX, pointerY, vp, cam)
	if err != nil {
		return bvh.Hit{}, false, err
	}
	hit, ok := Intersect(ray, targets...)
	return hit, ok, nil
}
