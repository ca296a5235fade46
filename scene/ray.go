package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is a bounding sphere in a node's local space: a center offset from
// the node's origin plus a radius.
type Bounds struct {
	Center mgl64.Vec3
	Radius float64
}

// Hit is one ray/volume intersection.
type Hit struct {
	Node     *Node
	Distance float64
}

// Ray is a half-line with origin and unit direction in world space.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay builds a ray, normalizing the direction. A zero direction yields a
// ray pointing down -Z.
func NewRay(origin, direction mgl64.Vec3) Ray {
	if direction.Len() == 0 {
		direction = mgl64.Vec3{0, 0, -1}
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectSphere returns the non-negative hit distances of the ray against
// a world-space sphere, sorted ascending. A ray starting inside the sphere
// yields only the exit distance; a miss yields an empty slice.
func (r Ray) IntersectSphere(center mgl64.Vec3, radius float64) []float64 {
	oc := r.Origin.Sub(center)
	// Direction is unit length, so a == 1.
	b := 2 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*c
	if disc < 0 {
		return nil
	}

	sqrtDisc := math.Sqrt(disc)
	t0 := (-b - sqrtDisc) / 2
	t1 := (-b + sqrtDisc) / 2

	var hits []float64
	if t0 >= 0 {
		hits = append(hits, t0)
	}
	if t1 >= 0 && t1 != t0 {
		hits = append(hits, t1)
	}
	return hits
}
