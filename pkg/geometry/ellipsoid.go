package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Ellipsoid is the quadric Σ ((p-C)ᵢ/Lᵢ)² = R² with semi-axis lengths L
// and overall radius scale R.
type Ellipsoid struct {
	Center         core.Vec3
	SemiAxesLength core.Vec3
	Radius         float64
	Material       core.Material
	Color          core.Color
}

// NewEllipsoid creates a new ellipsoid. Only the magnitude of each semi-axis
// matters; an ellipsoid with a zero or non-finite axis is never hit.
func NewEllipsoid(center, semiAxesLength core.Vec3, radius float64, material core.Material, color core.Color) *Ellipsoid {
	return &Ellipsoid{
		Center:         center,
		SemiAxesLength: core.NewVec3(math.Abs(semiAxesLength.X), math.Abs(semiAxesLength.Y), math.Abs(semiAxesLength.Z)),
		Radius:         radius,
		Material:       material,
		Color:          color,
	}
}

// degenerate reports whether a semi-axis is zero, NaN or infinite
func (e *Ellipsoid) degenerate() bool {
	for axis := 0; axis < 3; axis++ {
		l := e.SemiAxesLength.Component(axis)
		if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
			return true
		}
	}
	return false
}

// invAxesSquared returns 1/Lᵢ² per axis
func (e *Ellipsoid) invAxesSquared() core.Vec3 {
	l := e.SemiAxesLength
	return core.NewVec3(1/(l.X*l.X), 1/(l.Y*l.Y), 1/(l.Z*l.Z))
}

// Intersect tests if a ray intersects with the ellipsoid
func (e *Ellipsoid) Intersect(ray core.Ray, minDist, maxDist float64) core.Intersection {
	if e.degenerate() {
		return core.NoIntersection
	}
	w := e.invAxesSquared()
	d := ray.Direction
	oc := ray.Origin.Subtract(e.Center)

	a := d.MultiplyVec(d).Dot(w)
	b := 2 * d.MultiplyVec(oc).Dot(w)
	c := oc.MultiplyVec(oc).Dot(w) - e.Radius*e.Radius

	t, ok := core.SolveNearestRoot(a, b, c, minDist, maxDist)
	if !ok {
		return core.NoIntersection
	}

	return core.NewIntersection(e, ray, t, e.Normal(ray.At(t)), e.Material, e.Color)
}

// Normal returns the normalized gradient of the implicit surface
func (e *Ellipsoid) Normal(point core.Vec3) core.Vec3 {
	if e.degenerate() {
		return core.NewVec3(0, 0, 1)
	}
	return point.Subtract(e.Center).MultiplyVec(e.invAxesSquared()).Multiply(2).Normalize()
}

// BoundingBox returns the axis-aligned bounding box for this ellipsoid
func (e *Ellipsoid) BoundingBox() core.AABB {
	extent := e.SemiAxesLength.Multiply(e.Radius)
	return core.NewAABB(
		e.Center.Subtract(extent),
		e.Center.Add(extent),
	)
}
