package geometry

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
	Color    core.Color
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material core.Material, color core.Color) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
		Color:    color,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray, minDist, maxDist float64) core.Intersection {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// |X0 + t*Dx - C|² = R²  =>  a*t² + b*t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	t, ok := core.SolveNearestRoot(a, b, c, minDist, maxDist)
	if !ok {
		return core.NoIntersection
	}

	return core.NewIntersection(s, ray, t, s.Normal(ray.At(t)), s.Material, s.Color)
}

// Normal returns the outward normal at a point on the sphere
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}
