package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Geometry is anything a ray can be intersected with.
// Implementations are immutable and safe for concurrent use.
type Geometry interface {
	// Intersect returns the nearest hit with t in [minDist, maxDist],
	// or NoIntersection.
	Intersect(ray Ray, minDist, maxDist float64) Intersection
	// Normal returns the unit outward normal at a point on the surface.
	Normal(point Vec3) Vec3
}
