package core

import "math"

// DiscriminantEpsilon is the smallest discriminant treated as a real
// intersection. Tangent rays fall below it and count as misses.
const DiscriminantEpsilon = 0.001

// SolveNearestRoot solves a*t² + b*t + c = 0 and returns the smallest root
// inside [tMin, tMax]. Each root is range-checked on its own, so the result
// does not depend on the sign of a.
func SolveNearestRoot(a, b, c, tMin, tMax float64) (float64, bool) {
	if math.Abs(a) < 1e-12 {
		return 0, false
	}

	discriminant := b*b - 4*a*c
	if discriminant < DiscriminantEpsilon {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)

	valid1 := t1 >= tMin && t1 <= tMax
	valid2 := t2 >= tMin && t2 <= tMax

	switch {
	case valid1 && valid2:
		return math.Min(t1, t2), true
	case valid1:
		return t1, true
	case valid2:
		return t2, true
	default:
		return 0, false
	}
}
