package lights

import "github.com/df07/go-phong-raytracer/pkg/core"

// Light is a point light with separate Phong contributions.
// Intensity scales the diffuse and specular terms only.
type Light struct {
	Position  core.Vec3
	Ambient   core.Color
	Diffuse   core.Color
	Specular  core.Color
	Intensity float64
}

// NewLight creates a point light
func NewLight(position core.Vec3, ambient, diffuse, specular core.Color, intensity float64) Light {
	return Light{
		Position:  position,
		Ambient:   ambient,
		Diffuse:   diffuse,
		Specular:  specular,
		Intensity: intensity,
	}
}

// NewWhiteLight creates a light with a dim ambient term and white
// diffuse and specular terms
func NewWhiteLight(position core.Vec3, intensity float64) Light {
	return NewLight(
		position,
		core.NewColor(0.8, 0.8, 0.8),
		core.NewColor(0.8, 0.8, 0.8),
		core.NewColor(0.8, 0.8, 0.8),
		intensity,
	)
}

// DirectionTo returns the unit vector from point towards the light
func (l Light) DirectionTo(point core.Vec3) core.Vec3 {
	return l.Position.Subtract(point).Normalize()
}

// DistanceTo returns the distance between the light and point
func (l Light) DistanceTo(point core.Vec3) float64 {
	return l.Position.Subtract(point).Length()
}

// ShadowRay returns the ray cast from the light towards point
func (l Light) ShadowRay(point core.Vec3) core.Ray {
	return core.NewRayBetween(l.Position, point)
}
