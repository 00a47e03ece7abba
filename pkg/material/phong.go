package material

import (
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// NewPhong creates a Phong material from its four coefficients
func NewPhong(ambient, diffuse, specular core.Color, shininess float64) core.Material {
	return core.Material{
		Ambient:   ambient,
		Diffuse:   diffuse,
		Specular:  specular,
		Shininess: shininess,
	}
}

// NewPlastic creates a material with a tinted diffuse lobe and a white highlight
func NewPlastic(albedo core.Color, shininess float64) core.Material {
	return NewPhong(
		albedo.Multiply(0.1),
		albedo,
		core.NewColor(0.5, 0.5, 0.5),
		shininess,
	)
}

// NewMetal creates a material whose highlight takes the albedo tint
func NewMetal(albedo core.Color, shininess float64) core.Material {
	return NewPhong(
		albedo.Multiply(0.1),
		albedo.Multiply(0.4),
		albedo,
		shininess,
	)
}

// FromColor synthesizes a material for a sample that has no static
// material, such as a composited voxel color.
func FromColor(c core.Color) core.Material {
	opaque := core.NewColor(c.R, c.G, c.B)
	return NewPhong(
		opaque.Multiply(0.1),
		opaque,
		core.NewColor(0.5, 0.5, 0.5),
		16,
	)
}

var presets = map[string]core.Material{
	"red":    NewPlastic(core.NewColor(0.8, 0.1, 0.1), 100),
	"green":  NewPlastic(core.NewColor(0.1, 0.8, 0.1), 100),
	"blue":   NewPlastic(core.NewColor(0.1, 0.1, 0.8), 100),
	"yellow": NewPlastic(core.NewColor(0.8, 0.8, 0.1), 100),
	"cyan":   NewPlastic(core.NewColor(0.1, 0.8, 0.8), 100),
	"white":  NewPlastic(core.NewColor(0.9, 0.9, 0.9), 50),
	"gold":   NewMetal(core.NewColor(1.0, 0.78, 0.34), 200),
	"silver": NewMetal(core.NewColor(0.95, 0.93, 0.88), 200),
	"copper": NewMetal(core.NewColor(0.95, 0.64, 0.54), 150),
}

// Lookup returns a named preset material (case insensitive)
func Lookup(name string) (core.Material, bool) {
	m, ok := presets[strings.ToLower(name)]
	return m, ok
}

// Names returns the preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
