package scene

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// Density bands of the synthetic phantom
const (
	phantomTissue = 90
	phantomBone   = 220
)

// SyntheticVolume generates an n³ phantom: a soft tissue ball with a dense
// core, pierced by an empty channel along z
func SyntheticVolume(n int) *loaders.Volume {
	n = max(n, 1)
	header := loaders.VolumeHeader{
		Resolution: [3]int{n, n, n},
		Thickness:  [3]float64{1, 1, 1},
	}
	data := make([]byte, header.SampleCount())

	half := float64(n) / 2
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dx := (float64(x) + 0.5 - half) / half
				dy := (float64(y) + 0.5 - half) / half
				dz := (float64(z) + 0.5 - half) / half
				r := math.Sqrt(dx*dx + dy*dy + dz*dz)

				var v byte
				switch {
				case math.Hypot(dx-0.45, dy) < 0.12:
					v = 0
				case r < 0.4:
					v = phantomBone
				case r < 0.85:
					v = phantomTissue
				}
				data[z*n*n+y*n+x] = v
			}
		}
	}

	volume, err := loaders.NewVolume(header, data)
	if err != nil {
		panic(err)
	}
	return volume
}

// NewTissueColorMap maps soft densities to a faint translucent red and
// dense ones to opaque bone white
func NewTissueColorMap() *material.ColorMap {
	return material.NewColorMap().
		Add(1, 127, core.NewColorAlpha(0.9, 0.45, 0.35, 0.12)).
		Add(128, 255, core.NewColorAlpha(1, 0.97, 0.88, 1))
}

// NewCenteredCTMask scales a volume so its largest side spans size world
// units and centers it on center
func NewCenteredCTMask(volume *loaders.Volume, center core.Vec3, size float64, colorMap geometry.ColorMapper) *geometry.CTMask {
	extent := 0.0
	for i := 0; i < 3; i++ {
		extent = math.Max(extent, float64(volume.Resolution[i])*volume.Thickness[i])
	}
	scale := size / extent

	half := core.NewVec3(
		float64(volume.Resolution[0])*volume.Thickness[0],
		float64(volume.Resolution[1])*volume.Thickness[1],
		float64(volume.Resolution[2])*volume.Thickness[2],
	).Multiply(scale / 2)

	return geometry.NewCTMask(volume, center.Subtract(half), scale, colorMap)
}

// NewCTMaskScene shows a volume next to a sphere. A nil volume uses a
// synthetic phantom and a nil colorMap the tissue map.
func NewCTMaskScene(volume *loaders.Volume, colorMap geometry.ColorMapper, cameraOverrides ...renderer.CameraConfig) *Scene {
	if volume == nil {
		volume = SyntheticVolume(48)
	}
	if colorMap == nil {
		colorMap = NewTissueColorMap()
	}

	s := NewScene("ctmask", cameraWithOverrides(defaultCameraConfig(), cameraOverrides), core.NewColor(0.2, 0.2, 0.2))

	s.AddGeometry(
		NewCenteredCTMask(volume, core.NewVec3(-1.5, 1, 0), 8, colorMap),
		geometry.NewSphere(core.NewVec3(5, -1, -1), 2, mustMaterial("silver"), core.White),
	)

	s.AddLight(lights.NewWhiteLight(core.NewVec3(5, 15, -20), 1))

	return s
}
