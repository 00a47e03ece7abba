package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// NewDefaultScene combines one of each geometry kind
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene("default", cameraWithOverrides(defaultCameraConfig(), cameraOverrides), core.NewColor(0.2, 0.2, 0.2))

	s.AddGeometry(
		geometry.NewSphere(core.NewVec3(-4.5, 0, 0), 2, mustMaterial("red"), core.White),
		geometry.NewEllipsoid(core.NewVec3(4.5, 0, 0), core.NewVec3(1, 1.5, 1), 1.5, mustMaterial("gold"), core.White),
		NewCenteredCTMask(SyntheticVolume(32), core.NewVec3(0, 0, 1), 5, NewTissueColorMap()),
		geometry.NewSphere(core.NewVec3(0, -1002.5, 0), 1000, mustMaterial("white"), core.White),
	)

	s.AddLight(lights.NewWhiteLight(core.NewVec3(-10, 20, -20), 1))

	return s
}
