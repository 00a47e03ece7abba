package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// NewEllipsoidsScene creates ellipsoids stretched along each axis above a
// flattened ellipsoid floor
func NewEllipsoidsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene("ellipsoids", cameraWithOverrides(defaultCameraConfig(), cameraOverrides), core.Black)

	s.AddGeometry(
		// Tall along y
		geometry.NewEllipsoid(core.NewVec3(-5, 1, 0), core.NewVec3(1, 2, 1), 1.5, mustMaterial("cyan"), core.White),
		// Wide along x
		geometry.NewEllipsoid(core.NewVec3(0, -0.5, 1), core.NewVec3(2, 1, 1), 1.5, mustMaterial("gold"), core.White),
		// Deep along z
		geometry.NewEllipsoid(core.NewVec3(5, 0, 0), core.NewVec3(1, 1, 2), 1.5, mustMaterial("copper"), core.White),
		// Nearly spherical, in front
		geometry.NewEllipsoid(core.NewVec3(-1.5, -1.25, -5), core.NewVec3(1, 0.8, 1), 1, mustMaterial("red"), core.White),
		// Floor
		geometry.NewEllipsoid(core.NewVec3(0, -3, 0), core.NewVec3(30, 0.5, 30), 1, mustMaterial("white"), core.White),
	)

	s.AddLight(
		lights.NewWhiteLight(core.NewVec3(-10, 15, -20), 1),
		lights.NewWhiteLight(core.NewVec3(15, 5, -5), 0.4),
	)

	return s
}
