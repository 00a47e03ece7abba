package scene

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// defaultCameraConfig frames objects near the origin from 20 units back
func defaultCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		Position:           core.NewVec3(0, 1, -20),
		Direction:          core.NewVec3(0, 0, 1),
		Up:                 core.NewVec3(0, 1, 0),
		ViewPlaneDistance:  1,
		ViewPlaneWidth:     0.8,
		ViewPlaneHeight:    0.8,
		FrontPlaneDistance: 0,
		BackPlaneDistance:  1000,
	}
}

func mustMaterial(name string) core.Material {
	m, ok := material.Lookup(name)
	if !ok {
		panic("missing preset material " + name)
	}
	return m
}

// NewSpheresScene creates three plastic spheres and a small gold one resting
// on a huge ground sphere, lit by a key and a fill light
func NewSpheresScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene("spheres", cameraWithOverrides(defaultCameraConfig(), cameraOverrides), core.Black)

	s.AddGeometry(
		geometry.NewSphere(core.NewVec3(-4.5, 0, 0), 2, mustMaterial("red"), core.White),
		geometry.NewSphere(core.NewVec3(0, 0.5, 2), 2.5, mustMaterial("green"), core.White),
		geometry.NewSphere(core.NewVec3(4.5, 0, 0), 2, mustMaterial("blue"), core.White),
		geometry.NewSphere(core.NewVec3(1.5, -1, -4), 1, mustMaterial("gold"), core.White),
		geometry.NewSphere(core.NewVec3(0, -1002, 0), 1000, mustMaterial("white"), core.White),
	)

	s.AddLight(
		lights.NewWhiteLight(core.NewVec3(-15, 20, -15), 1),
		lights.NewLight(
			core.NewVec3(20, 10, -10),
			core.NewColor(0.05, 0.05, 0.05),
			core.NewColor(0.5, 0.5, 0.6),
			core.NewColor(0.5, 0.5, 0.6),
			0.7,
		),
	)

	return s
}
