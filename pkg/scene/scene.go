package scene

import (
	"errors"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

var (
	// ErrUnknownScene is returned for scene names that are neither built in
	// nor a readable scene file
	ErrUnknownScene = errors.New("unknown scene")
	// ErrUnknownGeometry is returned for scene file geometries of an
	// unsupported type
	ErrUnknownGeometry = errors.New("unknown geometry type")
	// ErrUnknownMaterial is returned when a scene file names a material that
	// is neither defined in the file nor a preset
	ErrUnknownMaterial = errors.New("unknown material")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Camera       *renderer.Camera
	CameraConfig renderer.CameraConfig
	Geometries   []core.Geometry // Intersected in order, first listed wins ties
	Lights       []lights.Light
	Background   core.Color // Color of pixels whose primary ray hits nothing
}

// NewScene creates an empty scene viewed through the given camera
func NewScene(name string, cameraConfig renderer.CameraConfig, background core.Color) *Scene {
	return &Scene{
		Name:         name,
		Camera:       renderer.NewCamera(cameraConfig),
		CameraConfig: cameraConfig,
		Geometries:   make([]core.Geometry, 0),
		Lights:       make([]lights.Light, 0),
		Background:   background,
	}
}

// cameraWithOverrides merges the first override, if any, onto base
func cameraWithOverrides(base renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	if len(overrides) > 0 {
		return renderer.MergeCameraConfig(base, overrides[0])
	}
	return base
}

// AddGeometry appends geometries to the scene
func (s *Scene) AddGeometry(geometries ...core.Geometry) {
	s.Geometries = append(s.Geometries, geometries...)
}

// AddLight appends lights to the scene
func (s *Scene) AddLight(l ...lights.Light) {
	s.Lights = append(s.Lights, l...)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetGeometries returns the scene geometries
func (s *Scene) GetGeometries() []core.Geometry {
	return s.Geometries
}

// GetLights returns the scene lights
func (s *Scene) GetLights() []lights.Light {
	return s.Lights
}

// GetBackgroundColor returns the background color
func (s *Scene) GetBackgroundColor() core.Color {
	return s.Background
}
