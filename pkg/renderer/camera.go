package renderer

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Camera is a pinhole camera projecting through a rectangular view plane
type Camera struct {
	Position  core.Vec3 // Eye point
	Direction core.Vec3 // Unit view direction
	Up        core.Vec3 // Unit up vector, spans the view plane's vertical axis

	ViewPlaneDistance float64 // Distance from the eye to the view plane
	ViewPlaneWidth    float64 // World width of the view plane
	ViewPlaneHeight   float64 // World height of the view plane

	FrontPlaneDistance float64 // Primary rays ignore hits closer than this
	BackPlaneDistance  float64 // Primary rays ignore hits further than this
}

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Position           core.Vec3
	Direction          core.Vec3
	Up                 core.Vec3
	ViewPlaneDistance  float64
	ViewPlaneWidth     float64
	ViewPlaneHeight    float64
	FrontPlaneDistance float64
	BackPlaneDistance  float64
}

// DefaultCameraConfig looks down +z from the origin with a unit view plane
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:           core.NewVec3(0, 0, 0),
		Direction:          core.NewVec3(0, 0, 1),
		Up:                 core.NewVec3(0, 1, 0),
		ViewPlaneDistance:  1,
		ViewPlaneWidth:     1,
		ViewPlaneHeight:    1,
		FrontPlaneDistance: 0,
		BackPlaneDistance:  1000,
	}
}

// MergeCameraConfig overlays the non-zero fields of override onto base
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	zero := core.Vec3{}

	if override.Position != zero {
		result.Position = override.Position
	}
	if override.Direction != zero {
		result.Direction = override.Direction
	}
	if override.Up != zero {
		result.Up = override.Up
	}
	if override.ViewPlaneDistance != 0 {
		result.ViewPlaneDistance = override.ViewPlaneDistance
	}
	if override.ViewPlaneWidth != 0 {
		result.ViewPlaneWidth = override.ViewPlaneWidth
	}
	if override.ViewPlaneHeight != 0 {
		result.ViewPlaneHeight = override.ViewPlaneHeight
	}
	if override.FrontPlaneDistance != 0 {
		result.FrontPlaneDistance = override.FrontPlaneDistance
	}
	if override.BackPlaneDistance != 0 {
		result.BackPlaneDistance = override.BackPlaneDistance
	}

	return result
}

// NewCamera creates a camera, normalizing the direction and up vectors
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		Position:           config.Position,
		Direction:          config.Direction.Normalize(),
		Up:                 config.Up.Normalize(),
		ViewPlaneDistance:  config.ViewPlaneDistance,
		ViewPlaneWidth:     config.ViewPlaneWidth,
		ViewPlaneHeight:    config.ViewPlaneHeight,
		FrontPlaneDistance: config.FrontPlaneDistance,
		BackPlaneDistance:  config.BackPlaneDistance,
	}
}

// ImageToViewPlane maps pixel index n of an axis with imgSize pixels onto a
// view plane axis of the given world size. Index 0 maps to +size/2 and the
// mapping decreases by size/imgSize per pixel.
func ImageToViewPlane(n, imgSize int, viewPlaneSize float64) float64 {
	return -float64(n)*viewPlaneSize/float64(imgSize) + viewPlaneSize/2
}

// Right returns the unit horizontal axis of the view plane
func (c *Camera) Right() core.Vec3 {
	return c.Up.Cross(c.Direction).Normalize()
}

// ViewPlanePoint returns the world position of pixel (i, j) on the view plane
func (c *Camera) ViewPlanePoint(i, j, width, height int) core.Vec3 {
	u := ImageToViewPlane(i, width, c.ViewPlaneWidth)
	v := ImageToViewPlane(j, height, c.ViewPlaneHeight)

	return c.Position.
		Add(c.Direction.Multiply(c.ViewPlaneDistance)).
		Add(c.Right().Multiply(u)).
		Add(c.Up.Multiply(v))
}

// PrimaryRay returns the unit-direction ray from the eye through pixel (i, j)
func (c *Camera) PrimaryRay(i, j, width, height int) core.Ray {
	return core.NewRayBetween(c.Position, c.ViewPlanePoint(i, j, width, height))
}
