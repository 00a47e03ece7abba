package renderer

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

const (
	// DefaultShadowMaxDistance bounds shadow rays cast from a light
	DefaultShadowMaxDistance = 1e6
	// ShadowEpsilon is the slack allowed between a shadow hit and the shaded point
	ShadowEpsilon = 0.001
)

// RenderConfig contains rendering configuration
type RenderConfig struct {
	TileSize          int     // Size of each tile in pixels
	NumWorkers        int     // Number of parallel workers (0 = auto-detect)
	ShadowMaxDistance float64 // Upper bound of the shadow ray parameter
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:          64,
		NumWorkers:        0,
		ShadowMaxDistance: DefaultShadowMaxDistance,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetGeometries() []core.Geometry
	GetLights() []lights.Light
	GetBackgroundColor() core.Color
}

// ImageSink receives rendered pixels. Render calls it from a single goroutine.
type ImageSink interface {
	SetPixel(x, y int, color core.Color)
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene  Scene
	width  int
	height int
	config RenderConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
		config: DefaultRenderConfig(),
	}
}

// SetConfig updates the render configuration
func (rt *Raytracer) SetConfig(config RenderConfig) {
	if config.ShadowMaxDistance <= 0 {
		config.ShadowMaxDistance = DefaultShadowMaxDistance
	}
	rt.config = config
}

// SetLogger sets the logger used for progress output
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

func (rt *Raytracer) logf(format string, args ...interface{}) {
	if rt.logger != nil {
		rt.logger.Printf(format, args...)
	}
}

// FindFirstIntersection returns the hit with the smallest t among all
// geometries. Ties keep the geometry listed first.
func (rt *Raytracer) FindFirstIntersection(ray core.Ray, minDist, maxDist float64) core.Intersection {
	closest := core.NoIntersection

	for _, geometry := range rt.scene.GetGeometries() {
		hit := geometry.Intersect(ray, minDist, maxDist)
		if !hit.Hit() {
			continue
		}
		if !closest.Hit() || hit.T < closest.T {
			closest = hit
		}
	}

	return closest
}

// IsLit reports whether point receives direct light. A ray is cast from the
// light towards the point; the point is lit unless something is hit
// noticeably before reaching it.
func (rt *Raytracer) IsLit(point core.Vec3, light lights.Light) bool {
	hit := rt.FindFirstIntersection(light.ShadowRay(point), 0, rt.config.ShadowMaxDistance)
	if !hit.Hit() {
		return true
	}
	return hit.T > light.DistanceTo(point)-ShadowEpsilon
}

// Shade evaluates the Phong model at an intersection seen from eye
func (rt *Raytracer) Shade(hit core.Intersection, eye core.Vec3) core.Color {
	result := core.Color{}
	mat := hit.Material
	n := hit.Normal
	e := eye.Subtract(hit.Position).Normalize()

	for _, light := range rt.scene.GetLights() {
		result = result.Add(mat.Ambient.MultiplyColor(light.Ambient))

		if !rt.IsLit(hit.Position, light) {
			continue
		}

		t := light.DirectionTo(hit.Position)
		lit := core.Color{}

		nt := n.Dot(t)
		if nt > 0 {
			lit = lit.Add(mat.Diffuse.MultiplyColor(light.Diffuse).Multiply(nt))
		}

		r := n.Multiply(nt * 2).Subtract(t).Normalize()
		if er := e.Dot(r); er > 0 {
			lit = lit.Add(mat.Specular.MultiplyColor(light.Specular).Multiply(math.Pow(er, mat.Shininess)))
		}

		result = result.Add(lit.Multiply(light.Intensity))
	}

	result.A = 1
	return result
}

// TracePixel returns the color of pixel (i, j)
func (rt *Raytracer) TracePixel(i, j int) core.Color {
	color, _ := rt.tracePixel(i, j)
	return color
}

func (rt *Raytracer) tracePixel(i, j int) (core.Color, bool) {
	camera := rt.scene.GetCamera()
	ray := camera.PrimaryRay(i, j, rt.width, rt.height)

	hit := rt.FindFirstIntersection(ray, camera.FrontPlaneDistance, camera.BackPlaneDistance)
	if !hit.Hit() {
		return rt.scene.GetBackgroundColor(), false
	}
	return rt.Shade(hit, camera.Position), true
}

// RenderBounds traces every pixel of bounds into a row-major buffer
func (rt *Raytracer) RenderBounds(bounds image.Rectangle) ([]core.Color, TileStats) {
	pixels := make([]core.Color, 0, bounds.Dx()*bounds.Dy())
	stats := TileStats{}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			color, hit := rt.tracePixel(i, j)
			pixels = append(pixels, color)
			if hit {
				stats.Hits++
			}
		}
	}
	stats.Pixels = len(pixels)

	return pixels, stats
}

// Render traces the whole image with a pool of workers and writes each pixel
// to sink exactly once. Tiles are handed to the sink as they complete; the
// sink itself is only touched from the calling goroutine.
func (rt *Raytracer) Render(ctx context.Context, sink ImageSink) (RenderStats, error) {
	start := time.Now()

	tileSize := rt.config.TileSize
	if tileSize <= 0 {
		tileSize = DefaultRenderConfig().TileSize
	}
	numWorkers := rt.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tiles := NewTileGrid(rt.width, rt.height, tileSize)
	stats := RenderStats{
		Width:   rt.width,
		Height:  rt.height,
		Tiles:   len(tiles),
		Workers: numWorkers,
	}
	if len(tiles) == 0 {
		return stats, nil
	}

	rt.logf("Rendering %dx%d in %d tiles with %d workers\n", rt.width, rt.height, len(tiles), numWorkers)

	pool := NewWorkerPool(rt, len(tiles), numWorkers)
	pool.Start()
	defer pool.Stop()

	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Ctx: ctx, Tile: tile, TaskID: taskID})
	}

	var firstErr error
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			return stats, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		b := result.Tile.Bounds
		k := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				sink.SetPixel(x, y, result.Pixels[k])
				k++
			}
		}
		stats.Add(result.Stats)
	}

	stats.Duration = time.Since(start)
	if firstErr != nil {
		return stats, fmt.Errorf("render interrupted: %w", firstErr)
	}

	rt.logf("Rendered %d pixels in %v\n", stats.TotalPixels, stats.Duration)
	return stats, nil
}
