package renderer

import (
	"image"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// TileStats contains statistics about one rendered tile
type TileStats struct {
	Pixels int // Pixels traced
	Hits   int // Pixels whose primary ray hit a geometry
}

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width       int
	Height      int
	Tiles       int           // Number of tiles in the grid
	Workers     int           // Number of parallel workers used
	TotalPixels int           // Total number of pixels rendered
	Hits        int           // Pixels shaded from a hit
	Misses      int           // Pixels filled with the background color
	Duration    time.Duration // Wall-clock render time
}

// Add accumulates the statistics of one tile
func (s *RenderStats) Add(tile TileStats) {
	s.TotalPixels += tile.Pixels
	s.Hits += tile.Hits
	s.Misses += tile.Pixels - tile.Hits
}

// Coverage returns the fraction of rendered pixels that hit a geometry
func (s RenderStats) Coverage() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.TotalPixels)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image,
// with channels scaled to [0,1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	count := bounds.Dx() * bounds.Dy()
	if count == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := core.NewColor(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
			total += 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
		}
	}

	return total / float64(count)
}
