package material

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
)

// ColorRange maps samples in [From, To] to a color
type ColorRange struct {
	From  float64
	To    float64
	Color core.Color
}

// ColorMap is a transfer function from scalar samples to colors with opacity.
// Samples matching no range are fully transparent.
type ColorMap struct {
	ranges []ColorRange
}

// NewColorMap creates an empty color map
func NewColorMap() *ColorMap {
	return &ColorMap{}
}

// Add appends a range; earlier ranges win when they overlap
func (cm *ColorMap) Add(from, to float64, color core.Color) *ColorMap {
	if from > to {
		from, to = to, from
	}
	cm.ranges = append(cm.ranges, ColorRange{From: from, To: to, Color: color})
	return cm
}

// GetColor looks up the color for a sample value
func (cm *ColorMap) GetColor(value float64) core.Color {
	for _, r := range cm.ranges {
		if value >= r.From && value <= r.To {
			return r.Color
		}
	}
	return core.Color{}
}

// Ranges returns a copy of the configured ranges
func (cm *ColorMap) Ranges() []ColorRange {
	return append([]ColorRange(nil), cm.ranges...)
}

// NewColorMapFromImage builds a 256 entry map from a horizontal gradient
// strip: sample v reads the middle row at x = v*(width-1)/255.
// Pixel alpha is scaled by opacity. Sample 0 always stays transparent.
func NewColorMapFromImage(strip *loaders.ImageData, opacity float64) (*ColorMap, error) {
	if strip == nil || strip.Width == 0 || strip.Height == 0 {
		return nil, fmt.Errorf("empty color map image")
	}

	cm := NewColorMap()
	row := strip.Height / 2
	for v := 1; v <= 255; v++ {
		x := int(math.Round(float64(v) * float64(strip.Width-1) / 255.0))
		c := strip.At(x, row)
		c.A = math.Max(0, math.Min(1, c.A*opacity))
		cm.Add(float64(v), float64(v), c)
	}
	return cm, nil
}

// NewGrayscaleColorMap maps density linearly to gray with constant opacity
func NewGrayscaleColorMap(opacity float64) *ColorMap {
	cm := NewColorMap()
	for v := 1; v <= 255; v++ {
		g := float64(v) / 255.0
		cm.Add(float64(v), float64(v), core.NewColorAlpha(g, g, g, opacity))
	}
	return cm
}
