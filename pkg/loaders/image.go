package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// ImageData contains loaded image data as a Color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// At returns the pixel at (x, y) in row-major order
func (d *ImageData) At(x, y int) core.Color {
	return d.Pixels[y*d.Width+x]
}

// LoadImage loads a PNG or JPEG image and converts it to a Color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	// Decode image (auto-detects PNG/JPEG from file header)
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns alpha-premultiplied uint32 in [0, 65535]
			alpha := float64(a) / 65535.0
			c := core.NewColorAlpha(0, 0, 0, alpha)
			if a > 0 {
				c.R = float64(r) / float64(a)
				c.G = float64(g) / float64(a)
				c.B = float64(b) / float64(a)
			}
			pixels[y*width+x] = c
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}
