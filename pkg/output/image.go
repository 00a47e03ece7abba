package output

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Image is an 8-bit RGBA pixel sink for the renderer
type Image struct {
	img *image.NRGBA
}

// NewImage creates a transparent image of the given size
func NewImage(width, height int) *Image {
	return &Image{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel stores a color, clamping each channel to [0,1]
func (i *Image) SetPixel(x, y int, c core.Color) {
	i.img.SetNRGBA(x, y, toNRGBA(c))
}

func toNRGBA(c core.Color) color.NRGBA {
	c = c.Clamp(0, 1)
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

// Width returns the image width in pixels
func (i *Image) Width() int {
	return i.img.Bounds().Dx()
}

// Height returns the image height in pixels
func (i *Image) Height() int {
	return i.img.Bounds().Dy()
}

// NRGBA returns the underlying image
func (i *Image) NRGBA() *image.NRGBA {
	return i.img
}

// Store writes the image to path, creating parent directories. The format
// follows the file extension (png, jpg, gif, tif, bmp).
func (i *Image) Store(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imaging.Save(i.img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the image as PNG
func (i *Image) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, i.img, imaging.PNG)
}

// PNG returns the PNG encoding of the image
func (i *Image) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := i.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail returns a copy scaled to fit within maxSize x maxSize, keeping
// the aspect ratio. Images already small enough are returned unscaled.
func (i *Image) Thumbnail(maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, i.img, resize.Lanczos3)
}

// StoreThumbnail writes a thumbnail next to path as <name>_thumb<ext>
func (i *Image) StoreThumbnail(path string, maxSize uint) (string, error) {
	ext := filepath.Ext(path)
	thumbPath := path[:len(path)-len(ext)] + "_thumb" + ext
	if err := imaging.Save(i.Thumbnail(maxSize), thumbPath); err != nil {
		return "", fmt.Errorf("failed to save thumbnail %s: %w", thumbPath, err)
	}
	return thumbPath, nil
}
