package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMissingHeaderField  = errors.New("missing volume header field")
	ErrSampleCountMismatch = errors.New("sample count does not match resolution")
)

// headerSeparator matches any run of the separators used in .dat headers,
// e.g. "Resolution:\t256 256 128" or "SliceThickness: 0.5 0.5 1".
var headerSeparator = regexp.MustCompile(`[:\t ]+`)

// VolumeHeader describes the sampling grid of a volume
type VolumeHeader struct {
	Resolution [3]int     // Samples along x, y, z
	Thickness  [3]float64 // World spacing between samples along x, y, z
}

// Volume is a regular grid of 8-bit density samples stored x-fastest:
// index = z*ry*rx + y*rx + x.
type Volume struct {
	VolumeHeader
	Data []byte
}

// NewVolume validates the sample buffer against the header and wraps it
func NewVolume(header VolumeHeader, data []byte) (*Volume, error) {
	for axis := 0; axis < 3; axis++ {
		if header.Resolution[axis] <= 0 {
			return nil, fmt.Errorf("invalid resolution %v", header.Resolution)
		}
		if header.Thickness[axis] <= 0 {
			return nil, fmt.Errorf("invalid slice thickness %v", header.Thickness)
		}
	}

	expected := header.SampleCount()
	if len(data) != expected {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrSampleCountMismatch, expected, len(data))
	}

	return &Volume{VolumeHeader: header, Data: data}, nil
}

// SampleCount returns the number of samples the header declares
func (h VolumeHeader) SampleCount() int {
	return h.Resolution[0] * h.Resolution[1] * h.Resolution[2]
}

// MaxResolution returns the largest per-axis resolution
func (h VolumeHeader) MaxResolution() int {
	return max(h.Resolution[0], h.Resolution[1], h.Resolution[2])
}

// InBounds reports whether voxel indices address a stored sample
func (v *Volume) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 &&
		x < v.Resolution[0] && y < v.Resolution[1] && z < v.Resolution[2]
}

// Value returns the sample at voxel (x, y, z), or 0 outside the grid
func (v *Volume) Value(x, y, z int) uint8 {
	if !v.InBounds(x, y, z) {
		return 0
	}
	return v.Data[z*v.Resolution[1]*v.Resolution[0]+y*v.Resolution[0]+x]
}

// LoadVolume reads a .dat header and its raw sample file
func LoadVolume(datFile, rawFile string) (*Volume, error) {
	file, err := os.Open(datFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume header: %w", err)
	}
	defer file.Close()

	header, err := ParseVolumeHeader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volume header %s: %w", datFile, err)
	}

	data, err := os.ReadFile(rawFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw volume data: %w", err)
	}

	volume, err := NewVolume(header, data)
	if err != nil {
		return nil, fmt.Errorf("invalid volume %s: %w", rawFile, err)
	}

	return volume, nil
}

// ParseVolumeHeader reads "Resolution" and "SliceThickness" entries.
// Unknown keys are ignored.
func ParseVolumeHeader(r io.Reader) (VolumeHeader, error) {
	var header VolumeHeader
	var haveResolution, haveThickness bool

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := headerSeparator.Split(line, -1)
		switch parts[0] {
		case "Resolution":
			if len(parts) < 4 {
				return header, fmt.Errorf("resolution needs 3 values: %q", line)
			}
			for axis := 0; axis < 3; axis++ {
				value, err := strconv.Atoi(parts[axis+1])
				if err != nil {
					return header, fmt.Errorf("invalid resolution value %q: %w", parts[axis+1], err)
				}
				header.Resolution[axis] = value
			}
			haveResolution = true
		case "SliceThickness":
			if len(parts) < 4 {
				return header, fmt.Errorf("slice thickness needs 3 values: %q", line)
			}
			for axis := 0; axis < 3; axis++ {
				value, err := strconv.ParseFloat(parts[axis+1], 64)
				if err != nil {
					return header, fmt.Errorf("invalid slice thickness value %q: %w", parts[axis+1], err)
				}
				header.Thickness[axis] = value
			}
			haveThickness = true
		}
	}
	if err := scanner.Err(); err != nil {
		return header, err
	}

	if !haveResolution {
		return header, fmt.Errorf("%w: Resolution", ErrMissingHeaderField)
	}
	if !haveThickness {
		return header, fmt.Errorf("%w: SliceThickness", ErrMissingHeaderField)
	}

	return header, nil
}
