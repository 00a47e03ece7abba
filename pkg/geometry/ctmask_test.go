package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func newTestVolume(t *testing.T, resolution [3]int, data []byte) *loaders.Volume {
	t.Helper()
	volume, err := loaders.NewVolume(loaders.VolumeHeader{
		Resolution: resolution,
		Thickness:  [3]float64{1, 1, 1},
	}, data)
	if err != nil {
		t.Fatalf("NewVolume failed: %v", err)
	}
	return volume
}

// singleVoxelMask returns a 2x2x2 unit-cell volume at the origin whose only
// non-empty voxel is (1,1,1).
func singleVoxelMask(t *testing.T, colorMap ColorMapper) *CTMask {
	data := make([]byte, 8)
	data[1*4+1*2+1] = 200
	return NewCTMask(newTestVolume(t, [3]int{2, 2, 2}, data), core.NewVec3(0, 0, 0), 1, colorMap)
}

func opaqueMap() *material.ColorMap {
	return material.NewColorMap().Add(1, 255, core.NewColorAlpha(1, 0.5, 0.25, 1))
}

func TestCTMask_EmptyVolumeNeverHits(t *testing.T) {
	mask := NewCTMask(newTestVolume(t, [3]int{2, 2, 2}, make([]byte, 8)), core.NewVec3(0, 0, 0), 1, opaqueMap())

	rays := []core.Ray{
		core.NewRay(core.NewVec3(1, 1, -5), core.NewVec3(0, 0, 1)),
		core.NewRay(core.NewVec3(-5, 0.5, 1.5), core.NewVec3(1, 0, 0)),
		core.NewRayBetween(core.NewVec3(-3, -3, -3), core.NewVec3(2, 2, 2)),
		core.NewRay(core.NewVec3(1, 1, 1), core.NewVec3(0, 1, 0)),
	}

	for i, ray := range rays {
		if hit := mask.Intersect(ray, 0, 1000); hit.Valid {
			t.Errorf("Ray %d: expected no hit in empty volume, got t=%f", i, hit.T)
		}
	}
}

func TestCTMask_SingleVoxel(t *testing.T) {
	mask := singleVoxelMask(t, opaqueMap())

	tests := []struct {
		name      string
		ray       core.Ray
		expectHit bool
		cellEntry float64
		cellExit  float64
	}{
		{
			name:      "through the voxel along z",
			ray:       core.NewRay(core.NewVec3(1.5, 1.5, -5), core.NewVec3(0, 0, 1)),
			expectHit: true,
			cellEntry: 6,
			cellExit:  7,
		},
		{
			name:      "through the voxel along x",
			ray:       core.NewRay(core.NewVec3(-5, 1.5, 1.5), core.NewVec3(1, 0, 0)),
			expectHit: true,
			cellEntry: 6,
			cellExit:  7,
		},
		{
			name:      "through the voxel along -y",
			ray:       core.NewRay(core.NewVec3(1.25, 10, 1.75), core.NewVec3(0, -1, 0)),
			expectHit: true,
			cellEntry: 8,
			cellExit:  9,
		},
		{
			name:      "diagonally across the xz plane",
			ray:       core.NewRay(core.NewVec3(-5, 1.5, -5), core.NewVec3(1, 0, 1).Normalize()),
			expectHit: true,
			cellEntry: 6 * math.Sqrt2,
			cellExit:  7 * math.Sqrt2,
		},
		{
			name:      "through an empty column",
			ray:       core.NewRay(core.NewVec3(0.5, 0.5, -5), core.NewVec3(0, 0, 1)),
			expectHit: false,
		},
		{
			name:      "through a neighbouring column",
			ray:       core.NewRay(core.NewVec3(1.5, 0.5, -5), core.NewVec3(0, 0, 1)),
			expectHit: false,
		},
		{
			name:      "outside the box",
			ray:       core.NewRay(core.NewVec3(5, 5, -5), core.NewVec3(0, 0, 1)),
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := mask.Intersect(tt.ray, 0, 1000)
			if hit.Valid != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t (t=%f)", tt.expectHit, hit.Valid, hit.T)
			}
			if !hit.Valid {
				return
			}
			if hit.T < tt.cellEntry-1e-9 || hit.T > tt.cellExit+1e-9 {
				t.Errorf("Expected t within [%f, %f], got %f", tt.cellEntry, tt.cellExit, hit.T)
			}
			if idx := mask.VoxelIndex(hit.Position); idx != [3]int{1, 1, 1} {
				t.Errorf("Expected hit inside voxel (1,1,1), got %v", idx)
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-6 {
				t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
			}
			if hit.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Errorf("Expected normal to face the ray, got %v", hit.Normal)
			}
		})
	}
}

func TestCTMask_ObliqueRaysFindSingleVoxel(t *testing.T) {
	data := make([]byte, 64)
	data[2*16+1*4+2] = 255 // voxel (2,1,2)
	mask := NewCTMask(newTestVolume(t, [3]int{4, 4, 4}, data), core.NewVec3(0, 0, 0), 1, opaqueMap())

	random := rand.New(rand.NewSource(42))
	cellCenter := core.NewVec3(2.5, 1.5, 2.5)
	const margin = 0.05

	for i := 0; i < 2000; i++ {
		dir := core.NewVec3(random.NormFloat64(), random.NormFloat64(), random.NormFloat64()).Normalize()
		origin := cellCenter.Add(dir.Multiply(20))
		target := core.NewVec3(
			2+margin+random.Float64()*(1-2*margin),
			1+margin+random.Float64()*(1-2*margin),
			2+margin+random.Float64()*(1-2*margin),
		)
		ray := core.NewRayBetween(origin, target)

		hit := mask.Intersect(ray, 0, 1000)
		if !hit.Valid {
			t.Fatalf("Ray %d from %v to %v missed the voxel", i, origin, target)
		}
		if idx := mask.VoxelIndex(hit.Position); idx != [3]int{2, 1, 2} {
			t.Fatalf("Ray %d from %v to %v: expected hit inside voxel (2,1,2), got %v", i, origin, target, idx)
		}
	}
}

func TestCTMask_Degenerate(t *testing.T) {
	data := make([]byte, 8)
	data[0] = 255
	volume := newTestVolume(t, [3]int{2, 2, 2}, data)
	ray := core.NewRay(core.NewVec3(0.5, 0.5, -5), core.NewVec3(0, 0, 1))

	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		mask := NewCTMask(volume, core.NewVec3(0, 0, 0), scale, opaqueMap())
		if hit := mask.Intersect(ray, 0, 1000); hit.Valid {
			t.Errorf("Scale %g: expected miss, got t=%f", scale, hit.T)
		}
		if n := mask.Normal(core.NewVec3(0.5, 0.5, 0.5)); math.Abs(n.Length()-1) > 1e-9 {
			t.Errorf("Scale %g: expected unit fallback normal, got %v", scale, n)
		}
	}

	t.Run("nil color map", func(t *testing.T) {
		mask := NewCTMask(volume, core.NewVec3(0, 0, 0), 1, nil)
		hit := mask.Intersect(ray, 0, 1000)
		if !hit.Valid {
			t.Fatal("Expected hit with the default color map")
		}
		if hit.Color.A <= 0 {
			t.Errorf("Expected an opaque grayscale color, got %v", hit.Color)
		}
	})
}

func TestCTMask_RespectsDistanceWindow(t *testing.T) {
	mask := singleVoxelMask(t, opaqueMap())
	ray := core.NewRay(core.NewVec3(1.5, 1.5, -5), core.NewVec3(0, 0, 1))

	if hit := mask.Intersect(ray, 0, 5.5); hit.Valid {
		t.Errorf("Expected miss when maxDist stops before the voxel, got t=%f", hit.T)
	}

	hit := mask.Intersect(ray, 6.5, 1000)
	if !hit.Valid {
		t.Fatal("Expected hit when the window starts inside the voxel")
	}
	if hit.T < 6.5 {
		t.Errorf("Expected t >= minDist, got %f", hit.T)
	}
}

func TestCTMask_ColorAndMaterial(t *testing.T) {
	mask := singleVoxelMask(t, opaqueMap())
	hit := mask.Intersect(core.NewRay(core.NewVec3(1.5, 1.5, -5), core.NewVec3(0, 0, 1)), 0, 1000)
	if !hit.Valid {
		t.Fatal("Expected hit")
	}

	expected := core.NewColorAlpha(1, 0.5, 0.25, 1)
	if hit.Color != expected {
		t.Errorf("Expected composited color %v, got %v", expected, hit.Color)
	}
	if hit.Material != material.FromColor(expected) {
		t.Errorf("Expected material synthesized from the color, got %+v", hit.Material)
	}
}

func TestCTMask_CompositesFrontToBack(t *testing.T) {
	// 1x1x3 column: two translucent voxels followed by an opaque one
	data := []byte{10, 20, 30}
	colorMap := material.NewColorMap().
		Add(10, 10, core.NewColorAlpha(1, 0, 0, 0.5)).
		Add(20, 20, core.NewColorAlpha(0, 1, 0, 0.5)).
		Add(30, 30, core.NewColorAlpha(0, 0, 1, 1))
	mask := NewCTMask(newTestVolume(t, [3]int{1, 1, 3}, data), core.NewVec3(0, 0, 0), 1, colorMap)

	hit := mask.Intersect(core.NewRay(core.NewVec3(0.5, 0.5, -1), core.NewVec3(0, 0, 1)), 0, 100)
	if !hit.Valid {
		t.Fatal("Expected hit")
	}

	// red*0.5 + green*0.5*0.5 + blue*1*0.25
	expected := core.NewColorAlpha(0.5, 0.25, 0.25, 1)
	got := hit.Color
	if math.Abs(got.R-expected.R) > 1e-9 || math.Abs(got.G-expected.G) > 1e-9 ||
		math.Abs(got.B-expected.B) > 1e-9 || math.Abs(got.A-expected.A) > 1e-9 {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	// Reversed ray sees blue first and stops there
	back := mask.Intersect(core.NewRay(core.NewVec3(0.5, 0.5, 4), core.NewVec3(0, 0, -1)), 0, 100)
	if !back.Valid {
		t.Fatal("Expected hit from the back")
	}
	if back.Color.B != 1 || back.Color.R != 0 || back.Color.G != 0 {
		t.Errorf("Expected opaque blue from the back, got %v", back.Color)
	}
}

func TestCTMask_ScaleAndPosition(t *testing.T) {
	data := make([]byte, 8)
	data[0] = 255 // voxel (0,0,0)
	mask := NewCTMask(newTestVolume(t, [3]int{2, 2, 2}, data), core.NewVec3(10, 0, 0), 2, opaqueMap())

	box := mask.BoundingBox()
	if box.Min != core.NewVec3(10, 0, 0) || box.Max != core.NewVec3(14, 4, 4) {
		t.Fatalf("Unexpected bounds %+v", box)
	}

	hit := mask.Intersect(core.NewRay(core.NewVec3(11, 1, -10), core.NewVec3(0, 0, 1)), 0, 100)
	// Voxel (0,0,0) spans z in [0,2), entered at t=10 and left at t=12
	if !hit.Valid || math.Abs(hit.T-11) > 1e-9 {
		t.Errorf("Expected hit in the middle of the first voxel t=11, got %+v", hit)
	}

	if miss := mask.Intersect(core.NewRay(core.NewVec3(13, 3, -10), core.NewVec3(0, 0, 1)), 0, 100); miss.Valid {
		t.Errorf("Expected miss through empty scaled voxels, got t=%f", miss.T)
	}
}

func TestCTMask_GradientNormal(t *testing.T) {
	// 3x1x1 row with density rising along +x
	data := []byte{0, 50, 100}
	mask := NewCTMask(newTestVolume(t, [3]int{3, 1, 1}, data), core.NewVec3(0, 0, 0), 1, opaqueMap())

	normal := mask.Normal(core.NewVec3(1.5, 0.5, 0.5))
	if normal.Subtract(core.NewVec3(-1, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected outward normal (-1,0,0), got %v", normal)
	}

	hit := mask.Intersect(core.NewRay(core.NewVec3(-5, 0.5, 0.5), core.NewVec3(1, 0, 0)), 0, 100)
	if !hit.Valid {
		t.Fatal("Expected hit")
	}
	if hit.Normal.Subtract(core.NewVec3(-1, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected hit normal (-1,0,0), got %v", hit.Normal)
	}
}

func TestCTMask_UpperBoundVoxelIsEmpty(t *testing.T) {
	data := make([]byte, 8)
	for i := range data {
		data[i] = 100
	}
	mask := NewCTMask(newTestVolume(t, [3]int{2, 2, 2}, data), core.NewVec3(0, 0, 0), 1, opaqueMap())

	// Ray grazing the far +x face samples index 2, which lies outside the grid
	ray := core.NewRay(core.NewVec3(2, 1, -5), core.NewVec3(0, 0, 1))
	if hit := mask.Intersect(ray, 0, 100); hit.Valid {
		t.Errorf("Expected samples on the upper face to read as empty, got t=%f", hit.T)
	}
}
