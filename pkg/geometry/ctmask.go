package geometry

import (
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// OpacityCutoff stops compositing once the accumulated opacity reaches it
const OpacityCutoff = 0.999

// ColorMapper turns a density sample into a color with opacity
type ColorMapper interface {
	GetColor(value float64) core.Color
}

// CTMask is a density volume (CT scan style) placed in the world.
// It is intersected by walking the voxel grid and colored through a ColorMapper.
type CTMask struct {
	Position core.Vec3
	Scale    float64
	ColorMap ColorMapper

	volume     *loaders.Volume
	cell       core.Vec3 // world size of one voxel
	bounds     core.AABB
	degenerate bool // non-positive or non-finite scale; never hit
}

// NewCTMask places a volume with its minimum corner at position.
// A nil colorMap maps densities to opaque grayscale.
func NewCTMask(volume *loaders.Volume, position core.Vec3, scale float64, colorMap ColorMapper) *CTMask {
	if colorMap == nil {
		colorMap = material.NewGrayscaleColorMap(1)
	}
	cell := core.NewVec3(
		volume.Thickness[0]*scale,
		volume.Thickness[1]*scale,
		volume.Thickness[2]*scale,
	)
	extent := core.NewVec3(
		float64(volume.Resolution[0])*cell.X,
		float64(volume.Resolution[1])*cell.Y,
		float64(volume.Resolution[2])*cell.Z,
	)

	return &CTMask{
		Position:   position,
		Scale:      scale,
		ColorMap:   colorMap,
		volume:     volume,
		cell:       cell,
		bounds:     core.NewAABB(position, position.Add(extent)),
		degenerate: !(scale > 0) || math.IsInf(scale, 0),
	}
}

// BoundingBox returns the world-space box covered by the volume
func (m *CTMask) BoundingBox() core.AABB {
	return m.bounds
}

// VoxelIndex returns the voxel containing a world point. The result may lie
// outside the grid.
func (m *CTMask) VoxelIndex(p core.Vec3) [3]int {
	local := p.Subtract(m.Position)
	return [3]int{
		int(math.Floor(local.X / m.cell.X)),
		int(math.Floor(local.Y / m.cell.Y)),
		int(math.Floor(local.Z / m.cell.Z)),
	}
}

func (m *CTMask) value(idx [3]int) uint8 {
	return m.volume.Value(idx[0], idx[1], idx[2])
}

// cellWalk steps a ray through the voxel grid one cell at a time
// (Amanatides and Woo). Every cell the ray passes through is visited once.
type cellWalk struct {
	idx    [3]int
	step   [3]int
	tMax   [3]float64 // ray parameter of the next boundary on each axis
	tDelta [3]float64 // ray parameter span of one cell on each axis
	t      float64    // entry parameter of the current cell
	tFar   float64
	left   int
}

// newCellWalk starts a walk at tNear, which must lie on or inside the box
func (m *CTMask) newCellWalk(ray core.Ray, tNear, tFar float64) cellWalk {
	w := cellWalk{
		t:    tNear,
		tFar: tFar,
		left: m.volume.Resolution[0] + m.volume.Resolution[1] + m.volume.Resolution[2] + 3,
	}

	local := ray.At(tNear).Subtract(m.Position)
	for axis := 0; axis < 3; axis++ {
		dir := ray.Direction.Component(axis)
		cell := m.cell.Component(axis)
		pos := local.Component(axis) / cell
		idx := int(math.Floor(pos))

		switch {
		case math.Abs(dir) < 1e-12:
			// Parallel to this axis: the index never changes
			w.tMax[axis] = math.Inf(1)
			w.tDelta[axis] = math.Inf(1)
			w.idx[axis] = idx
			continue
		case dir < 0 && pos == math.Floor(pos):
			// On a boundary moving down, the ray belongs to the lower cell
			idx--
		}
		// Entry point lies on the box, so only rounding can push it outside
		idx = max(0, min(idx, m.volume.Resolution[axis]-1))

		origin := m.Position.Component(axis) - ray.Origin.Component(axis)
		if dir > 0 {
			w.step[axis] = 1
			w.tMax[axis] = (origin + float64(idx+1)*cell) / dir
		} else {
			w.step[axis] = -1
			w.tMax[axis] = (origin + float64(idx)*cell) / dir
		}
		w.tDelta[axis] = cell / math.Abs(dir)
		w.idx[axis] = idx
	}
	return w
}

// next returns the current cell with the parameters where the ray enters
// and leaves it, then advances to the neighbouring cell
func (w *cellWalk) next() (idx [3]int, enter, exit float64, ok bool) {
	if w.left <= 0 {
		return idx, 0, 0, false
	}
	w.left--

	axis := 0
	if w.tMax[1] < w.tMax[axis] {
		axis = 1
	}
	if w.tMax[2] < w.tMax[axis] {
		axis = 2
	}

	idx, enter, exit = w.idx, w.t, math.Min(w.tMax[axis], w.tFar)
	if w.tMax[axis] >= w.tFar {
		w.left = 0
	} else {
		w.t = w.tMax[axis]
		w.idx[axis] += w.step[axis]
		w.tMax[axis] += w.tDelta[axis]
	}
	return idx, enter, exit, true
}

// Intersect clips the ray to the volume box and walks the grid to the
// first non-empty voxel. The hit is reported at the middle of the ray's
// chord through that voxel.
func (m *CTMask) Intersect(ray core.Ray, minDist, maxDist float64) core.Intersection {
	if m.degenerate {
		return core.NoIntersection
	}
	tNear, tFar, ok := m.bounds.Intersect(ray, minDist, maxDist)
	if !ok {
		return core.NoIntersection
	}

	walk := m.newCellWalk(ray, tNear, tFar)
	for {
		from := walk
		idx, enter, exit, ok := walk.next()
		if !ok || !m.volume.InBounds(idx[0], idx[1], idx[2]) {
			return core.NoIntersection
		}
		if m.value(idx) == 0 {
			continue
		}

		color := m.composite(from)
		normal, ok := m.gradientNormal(idx)
		if !ok {
			normal = ray.Direction.Negate().Normalize()
		}
		return core.NewIntersection(m, ray, (enter+exit)/2, normal, material.FromColor(color), color)
	}
}

// composite accumulates colors front to back from the walk's current cell
// until the ray leaves the grid or the opacity saturates
func (m *CTMask) composite(walk cellWalk) core.Color {
	var result core.Color
	transmittance := 1.0

	for {
		idx, _, _, ok := walk.next()
		if !ok || !m.volume.InBounds(idx[0], idx[1], idx[2]) {
			break
		}

		c := m.ColorMap.GetColor(float64(m.value(idx)))
		alpha := math.Max(0, math.Min(1, c.A))
		weight := transmittance * alpha
		result.R += c.R * weight
		result.G += c.G * weight
		result.B += c.B * weight
		transmittance *= 1 - alpha

		if 1-transmittance >= OpacityCutoff {
			break
		}
	}

	result.A = 1 - transmittance
	return result
}

// gradientNormal estimates the outward normal from the central difference
// of the density field. It fails where the gradient vanishes.
func (m *CTMask) gradientNormal(idx [3]int) (core.Vec3, bool) {
	x, y, z := idx[0], idx[1], idx[2]
	v := m.volume
	gradient := core.NewVec3(
		float64(v.Value(x+1, y, z))-float64(v.Value(x-1, y, z)),
		float64(v.Value(x, y+1, z))-float64(v.Value(x, y-1, z)),
		float64(v.Value(x, y, z+1))-float64(v.Value(x, y, z-1)),
	)
	if gradient.LengthSquared() == 0 {
		return core.Vec3{}, false
	}
	// Density grows inwards, so the outward normal is the negated gradient
	return gradient.Negate().Normalize(), true
}

// Normal returns the density-gradient normal at a point, falling back to
// the direction from the volume center for isolated voxels.
func (m *CTMask) Normal(point core.Vec3) core.Vec3 {
	if m.degenerate {
		return core.NewVec3(0, 0, 1)
	}
	if n, ok := m.gradientNormal(m.VoxelIndex(point)); ok {
		return n
	}
	n := point.Subtract(m.bounds.Center()).Normalize()
	if n.LengthSquared() == 0 {
		return core.NewVec3(0, 0, 1)
	}
	return n
}
