package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

var testMaterial = core.Material{
	Ambient:   core.NewColor(0.1, 0.1, 0.1),
	Diffuse:   core.NewColor(0.5, 0.5, 0.5),
	Specular:  core.NewColor(1, 1, 1),
	Shininess: 10,
}

func TestSphere_Intersect_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial, core.White)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit := sphere.Intersect(ray, 0.001, 1000.0)
	if hit.Valid {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Intersect_ClosestApproachBeyondRadius(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1.0, testMaterial, core.White)
	// Passes 1.5 units from the center
	ray := core.NewRay(core.NewVec3(1.5, 0, 0), core.NewVec3(0, 0, 1))

	if hit := sphere.Intersect(ray, 0, 1000); hit.Valid {
		t.Errorf("Expected miss, got hit at t=%f", hit.T)
	}
}

func TestSphere_Intersect_ThroughCenter(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1.0, testMaterial, core.White)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	// Both roots are symmetric about the center distance
	near := sphere.Intersect(ray, 0, 1000)
	far := sphere.Intersect(ray, 4.5, 1000)

	if !near.Valid || !far.Valid {
		t.Fatal("Expected both roots to be reported")
	}
	if math.Abs(near.T-4) > 1e-9 {
		t.Errorf("Expected near root t=4, got %f", near.T)
	}
	if math.Abs(far.T-6) > 1e-9 {
		t.Errorf("Expected far root t=6, got %f", far.T)
	}
	if math.Abs((near.T+far.T)/2-5) > 1e-9 {
		t.Errorf("Roots not symmetric about the center: %f, %f", near.T, far.T)
	}
}

func TestSphere_Intersect_Normals(t *testing.T) {
	center := core.NewVec3(1, -2, 3)
	sphere := NewSphere(center, 2.0, testMaterial, core.White)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
	}{
		{"from front", core.NewVec3(1, -2, -10), core.NewVec3(0, 0, 1)},
		{"from above at an angle", core.NewVec3(0, 10, 3), core.NewVec3(0.1, -1, 0).Normalize()},
		{"from inside", center, core.NewVec3(1, 1, 0).Normalize()},
		{"unnormalized direction", core.NewVec3(10, -2, 3), core.NewVec3(-3, 0.2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := sphere.Intersect(core.NewRay(tt.origin, tt.dir), 0.001, 1000)
			if !hit.Hit() {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.Normal.Length()-1) > 1e-6 {
				t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
			}
			if hit.Normal.Dot(hit.Position.Subtract(center)) <= 0 {
				t.Errorf("Expected outward normal, got %v at %v", hit.Normal, hit.Position)
			}
			if hit.Geometry != sphere {
				t.Error("Expected intersection to reference the sphere")
			}
		})
	}
}

func TestSphere_Intersect_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial, core.White)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test maxDist bound
	hit := sphere.Intersect(ray, 0.001, 0.5)
	if hit.Valid {
		t.Errorf("Expected miss due to maxDist bound, but got hit at t=%f", hit.T)
	}

	// Test minDist bound
	hit = sphere.Intersect(ray, 3.5, 1000.0)
	if hit.Valid {
		t.Errorf("Expected miss due to minDist bound, but got hit at t=%f", hit.T)
	}

	// Only the far root is inside the window
	hit = sphere.Intersect(ray, 1.5, 1000.0)
	if !hit.Valid || math.Abs(hit.T-3) > 1e-9 {
		t.Errorf("Expected far root t=3, got %+v", hit)
	}
}

func TestSphere_Intersect_ClosestIntersection(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial, core.NewColor(1, 0, 0))
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit := sphere.Intersect(ray, 0.001, 1000.0)
	if !hit.Valid {
		t.Fatal("Expected hit, but got miss")
	}

	expectedT := 1.0
	if math.Abs(hit.T-expectedT) > 1e-9 {
		t.Errorf("Expected closest intersection at t=%f, got t=%f", expectedT, hit.T)
	}
	if hit.Position.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected hit position (0,0,1), got %v", hit.Position)
	}
	if hit.Color != core.NewColor(1, 0, 0) || hit.Material != testMaterial {
		t.Errorf("Expected sphere material and color on the hit")
	}
}

func TestSphere_Intersect_Tangent(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial, core.White)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	if hit := sphere.Intersect(ray, 0.001, 1000.0); hit.Valid {
		t.Errorf("Expected tangent ray to be a miss, got t=%f", hit.T)
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	sphere := NewSphere(core.NewVec3(1, 2, 3), 0.5, testMaterial, core.White)
	box := sphere.BoundingBox()
	if box.Min != core.NewVec3(0.5, 1.5, 2.5) || box.Max != core.NewVec3(1.5, 2.5, 3.5) {
		t.Errorf("Unexpected bounding box %+v", box)
	}
}
