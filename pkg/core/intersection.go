package core

// Material holds Phong reflection coefficients
type Material struct {
	Ambient   Color
	Diffuse   Color
	Specular  Color
	Shininess float64 // Phong exponent
}

// Intersection is a snapshot of a ray/geometry test.
// A miss has Valid set to false; nothing else is meaningful then.
type Intersection struct {
	Valid    bool
	Visible  bool
	T        float64  // Parameter along the ray
	Position Vec3     // World position of the hit
	Normal   Vec3     // Unit outward surface normal
	Material Material // Resolved material at the hit
	Color    Color    // Resolved surface color
	Geometry Geometry // Geometry that produced the hit
	Ray      Ray      // Ray that was tested
}

// NoIntersection is the miss sentinel
var NoIntersection = Intersection{}

// NewIntersection builds a visible, valid hit at parameter t along ray
func NewIntersection(geometry Geometry, ray Ray, t float64, normal Vec3, material Material, color Color) Intersection {
	return Intersection{
		Valid:    true,
		Visible:  true,
		T:        t,
		Position: ray.At(t),
		Normal:   normal,
		Material: material,
		Color:    color,
		Geometry: geometry,
		Ray:      ray,
	}
}

// Hit reports whether the intersection can be shaded
func (i Intersection) Hit() bool {
	return i.Valid && i.Visible
}
