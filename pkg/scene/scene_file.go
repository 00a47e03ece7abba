package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// SceneFile is the YAML description of a scene. Vectors are [x, y, z] and
// colors [r, g, b] or [r, g, b, a].
type SceneFile struct {
	Name       string                  `yaml:"name"`
	Background []float64               `yaml:"background"`
	Camera     CameraSpec              `yaml:"camera"`
	Lights     []LightSpec             `yaml:"lights"`
	Materials  map[string]MaterialSpec `yaml:"materials"`
	Geometries []GeometrySpec          `yaml:"geometries"`
}

// CameraSpec describes the camera; omitted fields keep the defaults
type CameraSpec struct {
	Position           []float64 `yaml:"position"`
	Direction          []float64 `yaml:"direction"`
	Up                 []float64 `yaml:"up"`
	ViewPlaneDistance  float64   `yaml:"view_plane_distance"`
	ViewPlaneWidth     float64   `yaml:"view_plane_width"`
	ViewPlaneHeight    float64   `yaml:"view_plane_height"`
	FrontPlaneDistance float64   `yaml:"front_plane_distance"`
	BackPlaneDistance  float64   `yaml:"back_plane_distance"`
}

// LightSpec describes a point light. Missing color terms default to 0.8 gray.
type LightSpec struct {
	Position  []float64 `yaml:"position"`
	Ambient   []float64 `yaml:"ambient"`
	Diffuse   []float64 `yaml:"diffuse"`
	Specular  []float64 `yaml:"specular"`
	Intensity *float64  `yaml:"intensity"`
}

// MaterialSpec describes Phong coefficients
type MaterialSpec struct {
	Ambient   []float64 `yaml:"ambient"`
	Diffuse   []float64 `yaml:"diffuse"`
	Specular  []float64 `yaml:"specular"`
	Shininess float64   `yaml:"shininess"`
}

// ColorRangeSpec maps the closed density range [From, To] to a color
type ColorRangeSpec struct {
	From  float64   `yaml:"from"`
	To    float64   `yaml:"to"`
	Color []float64 `yaml:"color"`
}

// GeometrySpec describes one geometry. Type selects which fields apply:
// sphere (center, radius), ellipsoid (center, semi_axes, radius) or
// ctmask (dat, raw, position or center, scale or size, colormap).
type GeometrySpec struct {
	Type     string    `yaml:"type"`
	Material string    `yaml:"material"`
	Color    []float64 `yaml:"color"`

	Center   []float64 `yaml:"center"`
	Radius   float64   `yaml:"radius"`
	SemiAxes []float64 `yaml:"semi_axes"`

	Dat           string           `yaml:"dat"`
	Raw           string           `yaml:"raw"`
	Synthetic     int              `yaml:"synthetic"` // Phantom resolution when no data files are given
	Position      []float64        `yaml:"position"`
	Scale         float64          `yaml:"scale"`
	Size          float64          `yaml:"size"`
	ColorMap      []ColorRangeSpec `yaml:"colormap"`
	ColorMapImage string           `yaml:"colormap_image"`
	Opacity       float64          `yaml:"opacity"`
}

// LoadSceneFile reads and builds a YAML scene. Relative data paths are
// resolved against the scene file's directory.
func LoadSceneFile(path string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var file SceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene file %s: %w", path, err)
	}

	if file.Name == "" {
		base := filepath.Base(path)
		file.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return file.Build(filepath.Dir(path), cameraOverrides...)
}

// Build converts the description into a scene, resolving data paths
// against baseDir
func (f *SceneFile) Build(baseDir string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	cameraConfig, err := f.Camera.config()
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	background := core.Black
	if f.Background != nil {
		if background, err = parseColor(f.Background); err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}

	s := NewScene(f.Name, cameraWithOverrides(cameraConfig, cameraOverrides), background)

	for i, spec := range f.Lights {
		light, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	materials := make(map[string]core.Material, len(f.Materials))
	for name, spec := range f.Materials {
		m, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[strings.ToLower(name)] = m
	}

	for i, spec := range f.Geometries {
		g, err := spec.build(baseDir, materials)
		if err != nil {
			return nil, fmt.Errorf("geometry %d (%s): %w", i, spec.Type, err)
		}
		s.AddGeometry(g)
	}

	return s, nil
}

func (c CameraSpec) config() (renderer.CameraConfig, error) {
	override := renderer.CameraConfig{
		ViewPlaneDistance:  c.ViewPlaneDistance,
		ViewPlaneWidth:     c.ViewPlaneWidth,
		ViewPlaneHeight:    c.ViewPlaneHeight,
		FrontPlaneDistance: c.FrontPlaneDistance,
		BackPlaneDistance:  c.BackPlaneDistance,
	}

	var err error
	if c.Position != nil {
		if override.Position, err = parseVec3(c.Position); err != nil {
			return override, fmt.Errorf("position: %w", err)
		}
	}
	if c.Direction != nil {
		if override.Direction, err = parseVec3(c.Direction); err != nil {
			return override, fmt.Errorf("direction: %w", err)
		}
	}
	if c.Up != nil {
		if override.Up, err = parseVec3(c.Up); err != nil {
			return override, fmt.Errorf("up: %w", err)
		}
	}

	return renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), override), nil
}

func (l LightSpec) build() (lights.Light, error) {
	position, err := parseVec3(l.Position)
	if err != nil {
		return lights.Light{}, fmt.Errorf("position: %w", err)
	}

	intensity := 1.0
	if l.Intensity != nil {
		intensity = *l.Intensity
	}
	light := lights.NewWhiteLight(position, intensity)

	for _, term := range []struct {
		name  string
		value []float64
		dst   *core.Color
	}{
		{"ambient", l.Ambient, &light.Ambient},
		{"diffuse", l.Diffuse, &light.Diffuse},
		{"specular", l.Specular, &light.Specular},
	} {
		if term.value == nil {
			continue
		}
		if *term.dst, err = parseColor(term.value); err != nil {
			return lights.Light{}, fmt.Errorf("%s: %w", term.name, err)
		}
	}

	return light, nil
}

func (m MaterialSpec) build() (core.Material, error) {
	ambient, err := parseColor(m.Ambient)
	if err != nil {
		return core.Material{}, fmt.Errorf("ambient: %w", err)
	}
	diffuse, err := parseColor(m.Diffuse)
	if err != nil {
		return core.Material{}, fmt.Errorf("diffuse: %w", err)
	}
	specular, err := parseColor(m.Specular)
	if err != nil {
		return core.Material{}, fmt.Errorf("specular: %w", err)
	}
	return material.NewPhong(ambient, diffuse, specular, m.Shininess), nil
}

func (g GeometrySpec) build(baseDir string, materials map[string]core.Material) (core.Geometry, error) {
	switch strings.ToLower(g.Type) {
	case "sphere":
		center, mat, color, err := g.surface(materials)
		if err != nil {
			return nil, err
		}
		if g.Radius <= 0 {
			return nil, fmt.Errorf("radius must be positive, got %g", g.Radius)
		}
		return geometry.NewSphere(center, g.Radius, mat, color), nil

	case "ellipsoid":
		center, mat, color, err := g.surface(materials)
		if err != nil {
			return nil, err
		}
		axes, err := parseVec3(g.SemiAxes)
		if err != nil {
			return nil, fmt.Errorf("semi_axes: %w", err)
		}
		if axes.X <= 0 || axes.Y <= 0 || axes.Z <= 0 {
			return nil, fmt.Errorf("semi_axes must be positive, got %v", axes)
		}
		radius := g.Radius
		if radius == 0 {
			radius = 1
		}
		return geometry.NewEllipsoid(center, axes, radius, mat, color), nil

	case "ctmask":
		return g.buildCTMask(baseDir)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGeometry, g.Type)
	}
}

// surface resolves the fields shared by sphere and ellipsoid
func (g GeometrySpec) surface(materials map[string]core.Material) (core.Vec3, core.Material, core.Color, error) {
	center, err := parseVec3(g.Center)
	if err != nil {
		return core.Vec3{}, core.Material{}, core.Color{}, fmt.Errorf("center: %w", err)
	}

	mat, ok := materials[strings.ToLower(g.Material)]
	if !ok {
		if mat, ok = material.Lookup(g.Material); !ok {
			return core.Vec3{}, core.Material{}, core.Color{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, g.Material)
		}
	}

	color := core.White
	if g.Color != nil {
		if color, err = parseColor(g.Color); err != nil {
			return core.Vec3{}, core.Material{}, core.Color{}, fmt.Errorf("color: %w", err)
		}
	}

	return center, mat, color, nil
}

func (g GeometrySpec) buildCTMask(baseDir string) (core.Geometry, error) {
	var volume *loaders.Volume
	switch {
	case g.Dat != "" && g.Raw != "":
		var err error
		volume, err = loaders.LoadVolume(resolvePath(baseDir, g.Dat), resolvePath(baseDir, g.Raw))
		if err != nil {
			return nil, err
		}
	case g.Dat == "" && g.Raw == "":
		n := g.Synthetic
		if n <= 0 {
			n = 32
		}
		volume = SyntheticVolume(n)
	default:
		return nil, fmt.Errorf("ctmask needs both dat and raw files")
	}

	colorMap, err := g.colorMap(baseDir)
	if err != nil {
		return nil, err
	}

	if g.Size < 0 {
		return nil, fmt.Errorf("size must be positive, got %g", g.Size)
	}
	if g.Size > 0 {
		center := core.Vec3{}
		if g.Center != nil {
			if center, err = parseVec3(g.Center); err != nil {
				return nil, fmt.Errorf("center: %w", err)
			}
		}
		return NewCenteredCTMask(volume, center, g.Size, colorMap), nil
	}

	position := core.Vec3{}
	if g.Position != nil {
		if position, err = parseVec3(g.Position); err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
	}
	scale := g.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}
	return geometry.NewCTMask(volume, position, scale, colorMap), nil
}

func (g GeometrySpec) colorMap(baseDir string) (*material.ColorMap, error) {
	opacity := g.Opacity
	if opacity == 0 {
		opacity = 1
	}

	switch {
	case g.ColorMapImage != "":
		strip, err := loaders.LoadImage(resolvePath(baseDir, g.ColorMapImage))
		if err != nil {
			return nil, fmt.Errorf("colormap_image: %w", err)
		}
		return material.NewColorMapFromImage(strip, opacity)

	case len(g.ColorMap) > 0:
		cm := material.NewColorMap()
		for i, r := range g.ColorMap {
			color, err := parseColor(r.Color)
			if err != nil {
				return nil, fmt.Errorf("colormap range %d: %w", i, err)
			}
			cm.Add(r.From, r.To, color)
		}
		return cm, nil

	default:
		return NewTissueColorMap(), nil
	}
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func parseVec3(v []float64) (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func parseColor(v []float64) (core.Color, error) {
	switch len(v) {
	case 3:
		return core.NewColor(v[0], v[1], v[2]), nil
	case 4:
		return core.NewColorAlpha(v[0], v[1], v[2], v[3]), nil
	default:
		return core.Color{}, fmt.Errorf("expected 3 or 4 color components, got %d", len(v))
	}
}
