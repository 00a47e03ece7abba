package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

type builtinScene struct {
	displayName string
	description string
	create      func(cameraOverrides ...renderer.CameraConfig) *Scene
}

var builtins = map[string]builtinScene{
	"spheres": {
		displayName: "Spheres",
		description: "Plastic and metal spheres on a ground sphere with two lights",
		create:      NewSpheresScene,
	},
	"ellipsoids": {
		displayName: "Ellipsoids",
		description: "Ellipsoids stretched along each axis above a flat floor",
		create:      NewEllipsoidsScene,
	},
	"ctmask": {
		displayName: "CT Mask",
		description: "Ray-marched synthetic density volume beside a sphere",
		create: func(cameraOverrides ...renderer.CameraConfig) *Scene {
			return NewCTMaskScene(nil, nil, cameraOverrides...)
		},
	},
	"default": {
		displayName: "Default Scene",
		description: "A sphere, an ellipsoid and a volume together",
		create:      NewDefaultScene,
	},
}

// List returns the built-in scene names in sorted order
func List() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinScenes describes the built-in scenes in sorted order
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, name := range List() {
		b := builtins[name]
		infos = append(infos, SceneInfo{
			ID:          name,
			Name:        b.displayName,
			DisplayName: b.displayName,
			Description: b.description,
			Group:       BuiltinGroup,
			Type:        "builtin",
		})
	}
	return infos
}

// IsSceneFile reports whether name refers to a YAML scene file
func IsSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Create builds a built-in scene by name, or loads name as a scene file when
// it has a .yaml or .yml extension
func Create(name string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	if b, ok := builtins[strings.ToLower(name)]; ok {
		return b.create(cameraOverrides...), nil
	}

	if IsSceneFile(name) {
		s, err := LoadSceneFile(name, cameraOverrides...)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q: %w", ErrUnknownScene, name, err)
		}
		return s, err
	}

	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(List(), ", "))
}
