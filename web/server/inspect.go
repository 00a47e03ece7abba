package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color"` // Shaded pixel color, or the background on a miss
	LitBy        []bool                 `json:"litBy,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains what a primary ray through one pixel sees
type InspectResult struct {
	Hit          bool
	Intersection core.Intersection
	Color        core.Color
	LitBy        []bool // Per scene light, whether the hit point is lit
}

// inspectPixel casts the primary ray through pixel (x, y) and shades the first hit
func inspectPixel(sceneObj *scene.Scene, rt *renderer.Raytracer, width, height, x, y int) InspectResult {
	camera := sceneObj.GetCamera()
	ray := camera.PrimaryRay(x, y, width, height)

	hit := rt.FindFirstIntersection(ray, camera.FrontPlaneDistance, camera.BackPlaneDistance)
	if !hit.Hit() {
		return InspectResult{Color: sceneObj.GetBackgroundColor()}
	}

	lights := sceneObj.GetLights()
	litBy := make([]bool, len(lights))
	for i, light := range lights {
		litBy[i] = rt.IsLit(hit.Position, light)
	}

	return InspectResult{
		Hit:          true,
		Intersection: hit,
		Color:        rt.Shade(hit, camera.Position),
		LitBy:        litBy,
	}
}

func vec3Array(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

func hexColor(c core.Color) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.R*255+0.5), int(c.G*255+0.5), int(c.B*255+0.5))
}

// extractMaterialInfo describes the Phong coefficients at a hit
func extractMaterialInfo(mat core.Material) map[string]interface{} {
	return map[string]interface{}{
		"ambient":   colorArray(mat.Ambient),
		"diffuse":   colorArray(mat.Diffuse),
		"specular":  colorArray(mat.Specular),
		"shininess": mat.Shininess,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(g core.Geometry) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := g.(type) {
	case *geometry.Sphere:
		properties["center"] = vec3Array(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Ellipsoid:
		properties["center"] = vec3Array(geom.Center)
		properties["semiAxes"] = vec3Array(geom.SemiAxesLength)
		properties["radius"] = geom.Radius
		return "ellipsoid", properties

	case *geometry.CTMask:
		bbox := geom.BoundingBox()
		properties["position"] = vec3Array(geom.Position)
		properties["scale"] = geom.Scale
		properties["boundingBox"] = map[string]interface{}{
			"min": vec3Array(bbox.Min),
			"max": vec3Array(bbox.Max),
		}
		return "ctmask", properties

	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, renderStatus(err), err.Error())
		return
	}

	rt := s.newRaytracer(sceneObj, req)
	result := inspectPixel(sceneObj, rt, req.Width, req.Height, pixelX, pixelY)

	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, Color: hexColor(result.Color)})
		return
	}

	hit := result.Intersection
	geometryType, geometryProps := extractGeometryInfo(hit.Geometry)

	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vec3Array(hit.Position),
		Normal:       vec3Array(hit.Normal),
		Distance:     hit.T,
		Color:        hexColor(result.Color),
		LitBy:        result.LitBy,
		Properties: map[string]interface{}{
			"material":     extractMaterialInfo(hit.Material),
			"surfaceColor": hexColor(hit.Color),
			"geometry":     geometryProps,
		},
	}

	writeJSON(w, http.StatusOK, response)
}
