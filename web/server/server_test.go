package server

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-phong-raytracer/internal/logger"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

const testSceneYAML = `# Scene: Single Sphere
# Description: One sphere in front of the camera
# Group: Test Scenes
name: single-sphere
background: [0.2, 0.2, 0.2]
camera:
  position: [0, 0, -10]
lights:
  - position: [0, 10, -10]
geometries:
  - type: sphere
    center: [0, 0, 0]
    radius: 2
    material: red
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "single.yaml"), []byte(testSceneYAML), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	log := logger.NewLogger("error")
	log.SetOutput(&bytes.Buffer{})
	return NewServer(0, dir, log)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body scene.ScenesResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	groups := map[string][]scene.SceneInfo{}
	for _, g := range body.Groups {
		groups[g.Name] = g.Scenes
	}
	if len(groups[scene.BuiltinGroup]) != len(scene.List()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(scene.List()), len(groups[scene.BuiltinGroup]))
	}
	files := groups["Test Scenes"]
	if len(files) != 1 || files[0].Name != "Single Sphere" {
		t.Errorf("Expected the scene file in its group, got %+v", files)
	}
}

func TestHandleRender_PNG(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=spheres&width=40&height=30&tileSize=16")

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Failed to decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("Expected 40x30 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestHandleRender_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name         string
		target       string
		expectStatus int
	}{
		{"width too small", "/api/render?width=1", http.StatusBadRequest},
		{"width not a number", "/api/render?width=abc", http.StatusBadRequest},
		{"shadow distance out of range", "/api/render?shadowMaxDistance=0", http.StatusBadRequest},
		{"unknown scene", "/api/render?scene=nonexistent&width=16&height=16", http.StatusNotFound},
		{"missing scene file", "/api/render?scene=missing.yaml&width=16&height=16", http.StatusNotFound},
		{"path outside scene dir", "/api/render?scene=../../etc/single.yaml&width=16&height=16", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != tt.expectStatus {
				t.Errorf("Expected %d, got %d: %s", tt.expectStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleRenderStream(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render/stream?scene=single.yaml&width=20&height=20")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Expected text/event-stream, got %q", ct)
	}

	events := map[string][]string{}
	var event string
	scanner := bufio.NewScanner(rec.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			events[event] = append(events[event], strings.TrimPrefix(line, "data: "))
		}
	}

	if len(events["error"]) != 0 {
		t.Fatalf("Unexpected error events: %v", events["error"])
	}
	if len(events["console"]) == 0 {
		t.Error("Expected console events from the render log")
	}
	if len(events["complete"]) != 1 {
		t.Fatalf("Expected one complete event, got %d", len(events["complete"]))
	}

	var update RenderUpdate
	if err := json.Unmarshal([]byte(events["complete"][0]), &update); err != nil {
		t.Fatalf("Invalid complete payload: %v", err)
	}
	if update.Stats.TotalPixels != 400 || update.Stats.Hits == 0 {
		t.Errorf("Unexpected stats %+v", update.Stats)
	}

	data, err := base64.StdEncoding.DecodeString(update.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64 image: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Invalid PNG in complete event: %v", err)
	}
}

func TestHandleRenderStream_UnknownScene(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render/stream?scene=nonexistent")

	if !strings.Contains(rec.Body.String(), "event: error") {
		t.Errorf("Expected an error event, got %q", rec.Body.String())
	}
}

func TestHandleInspect(t *testing.T) {
	s := newTestServer(t)

	t.Run("hit at the image center", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=single.yaml&width=20&height=20&x=10&y=10")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if !resp.Hit || resp.GeometryType != "sphere" {
			t.Fatalf("Expected sphere hit, got %+v", resp)
		}
		// Camera at z=-10, sphere of radius 2 at the origin
		if resp.Distance < 7.99 || resp.Distance > 8.01 {
			t.Errorf("Expected distance 8, got %f", resp.Distance)
		}
		if resp.Normal[2] > -0.99 {
			t.Errorf("Expected normal facing the camera, got %v", resp.Normal)
		}
		if len(resp.LitBy) != 1 || !resp.LitBy[0] {
			t.Errorf("Expected the point to be lit by the only light, got %v", resp.LitBy)
		}
	})

	t.Run("miss at the corner", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=single.yaml&width=20&height=20&x=0&y=0")
		var resp InspectResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if resp.Hit {
			t.Errorf("Expected miss, got %+v", resp)
		}
		if resp.Color != "#333333" {
			t.Errorf("Expected background color, got %s", resp.Color)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		rec := get(t, s, "/api/inspect?scene=single.yaml&width=20&height=20&x=20&y=0")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}
