package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/df07/go-phong-raytracer/internal/logger"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

const (
	minImageSize = 16
	maxImageSize = 2000
)

// Server handles web requests for the raytracer
type Server struct {
	port     int
	sceneDir string
	logger   *logger.Logger
}

// NewServer creates a new web server. Scene files are only served from
// sceneDir.
func NewServer(port int, sceneDir string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewLogger("info")
	}
	return &Server{port: port, sceneDir: sceneDir, logger: log}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene             string  `json:"scene"`             // Built-in scene name or scene file name
	Width             int     `json:"width"`             // Image width
	Height            int     `json:"height"`            // Image height
	TileSize          int     `json:"tileSize"`          // Pixels per tile side
	ShadowMaxDistance float64 `json:"shadowMaxDistance"` // Upper bound of shadow rays
}

// Stats represents render statistics
type Stats struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Tiles       int     `json:"tiles"`
	Workers     int     `json:"workers"`
	TotalPixels int     `json:"totalPixels"`
	Hits        int     `json:"hits"`
	Misses      int     `json:"misses"`
	Coverage    float64 `json:"coverage"`
	DurationMs  int64   `json:"durationMs"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		Width:       stats.Width,
		Height:      stats.Height,
		Tiles:       stats.Tiles,
		Workers:     stats.Workers,
		TotalPixels: stats.TotalPixels,
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		Coverage:    stats.Coverage(),
		DurationMs:  stats.Duration.Milliseconds(),
	}
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", http.FileServer(http.Dir("static/")))

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files in the scene directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		s.logger.Errorf("Failed to list scenes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{}

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	} else {
		req.Scene = "default"
	}

	defaults := renderer.DefaultRenderConfig()

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.TileSize, err = parseIntParam(query, "tileSize", defaults.TileSize, 8, 512); err != nil {
		return nil, err
	}
	if req.ShadowMaxDistance, err = parseFloatParam(query, "shadowMaxDistance", defaults.ShadowMaxDistance, 1, 1e9); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1000*1000 {
		s.logger.Warnf("Render warning: %dx%d image may render slowly", req.Width, req.Height)
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene. Scene files are looked up by base
// name inside the scene directory only.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	name := req.Scene
	if scene.IsSceneFile(name) {
		name = filepath.Join(s.sceneDir, filepath.Base(name))
	}
	return scene.Create(name)
}

// newRaytracer creates a raytracer for the request
func (s *Server) newRaytracer(sceneObj *scene.Scene, req *RenderRequest) *renderer.Raytracer {
	rt := renderer.NewRaytracer(sceneObj, req.Width, req.Height)
	rt.SetConfig(renderer.RenderConfig{
		TileSize:          req.TileSize,
		NumWorkers:        0,
		ShadowMaxDistance: req.ShadowMaxDistance,
	})
	return rt
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
