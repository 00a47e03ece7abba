package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

var renderCounter atomic.Int64

// RenderUpdate is the payload of the final SSE "complete" event
type RenderUpdate struct {
	Scene     string `json:"scene"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// SSEEvent represents one server-sent event
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// renderResult carries the outcome of a render goroutine
type renderResult struct {
	image *output.Image
	stats renderer.RenderStats
	err   error
}

// renderStatus maps scene creation errors to an HTTP status
func renderStatus(err error) int {
	if errors.Is(err, scene.ErrUnknownScene) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// renderImage renders the request into a fresh image
func (s *Server) renderImage(ctx context.Context, req *RenderRequest, rt *renderer.Raytracer) renderResult {
	img := output.NewImage(req.Width, req.Height)
	stats, err := rt.Render(ctx, img)
	return renderResult{image: img, stats: stats, err: err}
}

// handleRender renders a scene and responds with the PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, renderStatus(err), err.Error())
		return
	}

	rt := s.newRaytracer(sceneObj, req)
	rt.SetLogger(s.logger)

	result := s.renderImage(r.Context(), req, rt)
	if result.err != nil {
		s.logger.Warnf("Render of %s failed: %v", req.Scene, result.err)
		writeError(w, http.StatusServiceUnavailable, result.err.Error())
		return
	}

	data, err := result.image.PNG()
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Hits", strconv.Itoa(result.stats.Hits))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(result.stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleRenderStream renders a scene while streaming the render log over
// SSE, then sends the finished image in a "complete" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, 100)

	rt := s.newRaytracer(sceneObj, req)
	rt.SetLogger(NewWebLogger(renderID, consoleChan, s.logger))

	startTime := time.Now()
	done := make(chan renderResult, 1)
	go func() {
		done <- s.renderImage(ctx, req, rt)
	}()

	// Events are written from this goroutine only
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)

		case result := <-done:
			s.drainConsole(w, consoleChan)
			if result.err != nil {
				s.sendSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", result.err)})
				return
			}
			s.sendComplete(w, req, result, startTime)
			return
		}
	}
}

func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) drainConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendConsoleMessage(w, msg)
		default:
			return
		}
	}
}

func (s *Server) sendConsoleMessage(w http.ResponseWriter, msg ConsoleMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.sendSSEEvent(w, SSEEvent{Type: "console", Data: string(data)})
}

func (s *Server) sendComplete(w http.ResponseWriter, req *RenderRequest, result renderResult, startTime time.Time) {
	png, err := result.image.PNG()
	if err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("failed to encode image: %v", err)})
		return
	}

	update := RenderUpdate{
		Scene:     req.Scene,
		ImageData: base64.StdEncoding.EncodeToString(png),
		Stats:     newStats(result.stats),
		ElapsedMs: time.Since(startTime).Milliseconds(),
	}
	data, err := json.Marshal(update)
	if err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}
	s.sendSSEEvent(w, SSEEvent{Type: "complete", Data: string(data)})
}

// sendSSEEvent writes and flushes one event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
