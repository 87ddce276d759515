package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sky-raytracer/pkg/renderer"
	"github.com/df07/go-sky-raytracer/pkg/scene"
)

// Request parameter limits
const (
	MaxWidth   = 2000
	MaxSamples = 10000
	MaxPasses  = 10000
	MaxDepth   = 1000
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string // Directory scanned for JSON scene files
	staticDir string // Directory served at "/"
}

// NewServer creates a new web server
func NewServer(port int, scenesDir, staticDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, staticDir: staticDir}
}

// RenderRequest represents a render request from the client.
// Zero camera fields keep the scene's defaults.
type RenderRequest struct {
	Scene       string `json:"scene"`       // Scene ID from /api/scenes
	Width       int    `json:"width"`       // Image width
	MaxSamples  int    `json:"maxSamples"`  // Samples per pixel
	MaxDepth    int    `json:"maxDepth"`    // Maximum bounce depth
	Seed        uint64 `json:"seed"`        // Random seed (0 = scene default)
	MaxPasses   int    `json:"maxPasses"`   // Maximum number of passes
	TileUpdates bool   `json:"tileUpdates"` // Stream per-tile events
}

// cameraOverrides returns the request's camera settings as scene overrides
func (req *RenderRequest) cameraOverrides() renderer.CameraConfig {
	return renderer.CameraConfig{
		ImageWidth:      req.Width,
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
		Seed:            req.Seed,
	}
}

// Handler returns the HTTP handler serving the API and static files
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}

	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default camera configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = "default"
	}

	sceneObj, err := scene.FindScene(s.scenesDir, sceneID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.GetCameraConfig()
	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":           config.ImageWidth,
			"aspectRatio":     config.AspectRatio,
			"samplesPerPixel": config.SamplesPerPixel,
			"maxDepth":        config.MaxDepth,
			"seed":            config.Seed,
			"maxPasses":       renderer.DefaultProgressiveConfig().MaxPasses,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": 1, "max": MaxWidth},
			"maxSamples": map[string]int{"min": 1, "max": MaxSamples},
			"maxDepth":   map[string]int{"min": 0, "max": MaxDepth},
			"maxPasses":  map[string]int{"min": 1, "max": MaxPasses},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, MaxWidth); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "samples", 0, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", 0, 1, MaxDepth); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "passes", renderer.DefaultProgressiveConfig().MaxPasses, 1, MaxPasses); err != nil {
		return nil, err
	}
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseUint(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}
	req.TileUpdates = query.Get("tiles") == "true" || query.Get("tiles") == "1"

	// Performance warning
	if req.Width > 800 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation.
// An absent parameter yields defaultValue without range checks.
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

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
