package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
	"github.com/df07/go-sky-raytracer/pkg/scene"
)

// ProgressUpdate represents a single pass update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	MaxSamples       int     `json:"maxSamples"`
	MinSamples       int     `json:"minSamples"`
	MaxSamplesUsed   int     `json:"maxSamplesUsed"`
	AverageLuminance float64 `json:"averageLuminance"`
	SphereCount      int     `json:"sphereCount"`
}

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// SSEEvent is a single Server-Sent Event
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "progress", "error", "complete"
	Data string `json:"data"` // JSON-encoded data or plain message
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// sseWriter writes events to a streaming response. It is only used from the
// handler goroutine.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	return &sseWriter{w: w, flusher: flusher}, nil
}

func (sw *sseWriter) send(event SSEEvent) error {
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

func (sw *sseWriter) sendJSON(eventType string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return sw.send(SSEEvent{Type: eventType, Data: string(data)})
}

// handleRender handles progressive rendering with pass streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	sw, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		sw.send(SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		sw.send(SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	ctx := r.Context()
	startTime := time.Now()
	passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: req.TileUpdates})

	s.handleRenderingEvents(ctx, sw, consoleChan, passChan, tileChan, errChan, pipeline.Scene, req, startTime)
	s.reportDroppedMessages(sw, webLogger)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *WebLogger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan)
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	sceneObj, err := scene.FindScene(s.scenesDir, req.Scene, req.cameraOverrides())
	if err != nil {
		return nil, fmt.Errorf("failed to create scene %q: %w", req.Scene, err)
	}
	if err := sceneObj.CameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera configuration: %w", err)
	}

	config := renderer.DefaultProgressiveConfig()
	config.MaxPasses = req.MaxPasses

	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: renderer.NewProgressiveRaytracer(sceneObj, config, logger),
	}, nil
}

// handleRenderingEvents forwards render events to the client until every
// render channel is closed, then sends the completion event
func (s *Server) handleRenderingEvents(ctx context.Context, sw *sseWriter, consoleChan <-chan ConsoleMessage,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	sceneObj *scene.Scene, req *RenderRequest, startTime time.Time) {

	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(sw, passResult, req, sceneObj, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(sw, tileResult)

		case consoleMsg := <-consoleChan:
			s.handleConsoleMessage(sw, consoleMsg)

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			s.drainConsole(sw, consoleChan)
			if ctx.Err() == nil {
				sw.send(SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
			}
			return
		}
	}

	s.drainConsole(sw, consoleChan)
	sw.send(SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// reportDroppedMessages tells the client how many console lines it missed
func (s *Server) reportDroppedMessages(sw *sseWriter, webLogger *WebLogger) {
	dropped := webLogger.Dropped()
	if dropped == 0 {
		return
	}
	s.handleConsoleMessage(sw, ConsoleMessage{
		Message:   fmt.Sprintf("%d console messages dropped\n", dropped),
		Timestamp: time.Now(),
		Level:     LevelWarning,
	})
}

// drainConsole sends console messages still buffered after the render ended
func (s *Server) drainConsole(sw *sseWriter, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case consoleMsg := <-consoleChan:
			s.handleConsoleMessage(sw, consoleMsg)
		default:
			return
		}
	}
}

func (s *Server) handleConsoleMessage(sw *sseWriter, consoleMsg ConsoleMessage) {
	if err := sw.sendJSON("console", consoleMsg); err != nil {
		log.Printf("Error sending console message: %v", err)
	}
}

// handlePassComplete sends the pass image and statistics
func (s *Server) handlePassComplete(sw *sseWriter, passResult renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) {
	imageData, err := s.imageToBase64PNG(passResult.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", passResult.PassNumber, err)
		return
	}

	update := ProgressUpdate{
		PassNumber:  passResult.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:      passResult.Stats.TotalPixels,
			TotalSamples:     passResult.Stats.TotalSamples,
			AverageSamples:   passResult.Stats.AverageSamples,
			MaxSamples:       passResult.Stats.MaxSamples,
			MinSamples:       passResult.Stats.MinSamples,
			MaxSamplesUsed:   passResult.Stats.MaxSamplesUsed,
			AverageLuminance: passResult.Stats.AverageLuminance,
			SphereCount:      sceneObj.World.Len(),
		},
		IsComplete: passResult.IsLast,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}

	if err := sw.sendJSON("progress", update); err != nil {
		log.Printf("Error sending pass update: %v", err)
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(sw *sseWriter, tileResult renderer.TileCompletionResult) {
	tileData, err := s.imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}

	if err := sw.sendJSON("tile", update); err != nil {
		log.Printf("Error sending tile update: %v", err)
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
