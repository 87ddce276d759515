package server

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/df07/go-sky-raytracer/pkg/core"
)

// Console message levels
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// ConsoleMessage is one renderer log line forwarded to the browser console
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
}

// WebLogger implements core.Logger for a single render request. Every line is
// echoed to the server log and offered to the request's console channel.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	dropped     atomic.Int64
}

// NewWebLogger creates a logger for the render identified by renderID.
// consoleChan may be nil, in which case only the server log is written.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

var _ core.Logger = (*WebLogger)(nil)

// Printf formats a renderer message and forwards it without blocking the render
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	level := messageLevel(message)

	log.Printf("[%s] %s: %s", wl.renderID, level, strings.TrimSpace(message))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{Message: message, Timestamp: time.Now(), Level: level}:
	default:
		wl.dropped.Add(1)
	}
}

// Dropped returns how many messages were not delivered because the console was full
func (wl *WebLogger) Dropped() int64 {
	return wl.dropped.Load()
}

// messageLevel classifies renderer output: failed passes are errors and
// cancellations are warnings
func messageLevel(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "failed"), strings.Contains(lower, "error"):
		return LevelError
	case strings.Contains(lower, "cancelled"):
		return LevelWarning
	default:
		return LevelInfo
	}
}
