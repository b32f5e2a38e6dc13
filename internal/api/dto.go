package api

import (
	"time"

	"github.com/raphaelgruber/cligue-go/internal/metrics"
	"github.com/raphaelgruber/cligue-go/internal/summary"
)

// UploadResponse is returned after a video has been fully analyzed.
type UploadResponse struct {
	Status         string                         `json:"status"`
	VideoDuration  float64                        `json:"video_duration"`
	EventsDetected int                            `json:"events_detected"`
	Summary        string                         `json:"summary"`
	EventsByType   map[string][]summary.EventView `json:"events_by_type"`
	KeyHighlights  []string                       `json:"key_highlights"`
	Statistics     summary.Statistics             `json:"statistics"`
}

// ChatRequest carries one user message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant reply for one turn.
type ChatResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

// StatusResponse reports whether an analysis session is active.
type StatusResponse struct {
	VideoLoaded  bool `json:"video_loaded"`
	EventsCount  int  `json:"events_count"`
	HasEvents    bool `json:"has_events"`
	VLMAvailable bool `json:"vlm_available"`
}

// EventsResponse lists the events of one category.
type EventsResponse struct {
	Events []summary.EventView `json:"events"`
	Type   string              `json:"type"`
}

// HighlightsResponse lists the key highlights.
type HighlightsResponse struct {
	Highlights []string `json:"highlights"`
}

// HealthResponse is the health-check payload. ModelMetrics is present when
// the model client exposes call statistics.
type HealthResponse struct {
	Status       string            `json:"status"`
	VLMAvailable bool              `json:"vlm_available"`
	Timestamp    time.Time         `json:"timestamp"`
	ModelMetrics *metrics.Snapshot `json:"model_metrics,omitempty"`
}
