// Package api exposes the analysis pipeline and chat agent over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/raphaelgruber/cligue-go/internal/metrics"
	"github.com/raphaelgruber/cligue-go/internal/session"
	"github.com/raphaelgruber/cligue-go/internal/video"
)

// Prober checks whether the model backend is reachable. Satisfied by
// vlm.Client.
type Prober interface {
	Available(ctx context.Context) bool
}

// MetricsSource exposes model-call statistics. Satisfied by vlm.Client;
// probers without it simply yield a health payload without metrics.
type MetricsSource interface {
	Metrics() metrics.Snapshot
}

// Analyzer runs the analysis pipeline. Satisfied by session.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, path string, onProgress func(session.Progress)) (*session.Session, error)
}

// Handler serves the upload, chat, and analysis endpoints against the
// current session.
type Handler struct {
	analyzer Analyzer
	sessions *session.Manager
	prober   Prober
	logger   *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(analyzer Analyzer, sessions *session.Manager, prober Prober, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		analyzer: analyzer,
		sessions: sessions,
		prober:   prober,
		logger:   logger,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/upload_video", h.UploadVideo)
	e.POST("/chat", h.Chat)
	e.GET("/ws/chat", h.ChatWS)
	e.GET("/status", h.Status)
	e.GET("/analysis", h.Analysis)
	e.GET("/events/:type", h.EventsByType)
	e.GET("/highlights", h.Highlights)
	e.GET("/statistics", h.Statistics)
	e.GET("/health", h.Health)
}

// UploadVideo accepts a multipart video upload, runs the full analysis
// pipeline, and installs the resulting session as current.
func (h *Handler) UploadVideo(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest("missing_file", "multipart field 'file' is required")
	}

	if !h.prober.Available(c.Request().Context()) {
		return serviceUnavailable("model_unavailable",
			"model not available; ensure the backend is running and the model is loaded")
	}

	tempPath, cleanup, err := h.saveUpload(file)
	if err != nil {
		h.logger.Error("failed to store upload", "error", err)
		return internalError("upload_failed", "failed to store uploaded video")
	}
	defer cleanup()

	sess, err := h.analyzer.Analyze(c.Request().Context(), tempPath, nil)
	switch {
	case errors.Is(err, video.ErrCannotOpen):
		return badRequest("invalid_video", "cannot open video")
	case errors.Is(err, session.ErrVideoTooLong):
		return badRequest("video_too_long", err.Error())
	case err != nil:
		h.logger.Error("analysis failed", "error", err)
		return internalError("analysis_failed", "video analysis failed")
	}

	h.sessions.Set(sess)
	h.logger.Info("analysis session created",
		"session_id", sess.ID,
		"duration", sess.Duration,
		"events", len(sess.Events),
	)

	return c.JSON(http.StatusOK, UploadResponse{
		Status:         "success",
		VideoDuration:  sess.Duration,
		EventsDetected: len(sess.Events),
		Summary:        sess.Summary.Overview,
		EventsByType:   sess.Summary.EventsByCategory,
		KeyHighlights:  sess.Summary.Highlights,
		Statistics:     sess.Summary.Statistics,
	})
}

// Chat handles one conversational turn against the current session.
func (h *Handler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_request", "invalid request body")
	}
	if req.Message == "" {
		return badRequest("empty_message", "message must not be empty")
	}

	sess, ok := h.sessions.Current()
	if !ok {
		return badRequest("no_session", "no video uploaded yet")
	}

	reply := sess.Agent.Chat(c.Request().Context(), req.Message)
	return c.JSON(http.StatusOK, ChatResponse{Response: reply, Status: "success"})
}

// Status reports whether an analysis is loaded and the model reachable.
func (h *Handler) Status(c echo.Context) error {
	resp := StatusResponse{
		VLMAvailable: h.prober.Available(c.Request().Context()),
	}
	if sess, ok := h.sessions.Current(); ok {
		resp.VideoLoaded = true
		resp.EventsCount = len(sess.Events)
		resp.HasEvents = len(sess.Events) > 0
	}
	return c.JSON(http.StatusOK, resp)
}

// Analysis returns the complete summary of the current session.
func (h *Handler) Analysis(c echo.Context) error {
	sess, ok := h.sessions.Current()
	if !ok {
		return badRequest("no_session", "no video analysis available")
	}
	return c.JSON(http.StatusOK, sess.Summary)
}

// EventsByType returns the bucket for one category.
func (h *Handler) EventsByType(c echo.Context) error {
	sess, ok := h.sessions.Current()
	if !ok {
		return badRequest("no_session", "no video uploaded yet")
	}
	eventType := c.Param("type")
	return c.JSON(http.StatusOK, EventsResponse{
		Events: sess.Agent.EventsByCategory(eventType),
		Type:   eventType,
	})
}

// Highlights returns the key highlights of the current session.
func (h *Handler) Highlights(c echo.Context) error {
	sess, ok := h.sessions.Current()
	if !ok {
		return badRequest("no_session", "no video analysis available")
	}
	return c.JSON(http.StatusOK, HighlightsResponse{Highlights: sess.Summary.Highlights})
}

// Statistics returns the statistics of the current session.
func (h *Handler) Statistics(c echo.Context) error {
	sess, ok := h.sessions.Current()
	if !ok {
		return badRequest("no_session", "no video analysis available")
	}
	return c.JSON(http.StatusOK, sess.Summary.Statistics)
}

// Health is the liveness probe.
func (h *Handler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:       "healthy",
		VLMAvailable: h.prober.Available(c.Request().Context()),
		Timestamp:    time.Now().UTC(),
	}
	if src, ok := h.prober.(MetricsSource); ok {
		snap := src.Metrics()
		resp.ModelMetrics = &snap
	}
	return c.JSON(http.StatusOK, resp)
}

// saveUpload copies the multipart file into a temp file the pipeline can
// read; cleanup removes it.
func (h *Handler) saveUpload(file *multipart.FileHeader) (string, func(), error) {
	src, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "cligue-upload-*.mp4")
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}
