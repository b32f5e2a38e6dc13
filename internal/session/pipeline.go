package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/cligue-go/internal/agent"
	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/summary"
	"github.com/raphaelgruber/cligue-go/internal/video"
)

// ErrVideoTooLong reports input exceeding the configured duration cap.
var ErrVideoTooLong = errors.New("video too long")

// errFrameLimit stops extraction once enough frames were visited. Internal
// control flow only, never returned to callers.
var errFrameLimit = errors.New("frame limit reached")

// Progress reports pipeline advancement to an optional observer.
type Progress struct {
	FramesDone  int
	FramesTotal int
	EventsFound int
}

// Detector detects events in one sampled frame. Satisfied by
// event.Detector.
type Detector interface {
	DetectFrame(ctx context.Context, frame video.Frame) []event.Event
}

// Analyzer runs the full analysis pipeline for one video: probe, sample
// frames, detect events per frame, aggregate, and construct the chat agent.
// The pipeline is synchronous: one frame at a time, in source order.
type Analyzer struct {
	source     video.Source
	detector   Detector
	summarizer *summary.Summarizer
	chatter    agent.Chatter
	logger     *slog.Logger

	// MaxDuration rejects longer videos; zero disables the check.
	MaxDuration time.Duration
	// MaxFrames caps how many sampled frames are analyzed; zero means all.
	MaxFrames int
	// MemoryWindow is the chat agent's exchange window (agent.DefaultWindow
	// when zero).
	MemoryWindow int
	// SampleFPS is used to estimate the total frame count for progress
	// reporting.
	SampleFPS float64
}

// NewAnalyzer wires the pipeline stages together.
func NewAnalyzer(source video.Source, detector Detector, summarizer *summary.Summarizer, chatter agent.Chatter, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		source:     source,
		detector:   detector,
		summarizer: summarizer,
		chatter:    chatter,
		logger:     logger,
	}
}

// Analyze processes the video at path and returns a ready session.
// onProgress, when non-nil, is called after every analyzed frame.
func (a *Analyzer) Analyze(ctx context.Context, path string, onProgress func(Progress)) (*Session, error) {
	info, err := a.source.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if a.MaxDuration > 0 && info.Duration > a.MaxDuration.Seconds() {
		return nil, fmt.Errorf("%w: %.1fs exceeds %.0fs limit", ErrVideoTooLong, info.Duration, a.MaxDuration.Seconds())
	}

	total := a.estimateFrames(info)
	a.logger.Info("analyzing video",
		"path", path,
		"duration", info.Duration,
		"estimated_frames", total,
	)

	var events []event.Event
	done := 0
	err = a.source.Extract(ctx, path, func(frame video.Frame) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		frameEvents := a.detector.DetectFrame(ctx, frame)
		events = append(events, frameEvents...)
		done++

		a.logger.Debug("processed frame",
			"frame_index", frame.Index,
			"timestamp", frame.Timestamp,
			"events", len(frameEvents),
		)
		if onProgress != nil {
			onProgress(Progress{FramesDone: done, FramesTotal: total, EventsFound: len(events)})
		}

		if a.MaxFrames > 0 && done >= a.MaxFrames {
			return errFrameLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errFrameLimit) {
		return nil, err
	}

	a.logger.Info("detection finished", "frames", done, "events", len(events))

	sum := a.summarizer.Summarize(ctx, events, info.Duration)
	ag := agent.New(events, sum, a.chatter, a.MemoryWindow, a.logger)

	return newSession(path, info.Duration, events, sum, ag), nil
}

// estimateFrames predicts how many sampled frames Extract will yield, for
// progress reporting only.
func (a *Analyzer) estimateFrames(info video.Info) int {
	fps := a.SampleFPS
	if fps <= 0 {
		fps = video.DefaultSampleFPS
	}
	total := int(info.Duration * fps)
	if total < 1 {
		total = 1
	}
	if a.MaxFrames > 0 && total > a.MaxFrames {
		total = a.MaxFrames
	}
	return total
}
