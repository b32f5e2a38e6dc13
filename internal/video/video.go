// Package video provides the frame source: probing video files and sampling
// timestamped JPEG frames at a fixed cadence. The default implementation
// shells out to ffprobe/ffmpeg so the rest of the pipeline stays free of
// native decoder bindings.
package video

import (
	"context"
	"errors"
)

// ErrCannotOpen reports an unreadable or non-video input file.
var ErrCannotOpen = errors.New("cannot open video")

// Frame is one sampled frame: JPEG bytes plus its position in the source.
type Frame struct {
	JPEG      []byte
	Timestamp float64
	Index     int
}

// Info describes a probed video file.
type Info struct {
	Duration   float64
	FPS        float64
	FrameCount int
}

// Source produces a lazy, finite, non-restartable sequence of frames.
// Frames are visited in source order; the sequence cannot be rewound.
type Source interface {
	// Probe inspects the file without decoding it.
	Probe(ctx context.Context, path string) (Info, error)

	// Extract visits sampled frames in order, calling fn for each.
	// Returning an error from fn stops extraction and is returned as-is.
	Extract(ctx context.Context, path string, fn func(Frame) error) error
}
