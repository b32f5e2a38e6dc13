package video

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultSampleFPS is the sampling cadence in frames per second, independent
// of the source frame rate.
const DefaultSampleFPS = 1.0

// FFmpegSource samples frames by piping MJPEG out of an ffmpeg process.
type FFmpegSource struct {
	// SampleFPS is the frames-per-second sampling target. Zero means
	// DefaultSampleFPS.
	SampleFPS float64

	// FFmpegPath and FFprobePath override the binaries looked up on PATH.
	FFmpegPath  string
	FFprobePath string
}

var _ Source = (*FFmpegSource)(nil)

// NewFFmpegSource creates a source sampling at the given fps.
func NewFFmpegSource(sampleFPS float64) *FFmpegSource {
	if sampleFPS <= 0 {
		sampleFPS = DefaultSampleFPS
	}
	return &FFmpegSource{SampleFPS: sampleFPS}
}

func (s *FFmpegSource) ffmpeg() string {
	if s.FFmpegPath != "" {
		return s.FFmpegPath
	}
	return "ffmpeg"
}

func (s *FFmpegSource) ffprobe() string {
	if s.FFprobePath != "" {
		return s.FFprobePath
	}
	return "ffprobe"
}

func (s *FFmpegSource) sampleFPS() float64 {
	if s.SampleFPS <= 0 {
		return DefaultSampleFPS
	}
	return s.SampleFPS
}

// probeOutput matches the subset of `ffprobe -of json` output we read.
type probeOutput struct {
	Streams []struct {
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe inspects the file with ffprobe. Unreadable or non-video input
// returns ErrCannotOpen.
func (s *FFmpegSource) Probe(ctx context.Context, path string) (Info, error) {
	if _, err := os.Stat(path); err != nil {
		return Info{}, fmt.Errorf("%w: %s", ErrCannotOpen, path)
	}

	cmd := exec.CommandContext(ctx, s.ffprobe(),
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,nb_frames",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s", ErrCannotOpen, path)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return Info{}, fmt.Errorf("%w: no video stream in %s", ErrCannotOpen, path)
	}

	info := Info{
		Duration:   parseFloat(probe.Format.Duration),
		FPS:        parseRational(probe.Streams[0].RFrameRate),
		FrameCount: int(parseFloat(probe.Streams[0].NbFrames)),
	}
	if info.FrameCount == 0 && info.FPS > 0 {
		info.FrameCount = int(info.Duration * info.FPS)
	}
	return info, nil
}

// Extract runs ffmpeg with an fps filter and an MJPEG image2pipe output,
// splitting the stream on JPEG frame boundaries. Timestamps derive from the
// sampling cadence: frame i sits at i/sampleFPS seconds.
func (s *FFmpegSource) Extract(ctx context.Context, path string, fn func(Frame) error) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrCannotOpen, path)
	}

	cmd := exec.CommandContext(ctx, s.ffmpeg(),
		"-i", path,
		"-vf", fmt.Sprintf("fps=%g", s.sampleFPS()),
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "4",
		"-",
	)
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s", ErrCannotOpen, path)
	}

	visitErr := s.scanJPEGs(stdout, fn)
	if visitErr != nil {
		// The consumer stopped early; the process is still writing.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return visitErr
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// scanJPEGs splits a concatenated MJPEG stream into individual frames using
// the JPEG SOI/EOI markers.
func (s *FFmpegSource) scanJPEGs(r io.Reader, fn func(Frame) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 32<<20)
	scanner.Split(splitJPEG)

	index := 0
	for scanner.Scan() {
		frame := make([]byte, len(scanner.Bytes()))
		copy(frame, scanner.Bytes())

		err := fn(Frame{
			JPEG:      frame,
			Timestamp: float64(index) / s.sampleFPS(),
			Index:     index,
		})
		if err != nil {
			return err
		}
		index++
	}
	return scanner.Err()
}

var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

// splitJPEG is a bufio.SplitFunc yielding one JPEG image per token.
func splitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := bytes.Index(data, jpegSOI)
	if start < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	end := bytes.Index(data[start+2:], jpegEOI)
	if end < 0 {
		if atEOF {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return start, nil, nil
	}
	stop := start + 2 + end + 2
	return stop, data[start:stop], nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseRational parses ffprobe frame rates like "30000/1001".
func parseRational(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return parseFloat(s)
	}
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return parseFloat(num) / d
}
