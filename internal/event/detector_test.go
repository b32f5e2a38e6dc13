package event

import (
	"context"
	"errors"
	"testing"

	"github.com/raphaelgruber/cligue-go/internal/video"
)

type fakeAnalyzer struct {
	response string
	err      error

	gotJPEG   []byte
	gotPrompt string
}

func (f *fakeAnalyzer) AnalyzeFrame(_ context.Context, jpeg []byte, prompt string) (string, error) {
	f.gotJPEG = jpeg
	f.gotPrompt = prompt
	return f.response, f.err
}

func TestDetectFrame(t *testing.T) {
	analyzer := &fakeAnalyzer{response: "ACTION_EVENT|Person walks across frame|medium|person_1"}
	detector := NewDetector(analyzer, nil)

	frame := video.Frame{JPEG: []byte{0xff, 0xd8, 0xff, 0xd9}, Timestamp: 4.0, Index: 4}
	events := detector.DetectFrame(context.Background(), frame)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Timestamp != 4.0 || events[0].FrameIndex != 4 {
		t.Errorf("event carries timestamp %v frame %d, want 4.0 and 4",
			events[0].Timestamp, events[0].FrameIndex)
	}
	if len(analyzer.gotJPEG) != 4 {
		t.Errorf("analyzer received %d bytes, want the frame's 4", len(analyzer.gotJPEG))
	}
	if analyzer.gotPrompt == "" {
		t.Error("analyzer received an empty prompt")
	}
}

func TestDetectFrameModelError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("model unavailable")}
	detector := NewDetector(analyzer, nil)

	events := detector.DetectFrame(context.Background(), video.Frame{Index: 2})
	if len(events) != 0 {
		t.Errorf("expected 0 events on model failure, got %d", len(events))
	}
}

func TestDetectFrameNoneResponse(t *testing.T) {
	analyzer := &fakeAnalyzer{response: "NONE"}
	detector := NewDetector(analyzer, nil)

	events := detector.DetectFrame(context.Background(), video.Frame{})
	if len(events) != 0 {
		t.Errorf("expected 0 events for NONE, got %d", len(events))
	}
}
