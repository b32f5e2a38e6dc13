package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/summary"
	"github.com/raphaelgruber/cligue-go/internal/video"
	"github.com/raphaelgruber/cligue-go/internal/vlm"
)

type fakeSource struct {
	info     video.Info
	probeErr error
	frames   []video.Frame
}

func (f *fakeSource) Probe(_ context.Context, _ string) (video.Info, error) {
	return f.info, f.probeErr
}

func (f *fakeSource) Extract(_ context.Context, _ string, fn func(video.Frame) error) error {
	for _, frame := range f.frames {
		if err := fn(frame); err != nil {
			return err
		}
	}
	return nil
}

type fakeDetector struct {
	perFrame []event.Event
	seen     int
}

func (f *fakeDetector) DetectFrame(_ context.Context, frame video.Frame) []event.Event {
	f.seen++
	events := make([]event.Event, len(f.perFrame))
	copy(events, f.perFrame)
	for i := range events {
		events[i].Timestamp = frame.Timestamp
		events[i].FrameIndex = frame.Index
	}
	return events
}

type stubChatter struct{}

func (stubChatter) Chat(_ context.Context, _ []vlm.Message) (string, error) {
	return "ok", nil
}

func makeFrames(n int) []video.Frame {
	frames := make([]video.Frame, n)
	for i := range frames {
		frames[i] = video.Frame{Timestamp: float64(i), Index: i}
	}
	return frames
}

func newTestAnalyzer(source *fakeSource, detector *fakeDetector) *Analyzer {
	return NewAnalyzer(source, detector, summary.New(nil, nil), stubChatter{}, nil)
}

func TestAnalyze(t *testing.T) {
	source := &fakeSource{
		info:   video.Info{Duration: 4, FPS: 30},
		frames: makeFrames(4),
	}
	detector := &fakeDetector{perFrame: []event.Event{
		{Category: event.CategoryAction, Description: "movement", Severity: "low"},
	}}
	analyzer := newTestAnalyzer(source, detector)

	sess, err := analyzer.Analyze(context.Background(), "clip.mp4", nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if detector.seen != 4 {
		t.Errorf("detector saw %d frames, want 4", detector.seen)
	}
	if len(sess.Events) != 4 {
		t.Errorf("session has %d events, want 4", len(sess.Events))
	}
	if sess.Duration != 4 {
		t.Errorf("session duration = %v, want 4", sess.Duration)
	}
	if sess.ID == "" {
		t.Error("session should have an ID")
	}
	if sess.Agent == nil {
		t.Fatal("session should carry a ready agent")
	}
	if sess.Summary.Statistics.TotalEvents != 4 {
		t.Errorf("summary total = %d, want 4", sess.Summary.Statistics.TotalEvents)
	}
}

func TestAnalyzeRejectsLongVideo(t *testing.T) {
	source := &fakeSource{info: video.Info{Duration: 300}}
	analyzer := newTestAnalyzer(source, &fakeDetector{})
	analyzer.MaxDuration = 2 * time.Minute

	_, err := analyzer.Analyze(context.Background(), "long.mp4", nil)
	if !errors.Is(err, ErrVideoTooLong) {
		t.Errorf("err = %v, want ErrVideoTooLong", err)
	}
}

func TestAnalyzeZeroMaxDurationDisablesCheck(t *testing.T) {
	source := &fakeSource{info: video.Info{Duration: 10000}, frames: makeFrames(1)}
	analyzer := newTestAnalyzer(source, &fakeDetector{})

	if _, err := analyzer.Analyze(context.Background(), "long.mp4", nil); err != nil {
		t.Errorf("Analyze: %v, want no duration rejection", err)
	}
}

func TestAnalyzeProbeError(t *testing.T) {
	source := &fakeSource{probeErr: video.ErrCannotOpen}
	analyzer := newTestAnalyzer(source, &fakeDetector{})

	_, err := analyzer.Analyze(context.Background(), "missing.mp4", nil)
	if !errors.Is(err, video.ErrCannotOpen) {
		t.Errorf("err = %v, want ErrCannotOpen", err)
	}
}

func TestAnalyzeFrameCap(t *testing.T) {
	source := &fakeSource{
		info:   video.Info{Duration: 10},
		frames: makeFrames(10),
	}
	detector := &fakeDetector{}
	analyzer := newTestAnalyzer(source, detector)
	analyzer.MaxFrames = 3

	sess, err := analyzer.Analyze(context.Background(), "clip.mp4", nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if detector.seen != 3 {
		t.Errorf("detector saw %d frames, want cap of 3", detector.seen)
	}
	if sess == nil {
		t.Fatal("capped analysis should still produce a session")
	}
}

func TestAnalyzeProgress(t *testing.T) {
	source := &fakeSource{
		info:   video.Info{Duration: 3},
		frames: makeFrames(3),
	}
	detector := &fakeDetector{perFrame: []event.Event{{Category: event.CategoryAction, Description: "m", Severity: "low"}}}
	analyzer := newTestAnalyzer(source, detector)
	analyzer.SampleFPS = 1

	var reports []Progress
	_, err := analyzer.Analyze(context.Background(), "clip.mp4", func(p Progress) {
		reports = append(reports, p)
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(reports) != 3 {
		t.Fatalf("got %d progress reports, want 3", len(reports))
	}
	last := reports[len(reports)-1]
	if last.FramesDone != 3 || last.FramesTotal != 3 || last.EventsFound != 3 {
		t.Errorf("final progress = %+v, want 3/3 with 3 events", last)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	source := &fakeSource{
		info:   video.Info{Duration: 3},
		frames: makeFrames(3),
	}
	analyzer := newTestAnalyzer(source, &fakeDetector{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx, "clip.mp4", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEstimateFrames(t *testing.T) {
	tests := []struct {
		name      string
		duration  float64
		fps       float64
		maxFrames int
		want      int
	}{
		{"one per second", 30, 1, 0, 30},
		{"default fps when unset", 10, 0, 0, 10},
		{"capped by max frames", 100, 1, 25, 25},
		{"never below one", 0.2, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Analyzer{SampleFPS: tt.fps, MaxFrames: tt.maxFrames}
			if got := a.estimateFrames(video.Info{Duration: tt.duration}); got != tt.want {
				t.Errorf("estimateFrames = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	if _, ok := m.Current(); ok {
		t.Error("fresh manager should have no session")
	}

	sess := &Session{ID: "abc"}
	m.Set(sess)
	got, ok := m.Current()
	if !ok || got.ID != "abc" {
		t.Errorf("Current = %v/%v, want the stored session", got, ok)
	}

	m.Reset()
	if _, ok := m.Current(); ok {
		t.Error("manager should be empty after reset")
	}
}
