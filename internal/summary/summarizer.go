package summary

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/raphaelgruber/cligue-go/internal/event"
)

// maxHighlights caps the highlight list regardless of how much the model
// produces.
const maxHighlights = 5

// fallbackKeyEvents is how many events the deterministic overview lists.
const fallbackKeyEvents = 5

// noEventsOverview is the fixed overview body when nothing was detected.
const noEventsOverview = "No significant events detected in this video."

// Generator produces text from a prompt. Satisfied by vlm.Client; tests
// substitute fakes to exercise the fallback paths.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Summarizer turns an event list plus duration into a Summary.
type Summarizer struct {
	gen    Generator
	logger *slog.Logger
}

// New creates a summarizer. gen may be nil, in which case every narrative
// degrades to its deterministic fallback.
func New(gen Generator, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{gen: gen, logger: logger}
}

// Summarize builds the full rollup for events detected in a video of the
// given duration (seconds). Events arrive in production order; only the
// timeline is re-sorted.
func (s *Summarizer) Summarize(ctx context.Context, events []event.Event, duration float64) Summary {
	byCategory, order := categorize(events)
	return Summary{
		Overview:         s.overview(ctx, events, duration),
		EventsByCategory: byCategory,
		CategoryOrder:    order,
		Timeline:         timeline(events),
		Highlights:       s.highlights(ctx, events),
		Statistics:       statistics(events, duration),
	}
}

// categorize groups events by category, preserving first-seen category
// order and production order within each bucket.
func categorize(events []event.Event) (map[string][]EventView, []string) {
	byCategory := make(map[string][]EventView)
	var order []string
	for _, e := range events {
		key := string(e.Category)
		if _, seen := byCategory[key]; !seen {
			order = append(order, key)
		}
		byCategory[key] = append(byCategory[key], EventView{
			Timestamp:   FormatTimestamp(e.Timestamp),
			Type:        key,
			Description: e.Description,
			Severity:    e.Severity,
			Objects:     e.Objects,
		})
	}
	return byCategory, order
}

// timeline stable-sorts events by timestamp; ties keep production order.
func timeline(events []event.Event) []TimelineEntry {
	sorted := make([]event.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	entries := make([]TimelineEntry, 0, len(sorted))
	for _, e := range sorted {
		entries = append(entries, TimelineEntry{
			Time:     FormatTimestamp(e.Timestamp),
			Event:    e.Description,
			Type:     string(e.Category),
			Severity: e.Severity,
		})
	}
	return entries
}

// statistics computes frequency tables. Division by zero is guarded:
// non-positive durations yield zero events per minute.
func statistics(events []event.Event, duration float64) Statistics {
	stats := Statistics{
		EventTypes:      map[string]int{},
		SeverityCounts:  map[string]int{},
		DurationMinutes: round2(duration / 60),
	}
	if len(events) == 0 {
		return stats
	}

	stats.TotalEvents = len(events)
	stats.SeverityCounts[event.SeverityLow] = 0
	stats.SeverityCounts[event.SeverityMedium] = 0
	stats.SeverityCounts[event.SeverityHigh] = 0

	for _, e := range events {
		stats.EventTypes[string(e.Category)]++
		stats.SeverityCounts[e.Severity]++
	}

	if duration > 0 {
		stats.EventsPerMinute = round2(float64(len(events)) / (duration / 60))
	}
	return stats
}

// overview generates the narrative summary, degrading to a deterministic
// local summary when the model is unavailable.
func (s *Summarizer) overview(ctx context.Context, events []event.Event, duration float64) string {
	if len(events) == 0 {
		return fmt.Sprintf("Video Analysis Summary (%ss):\n%s", FormatTimestamp(duration), noEventsOverview)
	}

	var lines []string
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", FormatTimestamp(e.Timestamp), e.Description, e.Category))
	}

	prompt := fmt.Sprintf(`Create a concise, engaging summary of this video based on the following events:

Video Duration: %ss
Events Detected:
%s

Please provide a natural, conversational summary that:
1. Describes what happened in the video
2. Highlights the most important events
3. Mentions the key people, objects, or activities involved
4. Gives a sense of the overall flow and context

Keep the summary engaging and informative, as if explaining to someone who hasn't seen the video.`,
		FormatTimestamp(duration), strings.Join(lines, "\n"))

	if s.gen != nil {
		text, err := s.gen.Generate(ctx, prompt)
		if err == nil {
			return text
		}
		s.logger.Warn("overview generation failed, using fallback", "error", err)
	}
	return fallbackOverview(events, duration)
}

// fallbackOverview builds the deterministic overview from local data only.
func fallbackOverview(events []event.Event, duration float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video Analysis Summary (%ss):\n", FormatTimestamp(duration))
	fmt.Fprintf(&b, "- Total events detected: %d\n", len(events))

	if len(events) > 0 {
		b.WriteString("- Key events:\n")
		for i, e := range events {
			if i >= fallbackKeyEvents {
				break
			}
			fmt.Fprintf(&b, "  • %s at %s\n", e.Description, FormatTimestamp(e.Timestamp))
		}
	}
	return b.String()
}

// highlights picks the most significant events and asks the model to phrase
// them, degrading to plain "<description> at <time>" lines.
func (s *Summarizer) highlights(ctx context.Context, events []event.Event) []string {
	if len(events) == 0 {
		return []string{"No significant events detected"}
	}

	selected := selectHighlightEvents(events)

	var lines []string
	for _, e := range selected {
		lines = append(lines, fmt.Sprintf("- %s at %s", e.Description, FormatTimestamp(e.Timestamp)))
	}

	prompt := fmt.Sprintf(`Based on these key events from a video, create 3-5 engaging highlights:

%s

Please provide highlights that:
1. Are concise and interesting
2. Capture the most important moments
3. Give context about what happened
4. Are written in an engaging way

Format as a simple list of highlights.`, strings.Join(lines, "\n"))

	if s.gen != nil {
		text, err := s.gen.Generate(ctx, prompt)
		if err == nil {
			if parsed := parseHighlights(text); len(parsed) > 0 {
				return parsed
			}
		} else {
			s.logger.Warn("highlight generation failed, using fallback", "error", err)
		}
	}
	return fallbackHighlights(selected)
}

// selectHighlightEvents prefers high-severity events and falls back to the
// first three in production order.
func selectHighlightEvents(events []event.Event) []event.Event {
	var high []event.Event
	for _, e := range events {
		if strings.EqualFold(e.Severity, event.SeverityHigh) {
			high = append(high, e)
		}
	}
	if len(high) > 0 {
		return high
	}
	if len(events) > 3 {
		return events[:3]
	}
	return events
}

// parseHighlights splits a model reply into one highlight per non-empty
// line, stripping common bullet markers and dropping markdown headers.
func parseHighlights(text string) []string {
	var highlights []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-•*"))
		if line == "" {
			continue
		}
		highlights = append(highlights, line)
		if len(highlights) == maxHighlights {
			break
		}
	}
	return highlights
}

func fallbackHighlights(selected []event.Event) []string {
	var highlights []string
	for i, e := range selected {
		if i >= 3 {
			break
		}
		highlights = append(highlights, fmt.Sprintf("%s at %s", e.Description, FormatTimestamp(e.Timestamp)))
	}
	return highlights
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
