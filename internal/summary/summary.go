// Package summary aggregates detected events into a recomputable rollup:
// category buckets, a chronological timeline, statistics, and a
// model-generated narrative with deterministic fallbacks.
package summary

import "fmt"

// EventView is the rendered form of an event inside category buckets.
type EventView struct {
	Timestamp   string   `json:"timestamp"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Objects     []string `json:"objects"`
}

// TimelineEntry is one row of the chronological timeline.
type TimelineEntry struct {
	Time     string `json:"time"`
	Event    string `json:"event"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
}

// Statistics summarizes event counts for a video.
//
// SeverityCounts is pre-seeded with zero entries for low/medium/high
// whenever at least one event exists; severities outside the nominal three
// are counted under their verbatim value. The zero-event path returns empty
// maps.
type Statistics struct {
	TotalEvents     int            `json:"total_events"`
	EventsPerMinute float64        `json:"events_per_minute"`
	EventTypes      map[string]int `json:"event_types"`
	SeverityCounts  map[string]int `json:"severity_distribution"`
	DurationMinutes float64        `json:"duration_minutes"`
}

// Summary is the derived rollup of all events for one video. It is rebuilt
// from scratch on every Summarize call, never mutated in place.
type Summary struct {
	Overview         string                 `json:"overview"`
	EventsByCategory map[string][]EventView `json:"events_by_type"`
	// CategoryOrder preserves first-seen category order for rendering,
	// since the bucket map itself is unordered.
	CategoryOrder []string        `json:"-"`
	Timeline      []TimelineEntry `json:"timeline"`
	Highlights    []string        `json:"key_highlights"`
	Statistics    Statistics      `json:"statistics"`
}

// FormatTimestamp renders seconds from video start as MM:SS. Minutes run
// past 59 for videos over an hour.
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
