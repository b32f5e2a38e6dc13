// Package event turns free-form model descriptions of video frames into
// structured events. The model output is treated as untrusted text: parsing
// degrades through a structured pipe format, keyword heuristics, and a
// catch-all, but never fails.
package event

// Category is the closed classification of a detected event. The string
// values are the wire representation and must stay stable: they are used as
// bucket keys in summaries and API responses.
type Category string

const (
	CategoryAction      Category = "action_event"
	CategoryObject      Category = "object_event"
	CategoryInteraction Category = "interaction_event"
	CategorySceneChange Category = "scene_change"
	CategoryActivity    Category = "activity_event"
	CategoryUnknown     Category = "unknown"
)

// Nominal severity values. Parsing does not validate against these: an
// unrecognized severity string is preserved verbatim on the event and counted
// under its own key in summary.Statistics.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Event is one structured observation extracted from a single sampled frame.
// Events are immutable once created; timestamps and frame indices are
// non-decreasing in production order because frames are visited in sampling
// order.
type Event struct {
	Timestamp   float64  `json:"timestamp"`
	Category    Category `json:"category"`
	Subtype     string   `json:"subtype"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Confidence  float64  `json:"confidence"`
	Objects     []string `json:"objects_involved"`
	FrameIndex  int      `json:"frame_index"`
}
