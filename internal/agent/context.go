package agent

import (
	"fmt"
	"strings"

	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/summary"
)

// detailedEventLimit caps the fully-detailed event list in the context.
const detailedEventLimit = 15

// categoryEventLimit caps the per-category event lists in the context.
const categoryEventLimit = 5

const contextPreamble = `You are an intelligent video analysis assistant. You have analyzed a video and detected various events, objects, and activities. Your role is to help users understand the video content through natural conversation.

ANALYSIS CONTEXT:
`

const contextGuidelines = `RESPONSE GUIDELINES:
- Be specific and reference actual events, timestamps, and details from the analysis
- Provide clear, concise explanations
- If asked about something not in the analysis, acknowledge this clearly
- Use natural, conversational language
- When appropriate, suggest related questions or topics
- Focus on what is actually visible and detected in the video
- Be helpful and informative while staying accurate to the analysis

CAPABILITIES:
- Describe what happened in the video
- Explain specific events or moments with timestamps
- Identify objects, entities, or activities detected
- Analyze patterns or behaviors
- Compare different events or time periods
- Identify the most significant moments
- Answer questions about video content
- Provide context and explanations

Remember: Always base your responses on the actual analysis data provided. If you're uncertain about something, say so clearly.`

// BuildContext renders the analysis into the system-level text block that
// grounds every chat turn. Section order is fixed; the block is generated
// exactly once at agent construction and never rebuilt.
func BuildContext(events []event.Event, sum summary.Summary) string {
	var b strings.Builder
	b.WriteString(contextPreamble)

	b.WriteString("VIDEO OVERVIEW:\n")
	if sum.Overview != "" {
		b.WriteString(sum.Overview)
	} else {
		b.WriteString("No summary available.")
	}
	b.WriteString("\n\n")

	if stats := sum.Statistics; stats.TotalEvents > 0 || stats.DurationMinutes > 0 {
		b.WriteString("VIDEO STATISTICS:\n")
		fmt.Fprintf(&b, "- Total events detected: %d\n", stats.TotalEvents)
		fmt.Fprintf(&b, "- Events per minute: %.1f\n", stats.EventsPerMinute)
		fmt.Fprintf(&b, "- Video duration: %.1f minutes\n", stats.DurationMinutes)
		b.WriteString("\n")
	}

	b.WriteString("KEY HIGHLIGHTS:\n")
	b.WriteString(formatHighlights(sum.Highlights))
	b.WriteString("\n\n")

	b.WriteString("TIMELINE OF EVENTS:\n")
	b.WriteString(formatTimeline(sum.Timeline))
	b.WriteString("\n\n")

	b.WriteString("EVENTS BY CATEGORY:\n")
	b.WriteString(formatCategories(sum))
	b.WriteString("\n\n")

	if len(events) > 0 {
		b.WriteString("DETAILED EVENT ANALYSIS:\n")
		for i, e := range events {
			if i >= detailedEventLimit {
				break
			}
			fmt.Fprintf(&b, "%d. %s (Type: %s, Severity: %s, Time: %s)\n",
				i+1, e.Description, e.Category, e.Severity, summary.FormatTimestamp(e.Timestamp))
		}
		b.WriteString("\n")
	}

	b.WriteString(contextGuidelines)
	return b.String()
}

func formatHighlights(highlights []string) string {
	if len(highlights) == 0 {
		return "No highlights available."
	}
	var lines []string
	for i, h := range highlights {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, h))
	}
	return strings.Join(lines, "\n")
}

func formatTimeline(timeline []summary.TimelineEntry) string {
	if len(timeline) == 0 {
		return "No timeline available."
	}
	var lines []string
	for _, entry := range timeline {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", entry.Time, entry.Event, entry.Type))
	}
	return strings.Join(lines, "\n")
}

func formatCategories(sum summary.Summary) string {
	if len(sum.CategoryOrder) == 0 {
		return "No events categorized."
	}
	var lines []string
	for _, category := range sum.CategoryOrder {
		lines = append(lines, titleCase(category)+":")
		for i, view := range sum.EventsByCategory[category] {
			if i >= categoryEventLimit {
				break
			}
			lines = append(lines, fmt.Sprintf("  • %s at %s", view.Description, view.Timestamp))
		}
	}
	return strings.Join(lines, "\n")
}

// titleCase turns "action_event" into "Action Event".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
