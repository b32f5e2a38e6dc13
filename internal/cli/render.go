package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/cligue-go/internal/session"
)

// Theme holds the color scheme for terminal output.
type Theme struct {
	Header  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Accent  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Header:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Accent:  lipgloss.Color("#D7AF5F"), // amber
}

func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}

func (t Theme) successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

// timelinePreview caps how many timeline rows the CLI prints.
const timelinePreview = 20

// renderSummary renders the analysis result for the terminal.
func renderSummary(sess *session.Session, theme Theme) string {
	var b strings.Builder
	sum := sess.Summary

	b.WriteString(theme.headerStyle().Render("Overview"))
	b.WriteString("\n")
	b.WriteString(sum.Overview)
	b.WriteString("\n\n")

	b.WriteString(theme.headerStyle().Render("Statistics"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Events detected:   %d\n", sum.Statistics.TotalEvents)
	fmt.Fprintf(&b, "  Events per minute: %.2f\n", sum.Statistics.EventsPerMinute)
	fmt.Fprintf(&b, "  Duration:          %.2f minutes\n", sum.Statistics.DurationMinutes)
	for category, count := range sum.Statistics.EventTypes {
		fmt.Fprintf(&b, "  %-19s%d\n", category+":", count)
	}
	b.WriteString("\n")

	b.WriteString(theme.headerStyle().Render("Highlights"))
	b.WriteString("\n")
	for i, h := range sum.Highlights {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, h)
	}
	b.WriteString("\n")

	b.WriteString(theme.headerStyle().Render("Timeline"))
	b.WriteString("\n")
	for i, entry := range sum.Timeline {
		if i >= timelinePreview {
			b.WriteString(theme.hintStyle().Render(
				fmt.Sprintf("  ... and %d more events", len(sum.Timeline)-timelinePreview)))
			b.WriteString("\n")
			break
		}
		fmt.Fprintf(&b, "  %s  %s %s\n",
			theme.accentStyle().Render(entry.Time),
			entry.Event,
			theme.hintStyle().Render("("+entry.Type+")"),
		)
	}

	return b.String()
}
