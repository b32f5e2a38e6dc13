package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/summary"
	"github.com/raphaelgruber/cligue-go/internal/vlm"
)

// DefaultWindow is the number of past exchanges sent to the model per turn.
const DefaultWindow = 10

// Chatter sends a conversation to the model. Satisfied by vlm.Client.
type Chatter interface {
	Chat(ctx context.Context, msgs []vlm.Message) (string, error)
}

// Agent answers follow-up questions about one analyzed video. Construction
// renders the analysis into an immutable system context and seeds memory
// with it; the context is never regenerated afterwards.
type Agent struct {
	events  []event.Event
	summary summary.Summary
	chatter Chatter
	logger  *slog.Logger

	window int

	mu     sync.Mutex
	memory *Memory
}

// New creates an agent for the given analysis. windowK ≤ 0 uses
// DefaultWindow.
func New(events []event.Event, sum summary.Summary, chatter Chatter, windowK int, logger *slog.Logger) *Agent {
	if windowK <= 0 {
		windowK = DefaultWindow
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Agent{
		events:  events,
		summary: sum,
		chatter: chatter,
		logger:  logger,
		window:  windowK,
		memory:  NewMemory(),
	}
	a.memory.Add(vlm.RoleSystem, BuildContext(events, sum))
	return a
}

// Chat handles one user turn: append, window, model call, append reply.
// It never fails; a model failure becomes a textual error reply so the
// conversation stays consistent and the user can retry.
func (a *Agent) Chat(ctx context.Context, userInput string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.memory.Add(vlm.RoleUser, userInput)

	reply, err := a.chatter.Chat(ctx, a.memory.Window(a.window))
	if err != nil {
		a.logger.Warn("chat turn failed", "error", err)
		reply = fmt.Sprintf("Error communicating with the model: %v", err)
	}

	a.memory.Add(vlm.RoleAssistant, reply)
	return reply
}

// Reset clears the conversation and re-seeds the original system context.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	system := a.memory.Window(0)
	a.memory.Clear()
	if len(system) > 0 && system[0].Role == vlm.RoleSystem {
		a.memory.Add(vlm.RoleSystem, system[0].Content)
	}
}

// Turns returns the number of stored messages, including the system
// context.
func (a *Agent) Turns() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.memory.Len()
}

// Statistics returns the analysis statistics.
func (a *Agent) Statistics() summary.Statistics {
	return a.summary.Statistics
}

// Summary returns the full analysis rollup.
func (a *Agent) Summary() summary.Summary {
	return a.summary
}

// EventsByCategory returns the category bucket for the given wire-format
// category name, nil when the category was never seen.
func (a *Agent) EventsByCategory(category string) []summary.EventView {
	return a.summary.EventsByCategory[category]
}

// EventsInRange returns views of events with start ≤ timestamp ≤ end, in
// production order.
func (a *Agent) EventsInRange(start, end float64) []summary.EventView {
	var views []summary.EventView
	for _, e := range a.events {
		if e.Timestamp >= start && e.Timestamp <= end {
			views = append(views, eventView(e))
		}
	}
	return views
}

// HighSeverityEvents returns views of all high-severity events.
func (a *Agent) HighSeverityEvents() []summary.EventView {
	var views []summary.EventView
	for _, e := range a.events {
		if e.Severity == event.SeverityHigh {
			views = append(views, eventView(e))
		}
	}
	return views
}

func eventView(e event.Event) summary.EventView {
	return summary.EventView{
		Timestamp:   summary.FormatTimestamp(e.Timestamp),
		Type:        string(e.Category),
		Description: e.Description,
		Severity:    e.Severity,
		Objects:     e.Objects,
	}
}
