// Package agent holds the conversational side of the system: bounded
// conversation memory, the one-time context block grounding every chat
// turn, and the orchestrator that ties them to the model.
package agent

import "github.com/raphaelgruber/cligue-go/internal/vlm"

// Memory is an append-only, order-preserving message log with a bounded
// read view. It is single-session state: the orchestrator serializes
// access, so Memory itself carries no locking.
type Memory struct {
	msgs []vlm.Message
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends a message. It never fails.
func (m *Memory) Add(role vlm.Role, content string) {
	m.msgs = append(m.msgs, vlm.Message{Role: role, Content: content})
}

// Len returns the number of stored messages.
func (m *Memory) Len() int {
	return len(m.msgs)
}

// Window returns the last 2k messages (k user/assistant exchanges) without
// mutating the log. When fewer exist, all are returned.
//
// Contract: if message 0 is a system message that fell outside the window,
// it is re-prepended, so the system context is never silently dropped once
// enough turns accumulate. In that case the result holds 2k+1 messages.
// Non-positive k returns the whole log.
func (m *Memory) Window(k int) []vlm.Message {
	if k <= 0 || len(m.msgs) <= 2*k {
		return append([]vlm.Message(nil), m.msgs...)
	}

	tail := m.msgs[len(m.msgs)-2*k:]
	if m.msgs[0].Role == vlm.RoleSystem {
		window := make([]vlm.Message, 0, len(tail)+1)
		window = append(window, m.msgs[0])
		return append(window, tail...)
	}
	return append([]vlm.Message(nil), tail...)
}

// Clear irreversibly resets the memory to empty.
func (m *Memory) Clear() {
	m.msgs = nil
}
