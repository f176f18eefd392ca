package chat

import "log"

// History is an append-only ordered sequence of conversation turns. It is a
// pure data container: no deduplication, no mutation of prior entries, no
// I/O. It is not safe for concurrent use; the host drives everything from a
// single control thread.
type History struct {
	turns []Turn
}

// NewHistory creates a History seeded with the given turns. The slice is
// copied so later appends do not alias the caller's storage.
func NewHistory(turns []Turn) *History {
	h := &History{}
	h.turns = append(h.turns, turns...)
	return h
}

// Append adds a turn to the end of the history.
//
// A tool-result turn whose ToolCallID does not correlate to any earlier
// assistant invocation is tolerated but logged; upstream state tracking can
// drift and a broken correlation must never lose a turn.
func (h *History) Append(t Turn) {
	if t.IsToolResult() && !h.hasInvocation(t.ToolCallID) {
		log.Printf("Warning: tool result %q does not match any prior tool invocation", t.ToolCallID)
	}
	h.turns = append(h.turns, t)
}

// Turns returns the ordered turn sequence. The returned slice is shared with
// the History; callers must treat it as read-only.
func (h *History) Turns() []Turn {
	return h.turns
}

// Len returns the number of turns.
func (h *History) Len() int {
	return len(h.turns)
}

func (h *History) hasInvocation(callID string) bool {
	for _, t := range h.turns {
		if t.Role != RoleAssistant {
			continue
		}
		for _, id := range t.ToolCallIDs {
			if id == callID {
				return true
			}
		}
	}
	return false
}
