// Package session provides durable persistence for conversations: the
// on-disk session document, an atomic backup-protected file store, a bounded
// catalog of stored sessions, and the auto-save controller binding a live
// conversation to storage.
package session

import (
	"strings"
	"time"

	"github.com/ajmckee/parley/internal/chat"
)

// SchemaVersion is the current session document schema. Documents carrying a
// newer version load with a warning rather than being rejected.
const SchemaVersion = 1

const (
	// titleMaxChars is the character budget for derived session titles.
	titleMaxChars = 50

	// titleEllipsis marks a truncated title.
	titleEllipsis = "..."

	// DefaultTitle is used when no title can be derived.
	DefaultTitle = "New Conversation"
)

// Session is the durable unit of one conversation's full state.
type Session struct {
	SchemaVersion     int              `json:"schema_version"`
	ID                string           `json:"session_id"`
	Title             string           `json:"title"`
	CreatedAt         time.Time        `json:"created_at"`
	LastModifiedAt    time.Time        `json:"last_modified_at"`
	ContinuationToken string           `json:"continuation_token,omitempty"`
	Turns             []chat.Turn      `json:"turns"`
	ToolCalls         []ToolCallRecord `json:"tool_calls,omitempty"`
}

// ToolCallRecord is a display-oriented audit entry for one tool invocation.
// It is independent of the turn sequence and used for UI reconstruction
// only.
type ToolCallRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Arguments string    `json:"arguments"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary is the lightweight listing view of a stored session. It is derived
// from the document and never independently mutated.
type Summary struct {
	ID             string    `json:"session_id"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	MessageCount   int       `json:"message_count"`
	FilePath       string    `json:"file_path"`
}

// NewSessionID generates a stable, sortable identifier derived from the
// creation time.
func NewSessionID(now time.Time) string {
	return now.Format("20060102_150405")
}

// DeriveTitle produces a session title from the first user message: internal
// whitespace and newlines collapse to single spaces, the result is truncated
// to the character budget with an ellipsis marker, and an empty derivation
// falls back to a fixed default.
func DeriveTitle(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return DefaultTitle
	}
	runes := []rune(collapsed)
	if len(runes) > titleMaxChars {
		return string(runes[:titleMaxChars]) + titleEllipsis
	}
	return collapsed
}
