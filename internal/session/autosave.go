package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ajmckee/parley/internal/chat"
	"github.com/ajmckee/parley/internal/telemetry"
)

// AutoSaver binds the live conversation to durable storage. It is a
// two-state machine, Inactive and Active; append and flush operations are
// no-ops while Inactive. Exactly one conversation auto-saves per process,
// and the AutoSaver exclusively owns the accumulating Session while Active.
type AutoSaver struct {
	store     *Store
	catalog   *Catalog
	telemetry *telemetry.Provider

	active   bool
	current  Session
	titleSet bool
}

// NewAutoSaver creates an inactive controller. catalog and tel may be nil.
func NewAutoSaver(store *Store, catalog *Catalog, tel *telemetry.Provider) *AutoSaver {
	return &AutoSaver{store: store, catalog: catalog, telemetry: tel}
}

// Active reports whether a conversation is currently accumulating.
func (a *AutoSaver) Active() bool {
	return a.active
}

// Begin transitions Inactive -> Active with a fresh, empty session.
func (a *AutoSaver) Begin(id string) {
	now := time.Now()
	a.current = Session{
		SchemaVersion:  SchemaVersion,
		ID:             id,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	a.titleSet = false
	a.active = true
}

// Adopt replaces the accumulating session wholesale, e.g. when switching to
// a previously saved session. An adopted title is kept; title derivation
// never overwrites it.
func (a *AutoSaver) Adopt(sess Session) {
	a.current = sess
	a.titleSet = sess.Title != ""
	a.active = true
}

// AppendTurn adds a turn to the accumulating session. The first user turn
// with non-empty text derives the session title, once.
func (a *AutoSaver) AppendTurn(t chat.Turn) {
	if !a.active {
		return
	}
	a.current.Turns = append(a.current.Turns, t)
	a.current.LastModifiedAt = time.Now()

	if !a.titleSet && t.Role == chat.RoleUser && t.Text != "" {
		a.current.Title = DeriveTitle(t.Text)
		a.titleSet = true
	}
}

// AppendToolCall adds a tool-call audit record to the accumulating session.
func (a *AutoSaver) AppendToolCall(rec ToolCallRecord) {
	if !a.active {
		return
	}
	a.current.ToolCalls = append(a.current.ToolCalls, rec)
	a.current.LastModifiedAt = time.Now()
}

// SetContinuationToken records the token returned by the latest exchange.
func (a *AutoSaver) SetContinuationToken(token string) {
	if !a.active {
		return
	}
	a.current.ContinuationToken = token
}

// Snapshot returns a copy of the accumulating session. Turns and tool calls
// are copied so the caller cannot mutate controller state.
func (a *AutoSaver) Snapshot() Session {
	sess := a.current
	sess.Turns = append([]chat.Turn(nil), a.current.Turns...)
	sess.ToolCalls = append([]ToolCallRecord(nil), a.current.ToolCalls...)
	return sess
}

// Flush persists the accumulating session if it has at least one turn, then
// refreshes the catalog. A flush while Inactive is a no-op.
func (a *AutoSaver) Flush(ctx context.Context) error {
	if !a.active || len(a.current.Turns) == 0 {
		return nil
	}

	err := a.store.Save(&a.current)
	a.telemetry.RecordSessionSave(ctx, a.current.ID, len(a.current.Turns), err == nil)
	if err != nil {
		return fmt.Errorf("auto-save flush: %w", err)
	}

	if a.catalog != nil {
		if err := a.catalog.Refresh(); err != nil {
			log.Printf("Failed to refresh session catalog after save: %v", err)
		}
	}
	return nil
}

// End performs a final flush and transitions Active -> Inactive, clearing
// all accumulated state.
func (a *AutoSaver) End(ctx context.Context) error {
	if !a.active {
		return nil
	}
	err := a.Flush(ctx)
	a.current = Session{}
	a.titleSet = false
	a.active = false
	return err
}
