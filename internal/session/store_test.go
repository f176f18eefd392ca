package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajmckee/parley/internal/chat"
)

func testSession(id string) *Session {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &Session{
		SchemaVersion:  SchemaVersion,
		ID:             id,
		Title:          "test session",
		CreatedAt:      now,
		LastModifiedAt: now,
		Turns: []chat.Turn{
			chat.NewUserTurn("hello"),
			chat.NewAssistantTurn("hi"),
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")
	sess.ContinuationToken = "resp_42"
	sess.ToolCalls = []ToolCallRecord{{ID: "call_1", Name: "run_code", Arguments: "{}", Result: "ok"}}

	require.NoError(t, store.Save(sess))

	loaded, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, sess.Title, loaded.Title)
	assert.Equal(t, "resp_42", loaded.ContinuationToken)
	require.Len(t, loaded.Turns, 2)
	assert.Equal(t, "hello", loaded.Turns[0].Text)
	require.Len(t, loaded.ToolCalls, 1)
	assert.Equal(t, "run_code", loaded.ToolCalls[0].Name)
}

func TestSaveEmptyIDFails(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("")

	err := store.Save(sess)

	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestSaveZeroTurnsIsNoOp(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)
	sess := testSession("20240101_000000")
	sess.Turns = nil

	require.NoError(t, store.Save(sess))

	_, err := os.Stat(store.DocumentPath(sess.ID))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveTwiceKeepsExactlyOneBackup(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")

	require.NoError(t, store.Save(sess))
	require.NoError(t, store.Save(sess))
	require.NoError(t, store.Save(sess))

	dir := filepath.Dir(store.DocumentPath(sess.ID))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"session.json", "session.json.backup"}, names)
}

func TestLoadMissingSessionReportsNotFound(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	_, err := store.Load("20240101_000000")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRecoversFromBackup(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")
	require.NoError(t, store.Save(sess))
	require.NoError(t, store.Save(sess)) // creates the backup

	primary := store.DocumentPath(sess.ID)
	require.NoError(t, os.WriteFile(primary, []byte("{corrupt"), 0o644))

	var recovered bool
	notifier := &Notifier{}
	notifier.Subscribe(func(e Event) {
		if le, ok := e.(LoadedEvent); ok {
			recovered = le.Recovered
		}
	})
	store.notifier = notifier

	loaded, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Title, loaded.Title)
	assert.True(t, recovered)
}

func TestLoadCorruptWithoutBackupFails(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")
	require.NoError(t, store.Save(sess))

	primary := store.DocumentPath(sess.ID)
	require.NoError(t, os.WriteFile(primary, []byte("{corrupt"), 0o644))

	_, err := store.Load(sess.ID)

	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadRefusesOversizedDocument(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")
	require.NoError(t, store.Save(sess))

	// Grow the file past the ceiling without writing its contents.
	require.NoError(t, os.Truncate(store.DocumentPath(sess.ID), maxDocumentBytes+1))

	_, err := store.Load(sess.ID)

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoadNewerSchemaVersionProceeds(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")
	require.NoError(t, store.Save(sess))

	// Rewrite the document claiming a future schema.
	b, err := json.Marshal(map[string]any{
		"schema_version": SchemaVersion + 1,
		"session_id":     sess.ID,
		"title":          sess.Title,
		"turns":          sess.Turns,
		"future_field":   "ignored",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.DocumentPath(sess.ID), b, 0o644))

	loaded, err := store.Load(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, SchemaVersion+1, loaded.SchemaVersion)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	sess := testSession("20240101_000000")
	require.NoError(t, store.Save(sess))

	require.NoError(t, store.Delete(sess.ID))
	require.NoError(t, store.Delete(sess.ID)) // already absent

	_, err := store.Load(sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRaisesNotification(t *testing.T) {
	notifier := &Notifier{}
	var got []Event
	notifier.Subscribe(func(e Event) { got = append(got, e) })

	store := NewStore(t.TempDir(), notifier)
	require.NoError(t, store.Save(testSession("20240101_000000")))

	require.Len(t, got, 1)
	saved, ok := got[0].(SavedEvent)
	require.True(t, ok)
	assert.Equal(t, "20240101_000000", saved.SessionID)
	assert.True(t, saved.OK)
}
