package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	documentName = "session.json"
	tempSuffix   = ".tmp"
	backupSuffix = ".backup"

	// maxDocumentBytes is the load ceiling. A document past this size is
	// either corrupt or adversarial; it is refused outright.
	maxDocumentBytes = 50 * 1024 * 1024
)

// Store persists session documents under one directory per session,
// identified by the session id. Writes are atomic: a completed temporary
// file is renamed into the visible path, with the previous document kept as
// a backup, so a reader never observes a half-written document.
type Store struct {
	root     string
	notifier *Notifier
}

// NewStore creates a store rooted at dir. notifier may be nil.
func NewStore(dir string, notifier *Notifier) *Store {
	return &Store{root: dir, notifier: notifier}
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	return s.root
}

// DocumentPath returns the primary document path for a session id.
func (s *Store) DocumentPath(id string) string {
	return filepath.Join(s.root, id, documentName)
}

// Save serializes the session and writes it atomically.
//
// A session with zero turns is declined as a no-op success, to avoid
// littering storage with empty conversations. A session with an empty
// identifier is a hard error. If the final rename fails, the previous
// document is restored from backup before the failure is reported; the
// store must never leave the conversation unrecoverable.
func (s *Store) Save(sess *Session) error {
	if sess.ID == "" {
		s.notifier.publish(SavedEvent{OK: false})
		return fmt.Errorf("saving session: %w", ErrEmptyID)
	}
	if len(sess.Turns) == 0 {
		return nil
	}

	err := s.write(sess)
	s.notifier.publish(SavedEvent{SessionID: sess.ID, OK: err == nil})
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *Store) write(sess *Session) error {
	sess.SchemaVersion = SchemaVersion

	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session document: %w", err)
	}

	dir := filepath.Join(s.root, sess.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	primary := filepath.Join(dir, documentName)
	temp := primary + tempSuffix
	backup := primary + backupSuffix

	if err := os.WriteFile(temp, b, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary document: %w", err)
	}

	// Keep exactly one backup: the document being overwritten.
	backedUp := false
	if _, err := os.Stat(primary); err == nil {
		if err := os.Rename(primary, backup); err != nil {
			return fmt.Errorf("failed to back up previous document: %w", err)
		}
		backedUp = true
	}

	if err := os.Rename(temp, primary); err != nil {
		if backedUp {
			if restoreErr := os.Rename(backup, primary); restoreErr != nil {
				log.Printf("Failed to restore backup for session %s: %v", sess.ID, restoreErr)
			}
		}
		return fmt.Errorf("failed to move document into place: %w", err)
	}
	return nil
}

// Load reads a session document.
//
// Missing documents report ErrNotFound; documents past the size ceiling
// report ErrTooLarge with no recovery attempt. On parse failure exactly one
// recovery pass is made from the backup document before failing with
// ErrCorrupt. A document with a newer schema version loads with a warning:
// forward compatibility is best effort, never a refusal.
func (s *Store) Load(id string) (*Session, error) {
	sess, recovered, err := s.load(id)
	s.notifier.publish(LoadedEvent{SessionID: id, OK: err == nil, Recovered: recovered})
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	}
	return sess, nil
}

func (s *Store) load(id string) (*Session, bool, error) {
	primary := s.DocumentPath(id)

	info, err := os.Stat(primary)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, ErrNotFound
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to stat document: %w", err)
	}
	if info.Size() > maxDocumentBytes {
		return nil, false, fmt.Errorf("document is %d bytes: %w", info.Size(), ErrTooLarge)
	}

	sess, err := readDocument(primary)
	if err == nil {
		return sess, false, nil
	}
	log.Printf("Failed to parse session %s, attempting backup recovery: %v", id, err)

	sess, backupErr := readDocument(primary + backupSuffix)
	if backupErr != nil {
		return nil, false, fmt.Errorf("%w: %v (backup: %v)", ErrCorrupt, err, backupErr)
	}
	log.Printf("Recovered session %s from backup", id)
	return sess, true, nil
}

func readDocument(path string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if sess.SchemaVersion > SchemaVersion {
		log.Printf("Warning: session document schema version %d is newer than supported version %d, loading best-effort", sess.SchemaVersion, SchemaVersion)
	}
	return &sess, nil
}

// Delete removes the session's entire storage unit. Deleting an absent
// session is a success.
func (s *Store) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("deleting session: %w", ErrEmptyID)
	}
	if err := os.RemoveAll(filepath.Join(s.root, id)); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}
