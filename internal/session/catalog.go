package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"time"
)

// maxCatalogEntries bounds the cached session list.
const maxCatalogEntries = 100

// summaryDocument parses only the lightweight fields of a session document.
// Turns are captured as raw messages so the count is available without
// decoding each turn.
type summaryDocument struct {
	ID             string            `json:"session_id"`
	Title          string            `json:"title"`
	CreatedAt      time.Time         `json:"created_at"`
	LastModifiedAt time.Time         `json:"last_modified_at"`
	Turns          []json.RawMessage `json:"turns"`
}

// Catalog maintains a cached, sorted, size-bounded index of stored sessions,
// rebuilt wholesale by directory scan.
type Catalog struct {
	store     *Store
	notifier  *Notifier
	summaries []Summary
}

// NewCatalog creates a catalog over the given store. notifier may be nil.
func NewCatalog(store *Store, notifier *Notifier) *Catalog {
	return &Catalog{store: store, notifier: notifier}
}

// Refresh rescans the storage root, replaces the cached list atomically, and
// raises a list-changed notification. A session unit whose summary cannot be
// parsed is excluded from the list, not a scan failure.
func (c *Catalog) Refresh() error {
	entries, err := os.ReadDir(c.store.Root())
	if os.IsNotExist(err) {
		entries = nil
	} else if err != nil {
		return fmt.Errorf("failed to scan session storage: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := c.store.DocumentPath(entry.Name())
		summary, err := readSummary(path)
		if err != nil {
			log.Printf("Skipping session %s in catalog scan: %v", entry.Name(), err)
			continue
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastModifiedAt.After(summaries[j].LastModifiedAt)
	})
	if len(summaries) > maxCatalogEntries {
		summaries = summaries[:maxCatalogEntries]
	}

	c.summaries = summaries
	c.notifier.publish(ListChangedEvent{})
	return nil
}

// Sessions returns the cached summaries, most recently modified first. The
// returned slice is a copy.
func (c *Catalog) Sessions() []Summary {
	out := make([]Summary, len(c.summaries))
	copy(out, c.summaries)
	return out
}

func readSummary(path string) (Summary, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read document: %w", err)
	}
	var doc summaryDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return Summary{}, fmt.Errorf("failed to parse summary fields: %w", err)
	}
	if doc.ID == "" {
		return Summary{}, fmt.Errorf("document has no session id")
	}
	return Summary{
		ID:             doc.ID,
		Title:          doc.Title,
		CreatedAt:      doc.CreatedAt,
		LastModifiedAt: doc.LastModifiedAt,
		MessageCount:   len(doc.Turns),
		FilePath:       path,
	}, nil
}
