// file: internal/library/store.go
// version: 1.0.0
// guid: f6d82dd3-dab1-4a5c-b153-9c47cbf7040d

// Package library persists the books a user has saved.
package library

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	ulid "github.com/oklog/ulid/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrNotFound is returned for unknown entry IDs.
var ErrNotFound = errors.New("library entry not found")

// Entry is one saved book. Authors is the display line ("A, B").
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	Image     []byte    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistent collection of saved books.
type Store interface {
	// Add saves a new entry and returns it with its assigned ID.
	Add(title, authors string, image []byte) (*Entry, error)
	// Delete removes an entry; unknown IDs yield ErrNotFound.
	Delete(id string) error
	Get(id string) (*Entry, error)
	// List returns every entry ordered by title (case-insensitive), then ID.
	List() ([]Entry, error)
	Count() (int, error)
	Close() error
}

// Open creates the store selected by kind. SQLite must be explicitly
// enabled; PebbleDB is the default.
func Open(kind, path string, enableSQLite bool) (Store, error) {
	switch kind {
	case "sqlite", "sqlite3":
		if !enableSQLite {
			return nil, fmt.Errorf("SQLite3 is not enabled. To use SQLite3, you must explicitly enable it with --enable-sqlite3-i-know-the-risks or set 'enable_sqlite3_i_know_the_risks: true' in your config file. PebbleDB is the recommended database")
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return store, nil
	case "pebble", "":
		store, err := NewPebbleStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
		return store, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite, memory)", kind)
	}
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase)
	collateBuf collate.Buffer
)

// sortKey returns the binary collation key for a title. Keys compare with
// bytes.Compare in the order List must return.
func sortKey(title string) []byte {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	key := collator.KeyFromString(&collateBuf, title)
	out := make([]byte, len(key))
	copy(out, key)
	collateBuf.Reset()
	return out
}

func newULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func newEntry(title, authors string, image []byte) (*Entry, error) {
	id, err := newULID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate entry id: %w", err)
	}
	return &Entry{
		ID:        id,
		Title:     title,
		Authors:   authors,
		Image:     image,
		CreatedAt: time.Now().UTC(),
	}, nil
}
