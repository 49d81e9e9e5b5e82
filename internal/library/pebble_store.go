// file: internal/library/pebble_store.go
// version: 1.0.0
// guid: 8bc7e448-1731-4c28-84c0-a1d8dfdd8bda

package library

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
)

// PebbleStore implements Store using PebbleDB (LSM key-value store)
//
// Key Schema:
// - entry:<id>                          -> Entry JSON
// - title:<hex sort key>\x00<id>        -> id (ordered listing)
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens or creates a PebbleDB directory at path
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func entryKey(id string) []byte {
	return []byte("entry:" + id)
}

func titleKey(title, id string) []byte {
	return []byte("title:" + hex.EncodeToString(sortKey(title)) + "\x00" + id)
}

func (p *PebbleStore) Add(title, authors string, image []byte) (*Entry, error) {
	entry, err := newEntry(title, authors, image)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	if err := batch.Set(entryKey(entry.ID), data, nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Set(titleKey(entry.Title, entry.ID), []byte(entry.ID), nil); err != nil {
		batch.Close()
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	return entry, nil
}

func (p *PebbleStore) Get(id string) (*Entry, error) {
	value, closer, err := p.db.Get(entryKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var entry Entry
	if err := json.Unmarshal(value, &entry); err != nil {
		return nil, fmt.Errorf("corrupt entry %s: %w", id, err)
	}
	return &entry, nil
}

func (p *PebbleStore) Delete(id string) error {
	entry, err := p.Get(id)
	if err != nil {
		return err
	}

	batch := p.db.NewBatch()
	if err := batch.Delete(entryKey(id), nil); err != nil {
		batch.Close()
		return err
	}
	if err := batch.Delete(titleKey(entry.Title, id), nil); err != nil {
		batch.Close()
		return err
	}
	return batch.Commit(pebble.Sync)
}

func (p *PebbleStore) List() ([]Entry, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("title:"),
		UpperBound: []byte("title;"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	entries := []Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		entry, err := p.Get(string(iter.Value()))
		if errors.Is(err, ErrNotFound) {
			// dangling index key
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, iter.Error()
}

func (p *PebbleStore) Count() (int, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("entry:"),
		UpperBound: []byte("entry;"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}
