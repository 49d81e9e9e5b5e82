// file: internal/presentation/library.go
// version: 1.0.0
// guid: b27f5c4a-5507-4721-b25d-e57c0f03ceee

package presentation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/realtime"
)

// ErrScreenClosed is returned once the front-end dispatcher rejects work.
var ErrScreenClosed = errors.New("screen closed")

// LibraryScreen lists saved books and follows store changes.
type LibraryScreen struct {
	store   library.Store
	hub     *realtime.EventHub
	ui      dispatch.Dispatcher
	surface Surface
	client  *realtime.Client
	log     zerolog.Logger

	mu      sync.RWMutex
	entries []library.Entry
}

// NewLibraryScreen subscribes to entry events on hub so the list redraws
// after every add or delete. hub may be nil.
func NewLibraryScreen(store library.Store, hub *realtime.EventHub, ui dispatch.Dispatcher, surface Surface) *LibraryScreen {
	s := &LibraryScreen{
		store:   store,
		hub:     hub,
		ui:      ui,
		surface: surface,
		log:     logger.WithComponent("library-screen"),
	}
	if hub != nil {
		s.client = realtime.NewClient("")
		s.client.Subscribe(realtime.EventEntryAdded)
		s.client.Subscribe(realtime.EventEntryDeleted)
		hub.RegisterClient(s.client)
		go s.follow()
	}
	return s
}

func (s *LibraryScreen) follow() {
	for range s.client.Channel {
		entries, err := s.store.List()
		if err != nil {
			s.log.Error().Err(err).Msg("failed to reload library")
			continue
		}
		s.ui.Dispatch(func() { s.render(entries) })
	}
}

// Refresh reloads the list and waits until it has been drawn. Must not be
// called from the front-end dispatcher.
func (s *LibraryScreen) Refresh() error {
	entries, err := s.store.List()
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}
	drawn := make(chan struct{})
	if !s.ui.Dispatch(func() {
		s.render(entries)
		close(drawn)
	}) {
		return ErrScreenClosed
	}
	<-drawn
	return nil
}

func (s *LibraryScreen) render(entries []library.Entry) {
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	s.surface.Reload(len(entries))
	for i, e := range entries {
		s.surface.Cell(i).Render(EntryRow(e))
	}
}

// EntryRow is the row for a saved entry. Entries without a readable cover
// show the placeholder.
func EntryRow(e library.Entry) Row {
	return Row{
		Kind:       RowLibrary,
		Title:      e.Title,
		Authors:    e.Authors,
		Image:      decodeCover(e.Image),
		Selectable: true,
	}
}

// Entries returns the entries currently shown.
func (s *LibraryScreen) Entries() []library.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]library.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Delete removes the entry shown at index.
func (s *LibraryScreen) Delete(index int) error {
	s.mu.RLock()
	if index < 0 || index >= len(s.entries) {
		s.mu.RUnlock()
		return ErrNotSelectable
	}
	id := s.entries[index].ID
	s.mu.RUnlock()
	return s.store.Delete(id)
}

// Close stops following store changes.
func (s *LibraryScreen) Close() {
	if s.client != nil {
		s.hub.UnregisterClient(s.client.ID)
	}
}
