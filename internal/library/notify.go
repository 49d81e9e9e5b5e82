// file: internal/library/notify.go
// version: 1.0.0
// guid: 2a17e9d5-eb4f-4f61-a3dd-39ea1b7e7660

package library

import (
	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/metrics"
)

// ChangePublisher receives library change notifications.
// *realtime.EventHub satisfies it.
type ChangePublisher interface {
	SendEntryAdded(id, title string)
	SendEntryDeleted(id string)
}

// Notifying wraps a Store and publishes every successful change.
type Notifying struct {
	Store
	pub ChangePublisher
	log zerolog.Logger
}

// NewNotifying decorates store. The entries gauge is primed from Count.
func NewNotifying(store Store, pub ChangePublisher) *Notifying {
	n := &Notifying{Store: store, pub: pub, log: logger.WithComponent("library")}
	n.refreshGauge()
	return n
}

func (n *Notifying) Add(title, authors string, image []byte) (*Entry, error) {
	entry, err := n.Store.Add(title, authors, image)
	if err != nil {
		n.log.Error().Err(err).Str("title", title).Msg("failed to add entry")
		return nil, err
	}
	n.log.Info().Str("id", entry.ID).Str("title", entry.Title).Msg("entry added")
	n.refreshGauge()
	n.pub.SendEntryAdded(entry.ID, entry.Title)
	return entry, nil
}

func (n *Notifying) Delete(id string) error {
	if err := n.Store.Delete(id); err != nil {
		return err
	}
	n.log.Info().Str("id", id).Msg("entry deleted")
	n.refreshGauge()
	n.pub.SendEntryDeleted(id)
	return nil
}

func (n *Notifying) refreshGauge() {
	count, err := n.Store.Count()
	if err != nil {
		n.log.Warn().Err(err).Msg("failed to count entries")
		return
	}
	metrics.SetLibraryEntries(count)
}
