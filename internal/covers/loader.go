// file: internal/covers/loader.go
// version: 1.0.0
// guid: 512f92f8-ace2-4696-817f-549375c97f70

package covers

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jdfalk/library-proto/internal/cache"
	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/fetch"
	"github.com/jdfalk/library-proto/internal/logger"
	"github.com/jdfalk/library-proto/internal/metrics"
	"github.com/jdfalk/library-proto/internal/operations"
)

// RowID identifies an on-screen row slot. Slots are reused as the list
// changes, so a delivery is only valid for the load that requested it.
type RowID int

// ImageSink receives the outcome of a row's cover load on the front end.
type ImageSink interface {
	SetImage(img *Image)
	ImageFailed(err error)
}

type rowLoad struct {
	seq uint64
	op  *operations.Operation
}

// Loader keeps at most one outstanding cover fetch per row and fills the
// shared image cache.
type Loader struct {
	fetcher *Fetcher
	images  *cache.Cache[*Image]
	ui      dispatch.Dispatcher
	log     zerolog.Logger

	mu     sync.Mutex
	active map[RowID]*rowLoad
	seq    uint64
	closed bool
}

// NewLoader wires a loader to a fetcher, a cache and the front-end queue.
func NewLoader(f *Fetcher, images *cache.Cache[*Image], ui dispatch.Dispatcher) *Loader {
	return &Loader{
		fetcher: f,
		images:  images,
		ui:      ui,
		log:     logger.WithComponent("covers"),
		active:  make(map[RowID]*rowLoad),
	}
}

// Load requests the cover for row. Any earlier load for the same row is
// canceled. The sink is called on the front end, and only if row has not
// been reassigned in the meantime.
func (l *Loader) Load(row RowID, key, url string, sink ImageSink) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	prior := l.active[row]
	l.seq++
	seq := l.seq
	l.active[row] = &rowLoad{seq: seq}
	l.mu.Unlock()

	if prior != nil && prior.op != nil {
		prior.op.Cancel()
	}

	if key != "" {
		if img, ok := l.images.Get(key); ok {
			metrics.IncCoverCache(true)
			l.deliver(row, seq, sink, img, nil)
			return
		}
		metrics.IncCoverCache(false)
	}

	if url == "" {
		l.deliver(row, seq, sink, nil, ErrNoURL)
		return
	}

	op, err := l.fetcher.Start(url, func(img *Image, err error) {
		if err == nil && key != "" {
			l.images.Set(key, img)
		}
		l.deliver(row, seq, sink, img, err)
	})
	if err != nil {
		l.deliver(row, seq, sink, nil, err)
		return
	}

	l.mu.Lock()
	current := l.active[row]
	if current != nil && current.seq == seq {
		current.op = op
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	// superseded or already delivered
	op.Cancel()
}

func (l *Loader) deliver(row RowID, seq uint64, sink ImageSink, img *Image, err error) {
	l.ui.Dispatch(func() {
		if !l.claim(row, seq) {
			metrics.IncCoverFetch("stale")
			return
		}
		switch {
		case err == nil:
			metrics.IncCoverFetch("ok")
			sink.SetImage(img)
		case fetch.IsCanceled(err):
		default:
			if !errors.Is(err, ErrNoURL) {
				l.log.Debug().Err(err).Int("row", int(row)).Msg("cover fetch failed")
			}
			metrics.IncCoverFetch("failed")
			sink.ImageFailed(err)
		}
	})
}

// claim removes the row's bookkeeping if seq is still its current load.
func (l *Loader) claim(row RowID, seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.active[row]
	if !ok || current.seq != seq {
		return false
	}
	delete(l.active, row)
	return true
}

// Cancel aborts the row's outstanding load, if any.
func (l *Loader) Cancel(row RowID) {
	l.mu.Lock()
	current := l.active[row]
	delete(l.active, row)
	l.mu.Unlock()

	if current != nil && current.op != nil {
		current.op.Cancel()
	}
}

// CancelAll aborts every outstanding load.
func (l *Loader) CancelAll() {
	l.mu.Lock()
	loads := l.active
	l.active = make(map[RowID]*rowLoad)
	l.mu.Unlock()

	for _, current := range loads {
		if current.op != nil {
			current.op.Cancel()
		}
	}
}

// Pending returns the number of rows still waiting for a cover.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// Close cancels everything and rejects further loads.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.CancelAll()
}
