// file: internal/covers/loader_test.go
// version: 1.0.0
// guid: 8b94f3ad-db86-4629-a0ed-07acc3ad0521

package covers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/library-proto/internal/cache"
	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/operations"
)

type outcome struct {
	img *Image
	err error
}

type chanSink chan outcome

func (s chanSink) SetImage(img *Image)   { s <- outcome{img: img} }
func (s chanSink) ImageFailed(err error) { s <- outcome{err: err} }

func newLoader(t *testing.T) (*Loader, *cache.Cache[*Image], *dispatch.Queue) {
	t.Helper()
	ui := dispatch.NewQueue()
	t.Cleanup(ui.Close)
	images := cache.New[*Image](16, time.Minute)
	l := NewLoader(NewFetcher(newPool(t)), images, ui)
	t.Cleanup(l.Close)
	return l, images, ui
}

func receive(t *testing.T, sink chanSink) outcome {
	t.Helper()
	select {
	case o := <-sink:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("no delivery")
		return outcome{}
	}
}

func TestLoader_FetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	data := pngBytes(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l, images, ui := newLoader(t)
	sink := make(chanSink, 2)

	l.Load(0, "vol-1", srv.URL, sink)
	o := receive(t, sink)
	require.NoError(t, o.err)
	assert.Equal(t, 4, o.img.Width)

	_, cached := images.Get("vol-1")
	assert.True(t, cached)

	// second load is served from the cache
	l.Load(1, "vol-1", srv.URL, sink)
	o = receive(t, sink)
	require.NoError(t, o.err)
	assert.Equal(t, int32(1), hits.Load())

	ui.Sync(func() {})
	assert.Equal(t, 0, l.Pending())
}

func TestLoader_FailureReportsToSink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	l, images, _ := newLoader(t)
	sink := make(chanSink, 1)

	l.Load(0, "vol-2", srv.URL, sink)
	o := receive(t, sink)
	assert.Error(t, o.err)
	assert.Equal(t, 0, images.Len())
}

func TestLoader_NoURL(t *testing.T) {
	l, _, _ := newLoader(t)
	sink := make(chanSink, 1)

	l.Load(0, "vol-3", "", sink)
	o := receive(t, sink)
	assert.ErrorIs(t, o.err, ErrNoURL)
}

func TestLoader_ReusedRowDropsStaleDelivery(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write(pngBytes(t, 2, 2))
	}))
	defer slow.Close()
	defer close(release)
	fast := imageServer(t, pngBytes(t, 6, 6))

	l, _, _ := newLoader(t)
	stale := make(chanSink, 1)
	fresh := make(chanSink, 1)

	l.Load(3, "old", slow.URL, stale)
	l.Load(3, "new", fast.URL, fresh)

	o := receive(t, fresh)
	require.NoError(t, o.err)
	assert.Equal(t, 6, o.img.Width)

	select {
	case <-stale:
		t.Fatal("stale row received a delivery")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLoader_CancelAndClose(t *testing.T) {
	entered := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-r.Context().Done()
	}))
	defer srv.Close()

	l, _, ui := newLoader(t)
	sink := make(chanSink, 1)

	l.Load(0, "a", srv.URL, sink)
	<-entered
	l.Cancel(0)
	assert.Equal(t, 0, l.Pending())

	l.Close()
	l.Load(1, "b", srv.URL, sink)
	assert.Equal(t, 0, l.Pending())

	ui.Sync(func() {})
	select {
	case <-sink:
		t.Fatal("canceled load delivered")
	default:
	}
}

func TestLoader_ClosedPoolReportsFailure(t *testing.T) {
	ui := dispatch.NewQueue()
	t.Cleanup(ui.Close)
	pool := operations.NewQueue(1, 1)
	require.NoError(t, pool.Shutdown(time.Second))

	l := NewLoader(NewFetcher(pool), cache.New[*Image](4, time.Minute), ui)
	t.Cleanup(l.Close)

	sink := make(chanSink, 1)
	l.Load(1, "k", "http://127.0.0.1:1/cover.png", sink)

	got := receive(t, sink)
	assert.Nil(t, got.img)
	assert.ErrorIs(t, got.err, operations.ErrQueueClosed)
	assert.Zero(t, l.Pending())
}
