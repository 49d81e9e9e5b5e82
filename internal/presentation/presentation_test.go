// file: internal/presentation/presentation_test.go
// version: 1.0.0
// guid: c4467a45-854c-4d45-a876-5383a4ee0765

package presentation

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/library-proto/internal/booksapi"
	"github.com/jdfalk/library-proto/internal/covers"
	"github.com/jdfalk/library-proto/internal/dispatch"
	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/operations"
	"github.com/jdfalk/library-proto/internal/realtime"
	"github.com/jdfalk/library-proto/internal/search"
)

type fixture struct {
	ui      *dispatch.Queue
	surface *ListSurface
	store   *library.MemoryStore
	screen  *ResultsScreen
	cover   []byte
}

// newFixture serves volumes and covers from one test server. volumes gets
// the server's base URL so it can emit cover links.
func newFixture(t *testing.T, volumes func(base string) http.HandlerFunc) *fixture {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(10, 15, color.NRGBA{B: 255, A: 255}), imaging.PNG))
	cover := buf.Bytes()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/volumes", volumes(srv.URL))
	mux.HandleFunc("/covers/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(cover)
	})

	client, err := booksapi.NewClient(srv.URL + "/volumes")
	require.NoError(t, err)

	pool := operations.NewQueue(2, 32)
	ui := dispatch.NewQueue()
	f := &fixture{
		ui:      ui,
		surface: NewListSurface(),
		store:   library.NewMemoryStore(),
		cover:   cover,
	}
	f.screen = NewResultsScreen(ResultsOptions{
		Searcher:  client,
		Pool:      pool,
		UI:        ui,
		Fetcher:   covers.NewFetcher(pool),
		Store:     f.store,
		Surface:   f.surface,
		CacheSize: 16,
		CacheTTL:  time.Minute,
	})
	t.Cleanup(func() {
		f.screen.Close()
		_ = pool.Shutdown(time.Second)
		ui.Close()
	})
	return f
}

func (f *fixture) search(t *testing.T, text string) search.State {
	t.Helper()
	gen, ok := f.screen.Submit(text)
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := f.screen.Wait(ctx, gen)
	require.NoError(t, err)
	f.ui.Sync(func() {})
	return st
}

func serveJSON(body string) func(string) http.HandlerFunc {
	return func(string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}
	}
}

func serveStatus(status int) func(string) http.HandlerFunc {
	return func(string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}
	}
}

func serveDune(base string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(duneWithCovers(base)))
	}
}

func duneWithCovers(base string) string {
	return `{"totalItems": 2, "items": [
		{"id": "a", "volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"], "imageLinks": {"smallThumbnail": "` + base + `/covers/a"}}},
		{"id": "b", "volumeInfo": {"title": "Dune Messiah", "authors": ["Frank Herbert", "Brian Herbert"]}}
	]}`
}

func TestResultsScreen_Populated(t *testing.T) {
	f := newFixture(t, serveDune)

	st := f.search(t, "dune")
	assert.Equal(t, search.PhasePopulated, st.Phase)

	rows := f.surface.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Dune", rows[0].Title)
	assert.Equal(t, "Frank Herbert, Brian Herbert", rows[1].Authors)
	assert.True(t, rows[0].Selectable)

	assert.Eventually(t, func() bool {
		rows := f.surface.Rows()
		return rows[0].Image != nil && rows[1].Image != nil
	}, 2*time.Second, 10*time.Millisecond)

	rows = f.surface.Rows()
	assert.Equal(t, 10, rows[0].Image.Bounds().Dx())
	assert.Equal(t, Placeholder(), rows[1].Image)
}

func TestResultsScreen_Empty(t *testing.T) {
	f := newFixture(t, serveJSON(`{"totalItems": 0}`))

	st := f.search(t, "zzzzqqq")
	assert.Equal(t, search.PhaseEmpty, st.Phase)

	rows := f.surface.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, RowNothingFound, rows[0].Kind)
	assert.Equal(t, NothingFoundText, rows[0].Title)
	assert.False(t, rows[0].Selectable)

	_, err := f.screen.Select(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotSelectable)
}

func TestResultsScreen_Failed(t *testing.T) {
	f := newFixture(t, serveStatus(http.StatusInternalServerError))

	st := f.search(t, "dune")
	assert.Equal(t, search.ReasonServerError, st.Reason)

	rows := f.surface.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, RowNotice, rows[0].Kind)
	assert.Equal(t, NoticeFor(search.ReasonServerError), rows[0].Title)
	assert.Equal(t, []string{AlertTitle + " " + AlertMessage}, f.surface.Alerts())
}

func TestResultsScreen_Select(t *testing.T) {
	f := newFixture(t, serveDune)

	f.search(t, "dune")

	entry, err := f.screen.Select(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Dune", entry.Title)
	assert.Equal(t, "Frank Herbert", entry.Authors)
	assert.Equal(t, f.cover, entry.Image)

	entry, err = f.screen.Select(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, entry.Image)

	_, err = f.screen.Select(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotSelectable)

	n, _ := f.store.Count()
	assert.Equal(t, 2, n)
}

func TestResultsScreen_CancelClearsRows(t *testing.T) {
	started := make(chan struct{}, 1)
	f := newFixture(t, func(string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			started <- struct{}{}
			<-r.Context().Done()
		}
	})

	_, ok := f.screen.Submit("dune")
	require.True(t, ok)
	<-started
	f.screen.Cancel()

	assert.Eventually(t, func() bool {
		return f.screen.State().Phase == search.PhaseIdle && f.screen.State().Generation == 2
	}, 2*time.Second, 10*time.Millisecond)
	f.ui.Sync(func() {})
	assert.Empty(t, f.surface.Rows())
}

func TestLibraryScreen_FollowsChanges(t *testing.T) {
	ui := dispatch.NewQueue()
	defer ui.Close()
	hub := realtime.NewEventHub()
	store := library.NewNotifying(library.NewMemoryStore(), hub)
	surface := NewListSurface()

	screen := NewLibraryScreen(store, hub, ui, surface)
	defer screen.Close()
	require.NoError(t, screen.Refresh())
	assert.Empty(t, surface.Rows())

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(3, 4, color.White), imaging.PNG))
	_, err := store.Add("Solaris", "Stanisław Lem", buf.Bytes())
	require.NoError(t, err)
	_, err = store.Add("Anathem", "Neal Stephenson", nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(surface.Rows()) == 2 }, 2*time.Second, 10*time.Millisecond)
	rows := surface.Rows()
	assert.Equal(t, "Anathem", rows[0].Title)
	assert.Equal(t, Placeholder(), rows[0].Image)
	assert.Equal(t, 3, rows[1].Image.Bounds().Dx())

	require.NoError(t, screen.Refresh())
	require.NoError(t, screen.Delete(0))
	assert.Eventually(t, func() bool { return len(surface.Rows()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Solaris", surface.Rows()[0].Title)

	assert.ErrorIs(t, screen.Delete(5), ErrNotSelectable)
}

func TestFormatRow(t *testing.T) {
	assert.Equal(t, "    (Nothing found)", FormatRow(0, Row{Kind: RowNothingFound, Title: NothingFoundText}))
	assert.Equal(t, "  1. Dune by Frank Herbert [cover pending]", FormatRow(0, Row{Kind: RowResult, Title: "Dune", Authors: "Frank Herbert"}))
	assert.Equal(t, "  2. Dune [no cover]", FormatRow(1, Row{Kind: RowResult, Title: "Dune", Image: Placeholder()}))
	assert.Equal(t, "  3. Dune [cover 5x7]", FormatRow(2, Row{Kind: RowResult, Title: "Dune", Image: imaging.New(5, 7, color.Black)}))

	s := NewListSurface()
	s.Reload(1)
	s.Cell(0).Render(Row{Kind: RowLibrary, Title: "Dune"})
	s.Cell(4).Render(Row{Title: "ignored"})
	var out strings.Builder
	s.Print(&out)
	assert.Equal(t, "  1. Dune [cover pending]\n", out.String())
}
