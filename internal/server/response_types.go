// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"time"

	"github.com/jdfalk/library-proto/internal/booksapi"
	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/search"
)

// ResultItem is one search result as returned by the API.
type ResultItem struct {
	Index     int      `json:"index"`
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Thumbnail string   `json:"thumbnail,omitempty"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Query      string       `json:"query"`
	Generation uint64       `json:"generation"`
	Phase      string       `json:"phase"`
	TotalItems int          `json:"total_items"`
	Results    []ResultItem `json:"results"`
	Message    string       `json:"message,omitempty"`
}

// EntryItem is a library entry without its image bytes.
type EntryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors"`
	HasCover  bool      `json:"has_cover"`
	CoverURL  string    `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse provides a consistent format for list responses
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// AddRequest is the body of POST /api/v1/library.
type AddRequest struct {
	Result *int `json:"result" binding:"required"`
}

func newSearchResponse(st search.State, message string) SearchResponse {
	items := make([]ResultItem, len(st.Results))
	for i, r := range st.Results {
		items[i] = newResultItem(i, r)
	}
	return SearchResponse{
		Query:      st.Query,
		Generation: st.Generation,
		Phase:      st.Phase.String(),
		TotalItems: st.TotalItems,
		Results:    items,
		Message:    message,
	}
}

func newResultItem(index int, r booksapi.SearchResult) ResultItem {
	return ResultItem{
		Index:     index,
		ID:        r.ID,
		Title:     r.Title,
		Authors:   r.Authors,
		Thumbnail: r.Thumbnail(),
	}
}

func newEntryItem(e library.Entry) EntryItem {
	item := EntryItem{
		ID:        e.ID,
		Title:     e.Title,
		Authors:   e.Authors,
		HasCover:  len(e.Image) > 0,
		CreatedAt: e.CreatedAt,
	}
	if item.HasCover {
		item.CoverURL = "/api/v1/library/" + e.ID + "/cover"
	}
	return item
}
