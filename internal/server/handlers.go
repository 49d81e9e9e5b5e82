// file: internal/server/handlers.go
// version: 1.0.0
// guid: 06a311e2-3e17-4ba6-820d-07493f839c3c

package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/library-proto/internal/library"
	"github.com/jdfalk/library-proto/internal/presentation"
	"github.com/jdfalk/library-proto/internal/search"
)

// searchBooks submits q and blocks until that generation settles. A newer
// query from any caller supersedes it and the older request gets 409.
func (s *Server) searchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		RespondWithValidationError(c, "q", "search text is required")
		return
	}

	gen, ok := s.results.Submit(query)
	if !ok {
		RespondWithError(c, http.StatusServiceUnavailable, "search is unavailable", "UNAVAILABLE")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.SearchTimeout)
	defer cancel()

	st, err := s.results.Wait(ctx, gen)
	switch {
	case errors.Is(err, search.ErrSuperseded):
		RespondWithConflict(c, "search superseded by a newer query")
		return
	case errors.Is(err, search.ErrClosed):
		RespondWithError(c, http.StatusServiceUnavailable, "search is unavailable", "UNAVAILABLE")
		return
	case errors.Is(err, context.DeadlineExceeded):
		RespondWithError(c, http.StatusGatewayTimeout, "search timed out", "TIMEOUT")
		return
	case err != nil:
		// client went away
		c.Status(499)
		return
	}

	switch st.Phase {
	case search.PhaseFailed:
		RespondWithUpstreamError(c, presentation.AlertMessage, string(st.Reason), presentation.NoticeFor(st.Reason))
	case search.PhaseEmpty:
		c.JSON(http.StatusOK, newSearchResponse(st, presentation.NothingFoundText))
	case search.PhaseIdle:
		RespondWithConflict(c, "search canceled")
	default:
		c.JSON(http.StatusOK, newSearchResponse(st, ""))
	}
}

func (s *Server) getSearchState(c *gin.Context) {
	st := s.results.State()
	message := ""
	switch st.Phase {
	case search.PhaseEmpty:
		message = presentation.NothingFoundText
	case search.PhaseFailed:
		message = presentation.NoticeFor(st.Reason)
	}
	c.JSON(http.StatusOK, newSearchResponse(st, message))
}

// getSearchRows renders the results list as plain text, covers included.
func (s *Server) getSearchRows(c *gin.Context) {
	var buf bytes.Buffer
	s.surface.Print(&buf)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (s *Server) cancelSearch(c *gin.Context) {
	s.results.Cancel()
	c.Status(http.StatusNoContent)
}

func (s *Server) listEntries(c *gin.Context) {
	entries, err := s.app.Store.List()
	if err != nil {
		RespondWithInternalError(c, "failed to list library: "+err.Error())
		return
	}
	items := make([]EntryItem, len(entries))
	for i, e := range entries {
		items[i] = newEntryItem(e)
	}
	c.JSON(http.StatusOK, ListResponse{Items: items, Count: len(items)})
}

// addEntry saves a result of the current search to the library.
func (s *Server) addEntry(c *gin.Context) {
	var req AddRequest
	if HandleBindError(c, c.ShouldBindJSON(&req)) {
		return
	}

	entry, err := s.results.Select(c.Request.Context(), *req.Result)
	if errors.Is(err, presentation.ErrNotSelectable) {
		RespondWithConflict(c, "result "+strconv.Itoa(*req.Result)+" is not selectable")
		return
	}
	if err != nil {
		RespondWithInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, newEntryItem(*entry))
}

func (s *Server) getEntry(c *gin.Context) {
	entry, ok := s.lookupEntry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newEntryItem(*entry))
}

func (s *Server) getEntryCover(c *gin.Context) {
	entry, ok := s.lookupEntry(c)
	if !ok {
		return
	}
	if len(entry.Image) == 0 {
		RespondWithNotFound(c, "cover", entry.ID)
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, http.DetectContentType(entry.Image), entry.Image)
}

func (s *Server) deleteEntry(c *gin.Context) {
	id := c.Param("id")
	err := s.app.Store.Delete(id)
	if errors.Is(err, library.ErrNotFound) {
		RespondWithNotFound(c, "entry", id)
		return
	}
	if err != nil {
		RespondWithInternalError(c, "failed to delete entry: "+err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) lookupEntry(c *gin.Context) (*library.Entry, bool) {
	id := c.Param("id")
	entry, err := s.app.Store.Get(id)
	if errors.Is(err, library.ErrNotFound) {
		RespondWithNotFound(c, "entry", id)
		return nil, false
	}
	if err != nil {
		RespondWithInternalError(c, "failed to load entry: "+err.Error())
		return nil, false
	}
	return entry, true
}
