// file: internal/server/error_handler_test.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestRespondWithBadRequest(t *testing.T) {
	c, w := newTestContext()

	RespondWithBadRequest(c, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "test error") {
		t.Errorf("expected error message in response, got %q", w.Body.String())
	}
}

func TestRespondWithNotFound(t *testing.T) {
	c, w := newTestContext()

	RespondWithNotFound(c, "entry", "123")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "entry not found: 123") {
		t.Errorf("expected 'not found' in response, got %q", w.Body.String())
	}
}

func TestRespondWithUpstreamError(t *testing.T) {
	c, w := newTestContext()

	RespondWithUpstreamError(c, "upstream failed", "server_error", "try later")

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":"server_error"`) || !strings.Contains(body, `"detail":"try later"`) {
		t.Errorf("unexpected body %q", body)
	}
}

func TestHandleBindError(t *testing.T) {
	c, w := newTestContext()
	if HandleBindError(c, nil) {
		t.Fatal("nil error should not be handled")
	}
	if w.Body.Len() != 0 {
		t.Errorf("expected no response, got %q", w.Body.String())
	}

	c, w = newTestContext()
	if !HandleBindError(c, errors.New("Key: 'AddRequest.Result' Error:Field validation for 'Result' failed on the 'required' tag")) {
		t.Fatal("expected error to be handled")
	}
	if !strings.Contains(w.Body.String(), "VALIDATION_ERROR") {
		t.Errorf("expected validation error, got %q", w.Body.String())
	}

	c, w = newTestContext()
	HandleBindError(c, errors.New("unexpected EOF"))
	if !strings.Contains(w.Body.String(), "BAD_REQUEST") {
		t.Errorf("expected bad request, got %q", w.Body.String())
	}
}

func TestRequestLogger_ReusesRequestID(t *testing.T) {
	router := gin.New()
	router.Use(requestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected request ID to be echoed, got %q", got)
	}
	if w.Body.String() != "abc-123" {
		t.Errorf("expected handler to see request ID, got %q", w.Body.String())
	}
}
