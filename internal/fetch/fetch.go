// file: internal/fetch/fetch.go
// version: 1.0.0
// guid: e65dc921-dddb-4585-8054-bf1cc2aabc9d

// Package fetch performs single HTTP GETs and classifies their outcome.
// Both the volume search and the cover fetcher go through it so they agree
// on what a 404, a 5xx or a dead connection means.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBytes caps response bodies at 10 MB.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// Kind classifies a failed retrieval.
type Kind int

const (
	// KindNotFound is an HTTP 404.
	KindNotFound Kind = iota + 1
	// KindServerError is any HTTP 5xx.
	KindServerError
	// KindHTTP is any other non-200 status.
	KindHTTP
	// KindTransport covers DNS, connect, timeout and body read failures.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindServerError:
		return "server_error"
	case KindHTTP:
		return "http_error"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a classified retrieval failure.
type Error struct {
	Kind       Kind
	StatusCode int
	URL        string
	Cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("GET %s failed: %v", e.URL, e.Cause)
	default:
		return fmt.Sprintf("GET %s returned status %d (%s)", e.URL, e.StatusCode, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

var (
	// ErrCanceled is returned when the caller canceled the request. It is
	// never shown to users.
	ErrCanceled = errors.New("request canceled")
	// ErrTooLarge is returned when a body exceeds the configured cap.
	ErrTooLarge = errors.New("response body exceeds size limit")
)

// IsCanceled reports whether err stems from caller cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// KindOf returns the Kind of a classified error, or 0 when err is not one.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

// Classify maps an HTTP status code to nil (200 only) or a classified Error.
func Classify(rawURL string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, StatusCode: status, URL: rawURL}
	case status >= 500 && status <= 599:
		return &Error{Kind: KindServerError, StatusCode: status, URL: rawURL}
	default:
		return &Error{Kind: KindHTTP, StatusCode: status, URL: rawURL}
	}
}

// Response is a successful retrieval.
type Response struct {
	Body        []byte
	ContentType string
}

// Get issues one GET bound to ctx and reads at most maxBytes of the body.
// Cancellation of ctx aborts the in-flight request and yields ErrCanceled.
func Get(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: rawURL, Cause: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, transportError(ctx, rawURL, err)
	}
	defer resp.Body.Close()

	if err := Classify(rawURL, resp.StatusCode); err != nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, transportError(ctx, rawURL, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("GET %s: %w (%d bytes)", rawURL, ErrTooLarge, maxBytes)
	}

	return &Response{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

func transportError(ctx context.Context, rawURL string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("GET %s: %w", rawURL, ErrCanceled)
	}
	return &Error{Kind: KindTransport, URL: rawURL, Cause: err}
}
