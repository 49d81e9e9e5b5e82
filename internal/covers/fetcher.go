// file: internal/covers/fetcher.go
// version: 1.0.0
// guid: f8c5b7d7-a416-44ca-a59f-18e17860ba43

// Package covers retrieves and decodes cover thumbnails and hands them to
// on-screen rows.
package covers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"github.com/jdfalk/library-proto/internal/fetch"
	"github.com/jdfalk/library-proto/internal/operations"
)

// ErrNoURL is returned for results without image links.
var ErrNoURL = errors.New("no cover URL")

// DecodeError reports bytes that did not decode as an image.
type DecodeError struct {
	URL   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cover at %s is not a decodable image: %v", e.URL, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Image is a fetched cover. Data holds the bytes as served, which is what
// gets persisted with a library entry.
type Image struct {
	Data    []byte
	Picture image.Image
	Width   int
	Height  int
}

// Fetcher downloads cover images.
type Fetcher struct {
	pool         *operations.Queue
	client       *http.Client
	maxBytes     int64
	maxDimension int
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default 30 second client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if hc != nil {
			f.client = hc
		}
	}
}

// WithMaxBytes caps the image body size.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// WithMaxDimension downscales decoded pictures so neither side exceeds n.
// Zero keeps the original size.
func WithMaxDimension(n int) FetcherOption {
	return func(f *Fetcher) {
		f.maxDimension = n
	}
}

// NewFetcher creates a Fetcher whose asynchronous requests run on pool.
func NewFetcher(pool *operations.Queue, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		pool:     pool,
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: fetch.DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and decodes the image at url. It never substitutes a
// placeholder.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Image, error) {
	if url == "" {
		return nil, ErrNoURL
	}

	resp, err := fetch.Get(ctx, f.client, url, f.maxBytes)
	if err != nil {
		return nil, err
	}

	pic, err := imaging.Decode(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &DecodeError{URL: url, Cause: err}
	}

	if f.maxDimension > 0 {
		b := pic.Bounds()
		if b.Dx() > f.maxDimension || b.Dy() > f.maxDimension {
			pic = imaging.Fit(pic, f.maxDimension, f.maxDimension, imaging.Lanczos)
		}
	}

	b := pic.Bounds()
	return &Image{
		Data:    resp.Body,
		Picture: pic,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// Start fetches url on the background pool and calls done with the
// outcome. done is not called when the request was canceled before the
// image arrived. Cancel the returned operation to abort the transfer.
func (f *Fetcher) Start(url string, done func(*Image, error)) (*operations.Operation, error) {
	return f.pool.Submit("cover_fetch", func(ctx context.Context) error {
		img, err := f.Fetch(ctx, url)
		if ctx.Err() != nil || fetch.IsCanceled(err) {
			return fetch.ErrCanceled
		}
		done(img, err)
		return err
	})
}
