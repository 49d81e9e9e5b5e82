// file: internal/presentation/rows.go
// version: 1.0.0
// guid: 5ece5cd2-2fce-4c09-85a2-ec135ea4ca01

// Package presentation turns search and library state into list rows. It
// knows nothing about how rows are drawn; a Surface supplies Renderable
// cells and shows alerts.
package presentation

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/jdfalk/library-proto/internal/search"
)

const (
	NothingFoundText = "(Nothing found)"
	AlertTitle       = "Whoops..."
	AlertMessage     = "There was an error accessing Google Books. Please try again."
)

// RowKind distinguishes the rows a list can show.
type RowKind int

const (
	RowResult RowKind = iota
	RowLibrary
	RowNothingFound
	RowNotice
)

// Row is everything a cell needs to draw itself.
type Row struct {
	Kind       RowKind
	Title      string
	Authors    string
	Image      image.Image
	Selectable bool
}

// Renderable is a list cell.
type Renderable interface {
	Render(row Row)
}

// Surface is the list a screen draws into. All calls happen on the front-end
// dispatcher.
type Surface interface {
	// Reload discards every cell and sizes the list to count rows.
	Reload(count int)
	Cell(index int) Renderable
	Alert(title, message string)
}

var (
	placeholderOnce sync.Once
	placeholder     image.Image
)

// Placeholder is the cover shown when no image could be loaded.
func Placeholder() image.Image {
	placeholderOnce.Do(func() {
		placeholder = imaging.New(128, 192, color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff})
	})
	return placeholder
}

// NoticeFor returns the row text for a failed search.
func NoticeFor(reason search.Reason) string {
	switch reason {
	case search.ReasonDecode:
		return "Google Books sent a response that could not be read."
	case search.ReasonNotFound:
		return "The Google Books search service was not found."
	case search.ReasonServerError:
		return "Google Books is having trouble right now."
	case search.ReasonHTTP:
		return "Google Books refused the request."
	default:
		return "Could not reach Google Books. Check your connection."
	}
}

// decodeCover turns stored cover bytes back into a picture, falling back to
// the placeholder.
func decodeCover(data []byte) image.Image {
	if len(data) == 0 {
		return Placeholder()
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Placeholder()
	}
	return img
}
