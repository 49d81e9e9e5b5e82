// file: internal/presentation/text.go
// version: 1.0.0
// guid: b738e368-4185-4799-81ea-5cf4ea9ce0e3

package presentation

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// TextRenderer writes one row per Render call.
type TextRenderer struct {
	W     io.Writer
	Index int
}

func (r TextRenderer) Render(row Row) {
	fmt.Fprintln(r.W, FormatRow(r.Index, row))
}

// FormatRow is the single-line terminal form of a row.
func FormatRow(index int, row Row) string {
	switch row.Kind {
	case RowNothingFound, RowNotice:
		return "    " + row.Title
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%3d. %s", index+1, row.Title)
	if row.Authors != "" {
		fmt.Fprintf(&b, " by %s", row.Authors)
	}
	switch {
	case row.Image == nil:
		b.WriteString(" [cover pending]")
	case row.Image == Placeholder():
		b.WriteString(" [no cover]")
	default:
		bounds := row.Image.Bounds()
		fmt.Fprintf(&b, " [cover %dx%d]", bounds.Dx(), bounds.Dy())
	}
	return b.String()
}

// ListSurface keeps rows in memory so a terminal or an HTTP handler can read
// the current list at any time.
type ListSurface struct {
	mu     sync.RWMutex
	rows   []Row
	alerts []string
}

func NewListSurface() *ListSurface {
	return &ListSurface{}
}

func (s *ListSurface) Reload(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = make([]Row, count)
}

func (s *ListSurface) Cell(index int) Renderable {
	return listCell{surface: s, index: index}
}

func (s *ListSurface) Alert(title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, title+" "+message)
}

// Rows returns a copy of the current rows.
func (s *ListSurface) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Alerts returns every alert shown so far.
func (s *ListSurface) Alerts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Print writes the current rows through TextRenderer.
func (s *ListSurface) Print(w io.Writer) {
	for i, row := range s.Rows() {
		TextRenderer{W: w, Index: i}.Render(row)
	}
}

type listCell struct {
	surface *ListSurface
	index   int
}

func (c listCell) Render(row Row) {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()
	if c.index < len(c.surface.rows) {
		c.surface.rows[c.index] = row
	}
}
