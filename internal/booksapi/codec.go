// file: internal/booksapi/codec.go
// version: 1.0.0
// guid: 701fafa0-14c6-47cb-bd83-40fbd93dfd86

package booksapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SearchResult is one decoded volume. Treat as immutable.
type SearchResult struct {
	ID         string
	Title      string
	Authors    []string
	ImageLinks map[string]string
}

// Key returns the per-result identity used for image caching.
func (r SearchResult) Key() string {
	return r.ID
}

// AuthorLine joins the authors the way they are displayed and persisted.
func (r SearchResult) AuthorLine() string {
	return strings.Join(r.Authors, ", ")
}

// Thumbnail returns the small thumbnail URL, falling back to the regular
// thumbnail. Empty when the volume has no image links.
func (r SearchResult) Thumbnail() string {
	if u := r.ImageLinks["smallThumbnail"]; u != "" {
		return u
	}
	return r.ImageLinks["thumbnail"]
}

// SearchResultSet is the root of a decoded volume search.
type SearchResultSet struct {
	TotalItems int
	Items      []SearchResult
}

// DecodeError reports a payload that is not a volume search response.
type DecodeError struct {
	Cause string
}

func (e *DecodeError) Error() string {
	return "failed to decode Google Books response: " + e.Cause
}

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items,omitempty"`
}

type volume struct {
	ID         string     `json:"id,omitempty"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title      string            `json:"title"`
	Authors    []string          `json:"authors,omitempty"`
	ImageLinks map[string]string `json:"imageLinks,omitempty"`
}

// volumesSchema only constrains what decoding relies on; Google returns many
// more fields per volume and those pass through untouched.
const volumesSchema = `{
	"type": "object",
	"required": ["totalItems"],
	"properties": {
		"totalItems": {"type": "integer", "minimum": 0},
		"items": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["volumeInfo"],
				"properties": {
					"id": {"type": ["string", "null"]},
					"volumeInfo": {
						"type": "object",
						"properties": {
							"title": {"type": ["string", "null"]},
							"authors": {"type": ["array", "null"], "items": {"type": "string"}},
							"imageLinks": {
								"type": ["object", "null"],
								"additionalProperties": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var schema = mustCompileSchema(volumesSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("booksapi: invalid volumes schema: %v", err))
	}
	return s
}

// Decode parses a volume search payload. Volumes without authors or image
// links decode with empty containers; a missing items array means no
// results. Anything structurally wrong fails the whole payload.
func Decode(payload []byte) (*SearchResultSet, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil, &DecodeError{Cause: "empty payload"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return nil, &DecodeError{Cause: fmt.Sprintf("payload is not valid JSON: %v", err)}
	}
	if !result.Valid() {
		causes := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			causes = append(causes, desc.String())
		}
		return nil, &DecodeError{Cause: strings.Join(causes, "; ")}
	}

	var resp volumesResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &DecodeError{Cause: err.Error()}
	}

	set := &SearchResultSet{
		TotalItems: resp.TotalItems,
		Items:      make([]SearchResult, 0, len(resp.Items)),
	}
	for i, item := range resp.Items {
		vi := item.VolumeInfo
		r := SearchResult{
			ID:         item.ID,
			Title:      vi.Title,
			Authors:    append([]string{}, vi.Authors...),
			ImageLinks: make(map[string]string, len(vi.ImageLinks)),
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("item-%d", i)
		}
		for size, link := range vi.ImageLinks {
			r.ImageLinks[size] = link
		}
		set.Items = append(set.Items, r)
	}
	return set, nil
}

// Encode renders a result set in the wire shape Decode accepts.
func Encode(set *SearchResultSet) ([]byte, error) {
	if set == nil {
		return nil, fmt.Errorf("nil result set")
	}
	resp := volumesResponse{
		TotalItems: set.TotalItems,
		Items:      make([]volume, 0, len(set.Items)),
	}
	for _, r := range set.Items {
		resp.Items = append(resp.Items, volume{
			ID: r.ID,
			VolumeInfo: volumeInfo{
				Title:      r.Title,
				Authors:    r.Authors,
				ImageLinks: r.ImageLinks,
			},
		})
	}
	return json.Marshal(resp)
}
