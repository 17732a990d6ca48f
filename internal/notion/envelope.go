package notion

import (
	"encoding/json"
	"fmt"
	"io"
)

// Page is one page of results from a Notion list endpoint.
// NextCursor is an opaque continuation token; "" means no further pages.
// Cursors are never compared or ordered, only their presence matters.
type Page struct {
	Results    []Record
	NextCursor string
}

// listResponse mirrors the standard Notion list envelope.
// Unexported; callers receive Page values.
type listResponse struct {
	Results    []Record `json:"results"`
	NextCursor *string  `json:"next_cursor"`
}

// decodePage decodes a Notion list envelope from a response body.
// A null next_cursor normalizes to the empty string.
func decodePage(body io.Reader) (*Page, error) {
	var lr listResponse
	if err := json.NewDecoder(body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("notion: decoding list response: %w", err)
	}

	page := &Page{Results: lr.Results}

	if lr.NextCursor != nil {
		page.NextCursor = *lr.NextCursor
	}

	return page, nil
}
