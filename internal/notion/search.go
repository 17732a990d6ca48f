package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// DefaultPageSize is the maximum page size accepted by Notion list endpoints,
// used when the config does not override it.
const DefaultPageSize = 100

// SearchRequest describes one page request against POST /v1/search.
// Cursor and page size travel in the JSON body, not the query string.
type SearchRequest struct {
	Query        string // optional full-text query, forwarded verbatim
	FilterObject string // optional object-kind filter ("page", "database")
	PageSize     int    // 0 means DefaultPageSize
	Cursor       string // "" for the first page
}

// searchBody is the wire shape of the search request body.
type searchBody struct {
	Query       string         `json:"query,omitempty"`
	Filter      *searchFilter  `json:"filter,omitempty"`
	StartCursor string         `json:"start_cursor,omitempty"`
	PageSize    int            `json:"page_size"`
	Sort        searchSortSpec `json:"sort"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchSortSpec struct {
	Timestamp string `json:"timestamp"`
	Direction string `json:"direction"`
}

// Search fetches one page of workspace search results.
// The request always carries a descending last_edited_time sort directive:
// newest-first ordering is the precondition incremental pagination relies on.
// The server is trusted to honor it; ordering cannot be verified from one page.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	body := searchBody{
		Query:       req.Query,
		StartCursor: req.Cursor,
		PageSize:    pageSize,
		Sort: searchSortSpec{
			Timestamp: "last_edited_time",
			Direction: "descending",
		},
	}

	if req.FilterObject != "" {
		body.Filter = &searchFilter{Property: "object", Value: req.FilterObject}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("notion: marshaling search request: %w", err)
	}

	c.logger.Debug("searching workspace",
		slog.String("filter_object", req.FilterObject),
		slog.Bool("continuing", req.Cursor != ""),
	)

	resp, err := c.Do(ctx, http.MethodPost, "/search", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodePage(resp.Body)
}
