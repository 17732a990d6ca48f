package notion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// listQuery builds the query string for GET list endpoints: a page-size
// hint plus, when continuing, the previous page's cursor.
func listQuery(pageSize int, cursor string) string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q := url.Values{}
	q.Set("page_size", fmt.Sprintf("%d", pageSize))

	if cursor != "" {
		q.Set("start_cursor", cursor)
	}

	return q.Encode()
}

// ListUsers fetches one page of workspace users (GET /v1/users).
func (c *Client) ListUsers(ctx context.Context, pageSize int, cursor string) (*Page, error) {
	path := "/users?" + listQuery(pageSize, cursor)

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodePage(resp.Body)
}
