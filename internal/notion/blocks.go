package notion

import (
	"context"
	"net/http"
)

// BlockChildren fetches one page of a block's (or page's) immediate children
// (GET /v1/blocks/{block_id}/children). The block tree is discovered lazily:
// descendants beyond this level exist only where an item's has_children flag
// says so, and are reached by calling BlockChildren again with that item's id.
func (c *Client) BlockChildren(ctx context.Context, blockID string, pageSize int, cursor string) (*Page, error) {
	path := "/blocks/" + blockID + "/children?" + listQuery(pageSize, cursor)

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodePage(resp.Body)
}
