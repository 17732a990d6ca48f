package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// GetPage retrieves metadata for a single page (GET /v1/pages/{page_id}).
// The endpoint returns one object directly, not a list envelope, and
// rejects pagination parameters.
func (c *Client) GetPage(ctx context.Context, pageID string) (Record, error) {
	c.logger.Debug("getting page", slog.String("page_id", pageID))

	resp, err := c.Do(ctx, http.MethodGet, "/pages/"+pageID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("notion: decoding page response: %w", err)
	}

	return rec, nil
}
