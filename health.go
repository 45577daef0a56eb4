package checkmango

import (
	"context"
	"net/http"
)

// Health checks that the API is reachable and answering with JSON.
func (c *Client) Health(ctx context.Context) error {
	return c.query(ctx, request{op: "health", method: http.MethodGet, path: "health"}, nil)
}
