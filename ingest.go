package checkmango

import (
	"context"
	"net/http"
)

// IngestOptions records that a participant was exposed to a variant of an
// experiment, and optionally that it triggered an event.
type IngestOptions struct {
	Experiment  string `json:"experiment"`
	Participant string `json:"participant"`
	Variant     string `json:"variant"`
	Event       string `json:"event,omitempty"`
}

// Ingest sends one exposure or conversion to the team's ingest endpoint.
func (c *Client) Ingest(ctx context.Context, opts IngestOptions) error {
	return c.query(ctx, request{
		op:      "ingest",
		method:  http.MethodPost,
		path:    c.teamPath("ingest"),
		payload: opts,
	}, nil)
}
