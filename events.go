package checkmango

import (
	"context"
	"net/http"
)

// EventInclude names a relationship that can be side-loaded with an event.
type EventInclude string

const (
	EventIncludeExperiments EventInclude = "experiments"
	EventIncludeTeam        EventInclude = "team"
)

// EventType controls how conversions of an event are counted.
type EventType string

const (
	// EventTypeUnique counts a participant at most once.
	EventTypeUnique EventType = "unique"
	// EventTypeCount counts every occurrence.
	EventTypeCount EventType = "count"
)

// EventAttributes describes a goal event.
type EventAttributes struct {
	ID          int       `json:"id"`
	Key         string    `json:"key"`
	TeamID      int       `json:"team_id"`
	Description string    `json:"description"`
	Type        EventType `json:"type"`
	Created     Timestamp `json:"created"`
	Updated     Timestamp `json:"updated"`
}

type (
	Event          = Resource[EventAttributes]
	EventResponse  = Document[Event]
	EventsResponse = Document[[]Event]
)

// ListEventsOptions configures ListEvents.
// Sorting is not sent; use Client.Query with a sort parameter for ordered results.
type ListEventsOptions struct {
	Pagination
	Include []EventInclude
}

// GetEventOptions configures GetEvent.
type GetEventOptions struct {
	Key     string
	Include []EventInclude
}

// CreateEventOptions is the body of CreateEvent.
type CreateEventOptions struct {
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	Type        EventType `json:"type,omitempty"`
}

// UpdateEventOptions selects an event by its current key and changes the
// non-empty fields.
type UpdateEventOptions struct {
	Event       string    `json:"-"`
	Key         string    `json:"key,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        EventType `json:"type,omitempty"`
}

// DeleteEventOptions selects the event to delete.
type DeleteEventOptions struct {
	Key string
}

func (o ListEventsOptions) args() Args {
	args := Args{}
	o.Pagination.apply(args)
	setInclude(args, o.Include)
	return args
}

func (o GetEventOptions) args() Args {
	args := Args{}
	setInclude(args, o.Include)
	return args
}

// ListEvents lists the team's events.
func (c *Client) ListEvents(ctx context.Context, opts ListEventsOptions) (*EventsResponse, error) {
	const op = "events.list"
	return do[EventsResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("events"),
		params: c.params(op, opts.args()),
	})
}

// GetEvent fetches one event by key.
func (c *Client) GetEvent(ctx context.Context, opts GetEventOptions) (*EventResponse, error) {
	const op = "events.get"
	return do[EventResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("events", opts.Key),
		params: c.params(op, opts.args()),
	})
}

// CreateEvent creates a goal event.
func (c *Client) CreateEvent(ctx context.Context, opts CreateEventOptions) (*EventResponse, error) {
	return do[EventResponse](ctx, c, request{
		op:      "events.create",
		method:  http.MethodPost,
		path:    c.teamPath("events"),
		payload: opts,
	})
}

// UpdateEvent changes an event.
func (c *Client) UpdateEvent(ctx context.Context, opts UpdateEventOptions) (*EventResponse, error) {
	return do[EventResponse](ctx, c, request{
		op:      "events.update",
		method:  http.MethodPut,
		path:    c.teamPath("events", opts.Event),
		payload: opts,
	})
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, opts DeleteEventOptions) error {
	return c.query(ctx, request{
		op:     "events.delete",
		method: http.MethodDelete,
		path:   c.teamPath("events", opts.Key),
	}, nil)
}
