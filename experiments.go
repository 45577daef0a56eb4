package checkmango

import (
	"context"
	"net/http"
)

// ExperimentInclude names a relationship that can be side-loaded with an experiment.
type ExperimentInclude string

const (
	ExperimentIncludeEvent    ExperimentInclude = "event"
	ExperimentIncludeTeam     ExperimentInclude = "team"
	ExperimentIncludeVariants ExperimentInclude = "variants"
)

// ExperimentStatus is the lifecycle state of an experiment.
type ExperimentStatus string

const (
	ExperimentStatusDraft   ExperimentStatus = "draft"
	ExperimentStatusRunning ExperimentStatus = "running"
	ExperimentStatusStopped ExperimentStatus = "stopped"
)

// experimentFilters are the arguments ListExperiments sends as filter[...].
var experimentFilters = []string{"status"}

// ExperimentAttributes describes an experiment. Started and Stopped are nil
// until the experiment has been started or stopped.
type ExperimentAttributes struct {
	ID          int              `json:"id"`
	Key         string           `json:"key"`
	TeamID      int              `json:"team_id"`
	Description string           `json:"description"`
	Status      ExperimentStatus `json:"status"`
	Created     Timestamp        `json:"created"`
	Updated     Timestamp        `json:"updated"`
	Started     *Timestamp       `json:"started"`
	Stopped     *Timestamp       `json:"stopped"`
}

type (
	Experiment          = Resource[ExperimentAttributes]
	ExperimentResponse  = Document[Experiment]
	ExperimentsResponse = Document[[]Experiment]
)

// ListExperimentsOptions configures ListExperiments.
// Sorting is not sent; use Client.Query with a sort parameter for ordered results.
type ListExperimentsOptions struct {
	Pagination
	Include []ExperimentInclude
	// Status restricts the list to experiments in this state.
	Status ExperimentStatus
}

// GetExperimentOptions configures GetExperiment.
type GetExperimentOptions struct {
	Key     string
	Include []ExperimentInclude
}

// CreateExperimentOptions is the body of CreateExperiment. Event is the key
// of the primary goal event.
type CreateExperimentOptions struct {
	Key         string `json:"key"`
	Event       string `json:"event"`
	Description string `json:"description,omitempty"`
}

// UpdateExperimentOptions selects an experiment by its current key and
// changes the non-empty fields.
type UpdateExperimentOptions struct {
	Experiment  string `json:"-"`
	Key         string `json:"key,omitempty"`
	Event       string `json:"event,omitempty"`
	Description string `json:"description,omitempty"`
}

// DeleteExperimentOptions selects the experiment to delete.
type DeleteExperimentOptions struct {
	Key string
}

// StartExperimentOptions selects the experiment to start.
type StartExperimentOptions struct {
	Key string
}

// StopExperimentOptions selects the experiment to stop.
type StopExperimentOptions struct {
	Key string
}

func (o ListExperimentsOptions) args() Args {
	args := Args{}
	o.Pagination.apply(args)
	setInclude(args, o.Include)
	if o.Status != "" {
		args["status"] = o.Status
	}
	return args
}

func (o GetExperimentOptions) args() Args {
	args := Args{}
	setInclude(args, o.Include)
	return args
}

// ListExperiments lists the team's experiments.
func (c *Client) ListExperiments(ctx context.Context, opts ListExperimentsOptions) (*ExperimentsResponse, error) {
	const op = "experiments.list"
	return do[ExperimentsResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("experiments"),
		params: c.params(op, opts.args(), experimentFilters...),
	})
}

// GetExperiment fetches one experiment by key.
func (c *Client) GetExperiment(ctx context.Context, opts GetExperimentOptions) (*ExperimentResponse, error) {
	const op = "experiments.get"
	return do[ExperimentResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("experiments", opts.Key),
		params: c.params(op, opts.args()),
	})
}

// CreateExperiment creates a draft experiment.
func (c *Client) CreateExperiment(ctx context.Context, opts CreateExperimentOptions) (*ExperimentResponse, error) {
	return do[ExperimentResponse](ctx, c, request{
		op:      "experiments.create",
		method:  http.MethodPost,
		path:    c.teamPath("experiments"),
		payload: opts,
	})
}

// UpdateExperiment changes an experiment's key, goal event or description.
func (c *Client) UpdateExperiment(ctx context.Context, opts UpdateExperimentOptions) (*ExperimentResponse, error) {
	return do[ExperimentResponse](ctx, c, request{
		op:      "experiments.update",
		method:  http.MethodPut,
		path:    c.teamPath("experiments", opts.Experiment),
		payload: opts,
	})
}

// DeleteExperiment deletes an experiment.
func (c *Client) DeleteExperiment(ctx context.Context, opts DeleteExperimentOptions) error {
	return c.query(ctx, request{
		op:     "experiments.delete",
		method: http.MethodDelete,
		path:   c.teamPath("experiments", opts.Key),
	}, nil)
}

// StartExperiment starts collecting data for an experiment.
func (c *Client) StartExperiment(ctx context.Context, opts StartExperimentOptions) (*ExperimentResponse, error) {
	return do[ExperimentResponse](ctx, c, request{
		op:     "experiments.start",
		method: http.MethodPost,
		path:   c.teamPath("experiments", opts.Key, "start"),
	})
}

// StopExperiment stops a running experiment.
func (c *Client) StopExperiment(ctx context.Context, opts StopExperimentOptions) (*ExperimentResponse, error) {
	return do[ExperimentResponse](ctx, c, request{
		op:     "experiments.stop",
		method: http.MethodPost,
		path:   c.teamPath("experiments", opts.Key, "stop"),
	})
}
