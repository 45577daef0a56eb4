package checkmango

import (
	"context"
	"net/http"
)

// ParticipantInclude names a relationship that can be side-loaded with a participant.
type ParticipantInclude string

const (
	ParticipantIncludeExperiments        ParticipantInclude = "experiments"
	ParticipantIncludeExperimentVariants ParticipantInclude = "experiments.variants"
	ParticipantIncludeTeam               ParticipantInclude = "team"
)

// EnrolmentInclude names a relationship that can be side-loaded with a
// participant's enrolment in an experiment.
type EnrolmentInclude string

const (
	EnrolmentIncludeExperiment EnrolmentInclude = "experiment"
	EnrolmentIncludeTeam       EnrolmentInclude = "team"
	EnrolmentIncludeVariant    EnrolmentInclude = "variant"
)

// ParticipantAttributes describes a participant.
type ParticipantAttributes struct {
	ID      int       `json:"id"`
	Key     string    `json:"key"`
	TeamID  int       `json:"team_id"`
	Notes   string    `json:"notes"`
	Created Timestamp `json:"created"`
	Updated Timestamp `json:"updated"`
}

type (
	Participant          = Resource[ParticipantAttributes]
	ParticipantResponse  = Document[Participant]
	ParticipantsResponse = Document[[]Participant]

	// Enrolment attributes are passed through untyped.
	Enrolment          = Resource[Object]
	EnrolmentResponse  = Document[Enrolment]
	EnrolmentsResponse = Document[[]Enrolment]
)

// ListParticipantsOptions configures ListParticipants.
// Sorting is not sent; use Client.Query with a sort parameter for ordered results.
type ListParticipantsOptions struct {
	Pagination
	Include []ParticipantInclude
}

// GetParticipantOptions configures GetParticipant.
type GetParticipantOptions struct {
	Key     string
	Include []ParticipantInclude
}

// CreateParticipantOptions is the body of CreateParticipant.
type CreateParticipantOptions struct {
	Key   string `json:"key"`
	Notes string `json:"notes,omitempty"`
}

// UpdateParticipantOptions selects a participant by its current key and
// changes the non-empty fields.
type UpdateParticipantOptions struct {
	Participant string `json:"-"`
	Key         string `json:"key,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// DeleteParticipantOptions selects the participant to delete.
type DeleteParticipantOptions struct {
	Key string
}

// ListParticipantExperimentsOptions configures ListParticipantExperiments.
// Sorting is not sent; use Client.Query with a sort parameter for ordered results.
type ListParticipantExperimentsOptions struct {
	Pagination
	Participant string
	Include     []EnrolmentInclude
}

// GetParticipantExperimentOptions configures GetParticipantExperiment.
type GetParticipantExperimentOptions struct {
	Participant string
	Experiment  string
	Include     []EnrolmentInclude
}

// UnenrolParticipantOptions selects the enrolment to remove.
type UnenrolParticipantOptions struct {
	Participant string
	Experiment  string
}

func (o ListParticipantsOptions) args() Args {
	args := Args{}
	o.Pagination.apply(args)
	setInclude(args, o.Include)
	return args
}

func (o GetParticipantOptions) args() Args {
	args := Args{}
	setInclude(args, o.Include)
	return args
}

func (o ListParticipantExperimentsOptions) args() Args {
	args := Args{}
	o.Pagination.apply(args)
	setInclude(args, o.Include)
	return args
}

func (o GetParticipantExperimentOptions) args() Args {
	args := Args{}
	setInclude(args, o.Include)
	return args
}

// ListParticipants lists the team's participants.
func (c *Client) ListParticipants(ctx context.Context, opts ListParticipantsOptions) (*ParticipantsResponse, error) {
	const op = "participants.list"
	return do[ParticipantsResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("participants"),
		params: c.params(op, opts.args()),
	})
}

// GetParticipant fetches one participant by key.
func (c *Client) GetParticipant(ctx context.Context, opts GetParticipantOptions) (*ParticipantResponse, error) {
	const op = "participants.get"
	return do[ParticipantResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("participants", opts.Key),
		params: c.params(op, opts.args()),
	})
}

// CreateParticipant registers a participant.
func (c *Client) CreateParticipant(ctx context.Context, opts CreateParticipantOptions) (*ParticipantResponse, error) {
	return do[ParticipantResponse](ctx, c, request{
		op:      "participants.create",
		method:  http.MethodPost,
		path:    c.teamPath("participants"),
		payload: opts,
	})
}

// UpdateParticipant changes a participant's key or notes.
func (c *Client) UpdateParticipant(ctx context.Context, opts UpdateParticipantOptions) (*ParticipantResponse, error) {
	return do[ParticipantResponse](ctx, c, request{
		op:      "participants.update",
		method:  http.MethodPut,
		path:    c.teamPath("participants", opts.Participant),
		payload: opts,
	})
}

// DeleteParticipant deletes a participant.
func (c *Client) DeleteParticipant(ctx context.Context, opts DeleteParticipantOptions) error {
	return c.query(ctx, request{
		op:     "participants.delete",
		method: http.MethodDelete,
		path:   c.teamPath("participants", opts.Key),
	}, nil)
}

// ListParticipantExperiments lists the experiments a participant is enrolled in.
func (c *Client) ListParticipantExperiments(ctx context.Context, opts ListParticipantExperimentsOptions) (*EnrolmentsResponse, error) {
	const op = "participants.experiments.list"
	return do[EnrolmentsResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("participants", opts.Participant, "experiments"),
		params: c.params(op, opts.args()),
	})
}

// GetParticipantExperiment fetches a participant's enrolment in one experiment.
func (c *Client) GetParticipantExperiment(ctx context.Context, opts GetParticipantExperimentOptions) (*EnrolmentResponse, error) {
	const op = "participants.experiments.get"
	return do[EnrolmentResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("participants", opts.Participant, "experiments", opts.Experiment),
		params: c.params(op, opts.args()),
	})
}

// UnenrolParticipant removes a participant from an experiment.
func (c *Client) UnenrolParticipant(ctx context.Context, opts UnenrolParticipantOptions) error {
	return c.query(ctx, request{
		op:     "participants.experiments.delete",
		method: http.MethodDelete,
		path:   c.teamPath("participants", opts.Participant, "experiments", opts.Experiment),
	}, nil)
}
