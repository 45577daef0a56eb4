package checkmango

import (
	"context"
	"net/http"
	"strconv"
)

// TeamInclude names a relationship that can be side-loaded with a team.
type TeamInclude string

const (
	TeamIncludeEvents             TeamInclude = "events"
	TeamIncludeExperiments        TeamInclude = "experiments"
	TeamIncludeExperimentVariants TeamInclude = "experiments.variants"
	TeamIncludeParticipants       TeamInclude = "participants"
)

// TeamAttributes describes a team. Counters are nil when the service omits them.
type TeamAttributes struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	EventCount       *int      `json:"event_count"`
	ExperimentCount  *int      `json:"experiment_count"`
	ParticipantCount *int      `json:"participant_count"`
	IsFree           bool      `json:"is_free"`
	APIRequests      *int      `json:"api_requests"`
	Created          Timestamp `json:"created"`
	Updated          Timestamp `json:"updated"`
}

type (
	Team          = Resource[TeamAttributes]
	TeamResponse  = Document[Team]
	TeamsResponse = Document[[]Team]
)

// ListTeamsOptions configures ListTeams.
// Sorting is not sent; use Client.Query with a sort parameter for ordered results.
type ListTeamsOptions struct {
	Pagination
	Include []TeamInclude
}

// GetTeamOptions configures GetTeam.
type GetTeamOptions struct {
	ID      int
	Include []TeamInclude
}

func (o ListTeamsOptions) args() Args {
	args := Args{}
	o.Pagination.apply(args)
	setInclude(args, o.Include)
	return args
}

func (o GetTeamOptions) args() Args {
	args := Args{}
	setInclude(args, o.Include)
	return args
}

// ListTeams lists the teams the user belongs to.
func (c *Client) ListTeams(ctx context.Context, opts ListTeamsOptions) (*TeamsResponse, error) {
	const op = "teams.list"
	return do[TeamsResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   "teams",
		params: c.params(op, opts.args()),
	})
}

// GetTeam fetches any team the user can see by ID.
func (c *Client) GetTeam(ctx context.Context, opts GetTeamOptions) (*TeamResponse, error) {
	const op = "teams.get"
	return do[TeamResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   joinPath("teams", strconv.Itoa(opts.ID)),
		params: c.params(op, opts.args()),
	})
}

// GetCurrentTeam returns the user's current team.
func (c *Client) GetCurrentTeam(ctx context.Context) (*TeamResponse, error) {
	return do[TeamResponse](ctx, c, request{op: "teams.current", method: http.MethodGet, path: "current-team"})
}
