package checkmango

import (
	"context"
	"net/http"
)

// VariantInclude names a relationship that can be side-loaded with a variant.
type VariantInclude string

const (
	VariantIncludeExperiment VariantInclude = "experiment"
	VariantIncludeTeam       VariantInclude = "team"
)

// VariantAttributes describes a variant together with the statistics the
// service computes for it.
type VariantAttributes struct {
	ID             int       `json:"id"`
	Key            string    `json:"key"`
	TeamID         int       `json:"team_id"`
	Description    string    `json:"description"`
	Control        bool      `json:"control"`
	ConversionRate float64   `json:"conversion_rate"`
	Power          float64   `json:"power"`
	ZScore         float64   `json:"z_score"`
	PValue         float64   `json:"p_value"`
	Uplift         float64   `json:"uplift"`
	Created        Timestamp `json:"created"`
	Updated        Timestamp `json:"updated"`
}

type (
	Variant          = Resource[VariantAttributes]
	VariantResponse  = Document[Variant]
	VariantsResponse = Document[[]Variant]
)

// ListVariantsOptions configures ListVariants.
// Sorting is not sent; use Client.Query with a sort parameter for ordered results.
type ListVariantsOptions struct {
	Pagination
	Experiment string
	Include    []VariantInclude
}

// GetVariantOptions configures GetVariant.
type GetVariantOptions struct {
	Experiment string
	Key        string
	Include    []VariantInclude
}

// CreateVariantOptions adds a variant to Experiment.
type CreateVariantOptions struct {
	Experiment  string `json:"-"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	Control     bool   `json:"control"`
}

// UpdateVariantOptions selects a variant by experiment and current key and
// changes the given fields. A nil Control leaves the flag unchanged.
type UpdateVariantOptions struct {
	Experiment  string `json:"-"`
	Variant     string `json:"-"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description,omitempty"`
	Control     *bool  `json:"control,omitempty"`
}

// DeleteVariantOptions selects the variant to delete.
type DeleteVariantOptions struct {
	Experiment string
	Variant    string
}

func (o ListVariantsOptions) args() Args {
	args := Args{}
	o.Pagination.apply(args)
	setInclude(args, o.Include)
	return args
}

func (o GetVariantOptions) args() Args {
	args := Args{}
	setInclude(args, o.Include)
	return args
}

// ListVariants lists the variants of an experiment.
func (c *Client) ListVariants(ctx context.Context, opts ListVariantsOptions) (*VariantsResponse, error) {
	const op = "variants.list"
	return do[VariantsResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("experiments", opts.Experiment, "variants"),
		params: c.params(op, opts.args()),
	})
}

// GetVariant fetches one variant of an experiment.
func (c *Client) GetVariant(ctx context.Context, opts GetVariantOptions) (*VariantResponse, error) {
	const op = "variants.get"
	return do[VariantResponse](ctx, c, request{
		op:     op,
		method: http.MethodGet,
		path:   c.teamPath("experiments", opts.Experiment, "variants", opts.Key),
		params: c.params(op, opts.args()),
	})
}

// CreateVariant adds a variant to an experiment.
func (c *Client) CreateVariant(ctx context.Context, opts CreateVariantOptions) (*VariantResponse, error) {
	return do[VariantResponse](ctx, c, request{
		op:      "variants.create",
		method:  http.MethodPost,
		path:    c.teamPath("experiments", opts.Experiment, "variants"),
		payload: opts,
	})
}

// UpdateVariant changes a variant.
func (c *Client) UpdateVariant(ctx context.Context, opts UpdateVariantOptions) (*VariantResponse, error) {
	return do[VariantResponse](ctx, c, request{
		op:      "variants.update",
		method:  http.MethodPut,
		path:    c.teamPath("experiments", opts.Experiment, "variants", opts.Variant),
		payload: opts,
	})
}

// DeleteVariant removes a variant from an experiment.
func (c *Client) DeleteVariant(ctx context.Context, opts DeleteVariantOptions) error {
	return c.query(ctx, request{
		op:     "variants.delete",
		method: http.MethodDelete,
		path:   c.teamPath("experiments", opts.Experiment, "variants", opts.Variant),
	}, nil)
}
