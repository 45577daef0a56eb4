// Package checkmango is a client for the Checkmango A/B-testing API.
//
// A Client is bound to one API key and one team at construction. Its methods
// cover the user, teams, experiments and their variants, participants,
// events, ingestion and the health endpoint:
//
//	client, err := checkmango.New(os.Getenv("CHECKMANGO_API_KEY"), 42)
//	if err != nil {
//	    return err
//	}
//	exp, err := client.CreateExperiment(ctx, checkmango.CreateExperimentOptions{
//	    Key:   "pricing-page",
//	    Event: "signup",
//	})
//
// List and get methods accept typed options that become query parameters:
// include lists, page / per_page and, where the endpoint supports it,
// filter[...] parameters. Endpoints without a typed method can be reached
// through Client.Query together with BuildParams.
//
// Failures come in three shapes. Transport errors from net/http are returned
// unchanged. A response outside 2xx yields an *APIError carrying the status
// code and the service's errors payload. A body that is not valid JSON
// yields a *DecodeError. Nothing is retried, cached or rate limited.
//
// Observability is opt-in: WithMetrics registers Prometheus collectors,
// WithLogger / WithDebug enable request logging, and TracingMiddleware adds
// OpenTelemetry client spans.
package checkmango
