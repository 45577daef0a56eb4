package checkmango

import "net/http"

// Middleware represents a middleware function wrapped around every API round trip
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option represents a configuration option
type Option func(*Client)

// Args holds the arguments of a call keyed by camelCase names, for example
// {"teamId": 5, "include": []string{"team"}, "perPage": 25}.
type Args map[string]any

// Params is the flat query-parameter mapping sent with GET requests.
type Params map[string]any
