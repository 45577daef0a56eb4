package checkmango

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://checkmango.com/api/"

	// MediaType is sent as Accept and Content-Type on every request.
	MediaType = "application/vnd.api+json"

	defaultTimeout = 30 * time.Second
)

// Client is a Checkmango API client. Its credential, base URL and team are
// fixed by New and never change, so a single *Client is safe for concurrent
// use. Every call is one HTTP round trip: nothing is retried or cached.
type Client struct {
	apiKey     string
	teamID     int
	rawBaseURL string
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	middleware []Middleware
	metrics    *MetricsCollector
	debug      *DebugConfig
	logger     Logger
}

// request describes one call funnelled through query.
type request struct {
	op      string
	method  string
	path    string
	params  Params
	payload any
}

type operationKey struct{}

// New constructs a Client for apiKey scoped to teamID.
func New(apiKey string, teamID int, options ...Option) (*Client, error) {
	client := &Client{
		apiKey:     apiKey,
		teamID:     teamID,
		rawBaseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		timeout:    defaultTimeout,
		userAgent:  UserAgent("checkmango-go"),
		middleware: []Middleware{},
		metrics:    nil,
		debug:      DefaultDebugConfig(),
		logger:     nil,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		return nil, err
	}

	baseURL, err := parseBaseURL(client.rawBaseURL)
	if err != nil {
		return nil, &ConfigError{Problems: []string{err.Error()}}
	}
	client.baseURL = baseURL

	return client, nil
}

// TeamID returns the team every team-scoped path is built for.
func (c *Client) TeamID() int {
	return c.teamID
}

// BaseURL returns a copy of the API root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Query sends one authenticated request to path, relative to the base URL,
// for endpoints without a typed method. params are only sent with GET;
// payload is encoded as the JSON body when non-nil. The response body is
// decoded into out unless method is DELETE.
func (c *Client) Query(ctx context.Context, method, path string, params Params, payload, out any) error {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	return c.query(ctx, request{
		op:      "query",
		method:  method,
		path:    path,
		params:  params,
		payload: payload,
	}, out)
}

// OperationFromContext returns the operation name ("experiments.get", ...)
// of the call a request belongs to. Middleware can use it to label requests.
func OperationFromContext(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(operationKey{}).(string)
	return op, ok
}

func (c *Client) query(ctx context.Context, r request, out any) error {
	u, err := c.baseURL.Parse(r.path)
	if err != nil {
		return fmt.Errorf("checkmango: resolve path %q: %w", r.path, err)
	}

	if r.method == http.MethodGet && len(r.params) > 0 {
		q := u.Query()
		for key, value := range r.params {
			q.Add(key, formatParam(value))
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if r.payload != nil {
		data, err := json.Marshal(r.payload)
		if err != nil {
			return fmt.Errorf("checkmango: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	ctx = context.WithValue(ctx, operationKey{}, r.op)
	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("checkmango: build request: %w", err)
	}

	req.Header.Set("Accept", MediaType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", MediaType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Starting request", "requestID", requestID, "operation", r.op, "method", r.method, "url", u.String())
	}

	c.metrics.RecordRequestStart(r.op, r.method)
	resp, err := c.executeMiddleware(req)
	c.metrics.RecordRequestEnd(r.op, r.method)

	if err != nil {
		c.metrics.RecordRequest(r.op, r.method, 0, time.Since(start))
		c.metrics.RecordError(errorTypeTransport, r.op, r.method)
		if c.debugEnabled() {
			c.logger.Warn("Request failed", "requestID", requestID, "operation", r.op, "error", err.Error())
		}
		return err
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(r.op, r.method, resp.StatusCode, time.Since(start))

	if c.debugEnabled() && c.debug.LogResponses {
		c.logger.Debug("Received response", "requestID", requestID, "operation", r.op, "statusCode", resp.StatusCode, "duration", time.Since(start))
	}

	if err := c.handleResponse(req, resp, out); err != nil {
		switch err.(type) {
		case *APIError:
			c.metrics.RecordError(errorTypeAPI, r.op, r.method)
		case *DecodeError:
			c.metrics.RecordError(errorTypeDecode, r.op, r.method)
		}
		return err
	}
	return nil
}

// handleResponse turns a response into nil, a decoded value in out, or an
// *APIError / *DecodeError.
func (c *Client) handleResponse(req *http.Request, resp *http.Response, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return newDecodeError(resp.StatusCode, data, err)
		}

		// Bodies that are not objects carry no errors member.
		var envelope map[string]json.RawMessage
		_ = json.Unmarshal(data, &envelope)

		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    statusText(resp),
			Errors:     envelope["errors"],
			Method:     req.Method,
			URL:        req.URL.String(),
		}
	}

	if req.Method == http.MethodDelete {
		return nil
	}

	if out == nil {
		var doc any
		out = &doc
	}
	if err := json.Unmarshal(data, out); err != nil {
		return newDecodeError(resp.StatusCode, data, err)
	}
	return nil
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripperFunc(c.httpClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

// params runs args through the parameter builder and logs dropped keys.
func (c *Client) params(op string, args Args, allowedFilters ...string) Params {
	params, dropped := buildParams(args, allowedFilters)
	if len(dropped) > 0 && c.debugEnabled() && c.debug.LogParams {
		c.logger.Debug("Dropped unrecognised arguments", "operation", op, "keys", dropped)
	}
	return params
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled && c.logger != nil
}

// teamPath builds a path under teams/{teamID}.
func (c *Client) teamPath(segments ...string) string {
	return joinPath(append([]string{"teams", strconv.Itoa(c.teamID)}, segments...)...)
}

// joinPath escapes each segment and joins them with "/".
func joinPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return strings.Join(escaped, "/")
}

// statusText returns the reason phrase of resp, e.g. "Unprocessable Entity".
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// do runs r and decodes the response into a new T.
func do[T any](ctx context.Context, c *Client, r request) (*T, error) {
	var out T
	if err := c.query(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
