package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/checkmango/checkmango-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiRequest is a request seen by the fake API.
type apiRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakeAPI answers every request with the response registered for
// "METHOD /path", or 404.
type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	requests  []apiRequest
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()

	api := &fakeAPI{responses: map[string]fakeResponse{}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		api.mu.Lock()
		api.requests = append(api.requests, apiRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		resp, ok := api.responses[r.Method+" "+r.URL.Path]
		api.mu.Unlock()

		if !ok {
			resp = fakeResponse{status: http.StatusNotFound, body: `{"message":"Not Found"}`}
		}
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(server.Close)

	return api, server
}

func (f *fakeAPI) on(route string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[route] = fakeResponse{status: status, body: body}
}

func (f *fakeAPI) last(t *testing.T) apiRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the API")
	return f.requests[len(f.requests)-1]
}

// run executes the CLI against server with an isolated HOME.
func run(t *testing.T, server *httptest.Server, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	if server != nil {
		args = append([]string{"--base-url", server.URL, "--api-key", "secret", "--team", "7"}, args...)
	}
	code := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestUserCommand(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /user", http.StatusOK, `{"data":{"type":"users","id":"1","attributes":{"name":"Jane","email":"jane@example.com"}}}`)

	stdout, stderr, code := run(t, server, "user")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "jane@example.com")
	assert.Equal(t, "Bearer secret", api.last(t).Auth)
}

func TestExperimentsListTable(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /teams/7/experiments", http.StatusOK, `{"data":[
		{"type":"experiments","id":"1","attributes":{"key":"pricing","status":"running","description":"Annual first","started":{"human":"1 day ago","string":"2024-03-02"}}},
		{"type":"experiments","id":"2","attributes":{"key":"onboarding","status":"draft","description":""}}
	]}`)

	stdout, stderr, code := run(t, server, "experiments", "list", "--status", "running", "--include", "variants,event", "--per-page", "5")

	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "KEY"))
	assert.Contains(t, lines[1], "pricing")
	assert.Contains(t, lines[1], "2024-03-02")
	assert.Contains(t, lines[2], "onboarding")

	assert.Equal(t, "filter%5Bstatus%5D=running&include=variants%2Cevent&per_page=5", api.last(t).Query)
}

func TestExperimentsGetJSON(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /teams/7/experiments/pricing", http.StatusOK,
		`{"data":{"type":"experiments","id":"1","attributes":{"key":"pricing","status":"running"}}}`)

	stdout, stderr, code := run(t, server, "-o", "json", "experiments", "get", "pricing")

	require.Equal(t, 0, code, stderr)

	var doc struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Key string `json:"key"`
			} `json:"attributes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "1", doc.Data.ID)
	assert.Equal(t, "pricing", doc.Data.Attributes.Key)
}

func TestExperimentsCreateSendsBody(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("POST /teams/7/experiments", http.StatusCreated,
		`{"data":{"type":"experiments","id":"3","attributes":{"key":"pricing","status":"draft"}}}`)

	_, stderr, code := run(t, server, "experiments", "create", "pricing", "--event", "signup")

	require.Equal(t, 0, code, stderr)
	req := api.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.JSONEq(t, `{"key":"pricing","event":"signup"}`, req.Body)
	assert.Empty(t, req.Query)
}

func TestExperimentsCreateRequiresEvent(t *testing.T) {
	_, server := newFakeAPI(t)

	_, stderr, code := run(t, server, "experiments", "create", "pricing")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `"event" not set`)
}

func TestExperimentsDelete(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("DELETE /teams/7/experiments/pricing", http.StatusNoContent, "")

	stdout, stderr, code := run(t, server, "experiments", "delete", "pricing")

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Deleted experiment pricing\n", stdout)
	assert.Equal(t, http.MethodDelete, api.last(t).Method)
}

func TestVariantsUpdateControlFlag(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("PUT /teams/7/experiments/pricing/variants/annual", http.StatusOK,
		`{"data":{"type":"variants","id":"4","attributes":{"key":"annual","control":false}}}`)

	_, stderr, code := run(t, server, "variants", "update", "pricing", "annual", "--control=false")
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"control":false}`, api.last(t).Body)

	_, stderr, code = run(t, server, "variants", "update", "pricing", "annual", "--description", "Annual first")
	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"description":"Annual first"}`, api.last(t).Body)
}

func TestParticipantsUnenrol(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("DELETE /teams/7/participants/user-1/experiments/pricing", http.StatusOK, "")

	stdout, stderr, code := run(t, server, "-o", "json", "participants", "unenrol", "user-1", "pricing")

	require.Equal(t, 0, code, stderr)
	assert.JSONEq(t, `{"unenrolled":true,"participant":"user-1","experiment":"pricing"}`, stdout)
}

func TestParticipantsExperiments(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /teams/7/participants/user-1/experiments", http.StatusOK,
		`{"data":[{"type":"experiments","id":"1","attributes":{"key":"pricing","variant":"annual"},"relationships":[]}]}`)

	stdout, stderr, code := run(t, server, "participants", "experiments", "user-1", "--include", "variant")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "pricing")
	assert.Contains(t, stdout, "annual")
	assert.Equal(t, "include=variant", api.last(t).Query)
}

func TestEventsCreate(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("POST /teams/7/events", http.StatusCreated,
		`{"data":{"type":"events","id":"2","attributes":{"key":"signup","type":"unique"}}}`)

	stdout, stderr, code := run(t, server, "events", "create", "signup", "--type", "unique")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "unique")
	assert.JSONEq(t, `{"key":"signup","type":"unique"}`, api.last(t).Body)
}

func TestTeamsGetIsNotTeamScoped(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /teams/42", http.StatusOK,
		`{"data":{"type":"teams","id":"42","attributes":{"name":"Acme","experiment_count":3}}}`)

	stdout, stderr, code := run(t, server, "teams", "get", "42")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Acme")
	assert.Contains(t, stdout, "3")
}

func TestValidationErrorOutput(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("POST /teams/7/events", http.StatusUnprocessableEntity,
		`{"message":"The given data was invalid.","errors":{"key":["The key has already been taken."]}}`)

	_, stderr, code := run(t, server, "events", "create", "signup")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: 422 Unprocessable Entity")
	assert.Contains(t, stderr, "/data/attributes/key: The key has already been taken.")
}

func TestNotFoundExitCode(t *testing.T) {
	_, server := newFakeAPI(t)

	_, stderr, code := run(t, server, "events", "get", "missing")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: 404 Not Found")
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("CHECKMANGO_API_KEY", "")

	_, stderr, code := run(t, nil, "user")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "an API key is required")
}

func TestMissingTeam(t *testing.T) {
	_, stderr, code := run(t, nil, "--api-key", "secret", "experiments", "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "a team is required")
}

func TestHealthCommand(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /health", http.StatusOK, `{"status":"ok"}`)

	stdout, stderr, code := run(t, server, "health")

	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "API is healthy\n", stdout)
}

func TestVerboseLogsToStderr(t *testing.T) {
	api, server := newFakeAPI(t)
	api.on("GET /health", http.StatusOK, `{"status":"ok"}`)

	_, stderr, code := run(t, server, "--verbose", "health")

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "Starting request")
	assert.NotContains(t, stderr, "secret")
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, nil, "version")

	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "checkmango-go v"))

	stdout, stderr, code = run(t, nil, "version", "-o", "json")

	require.Equal(t, 0, code, stderr)
	var info checkmango.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, checkmango.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}
