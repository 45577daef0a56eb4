package checkmango

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestWithBaseURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com/api", "https://example.com/api/"},
		{"https://example.com/api/", "https://example.com/api/"},
		{"https://example.com", "https://example.com/"},
		{" https://example.com/v2?x=1#frag ", "https://example.com/v2/"},
	}

	for _, test := range tests {
		client, err := New(testAPIKey, testTeamID, WithBaseURL(test.input))
		if err != nil {
			t.Errorf("WithBaseURL(%q) returned error: %v", test.input, err)
			continue
		}
		if client.BaseURL().String() != test.expected {
			t.Errorf("WithBaseURL(%q) = %s, expected %s", test.input, client.BaseURL(), test.expected)
		}
	}
}

func TestWithBaseURLInvalid(t *testing.T) {
	for _, input := range []string{"", "not a url", "/relative/path", "://missing-scheme"} {
		_, err := New(testAPIKey, testTeamID, WithBaseURL(input))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("WithBaseURL(%q): expected ErrInvalidConfig, got %v", input, err)
		}
	}
}

func TestWithTimeout(t *testing.T) {
	timeout := 5 * time.Second
	client, err := New(testAPIKey, testTeamID, WithTimeout(timeout))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if client.httpClient.Timeout != timeout {
		t.Errorf("Expected timeout=%v, got %v", timeout, client.httpClient.Timeout)
	}
}

func TestWithHTTPClient(t *testing.T) {
	transport := &http.Transport{}
	customClient := &http.Client{Transport: transport}
	client, err := New(testAPIKey, testTeamID, WithHTTPClient(customClient))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if client.httpClient.Transport != transport {
		t.Error("Expected custom HTTP client transport to be used")
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Errorf("Expected default timeout to be applied, got %v", client.httpClient.Timeout)
	}
	if customClient.Timeout != 0 {
		t.Errorf("Expected caller's client to keep timeout 0, got %v", customClient.Timeout)
	}

	customClient.Timeout = time.Minute
	if client.httpClient.Timeout != defaultTimeout {
		t.Errorf("Expected later changes to the caller's client to be ignored, got %v", client.httpClient.Timeout)
	}
}

func TestWithHTTPClientDefaultClientUnchanged(t *testing.T) {
	before := http.DefaultClient.Timeout

	client, err := New(testAPIKey, testTeamID, WithHTTPClient(http.DefaultClient), WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if http.DefaultClient.Timeout != before {
		t.Errorf("Expected http.DefaultClient.Timeout=%v, got %v", before, http.DefaultClient.Timeout)
	}
	if client.httpClient == http.DefaultClient {
		t.Error("Expected the client to hold its own copy of http.DefaultClient")
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("Expected timeout=5s, got %v", client.httpClient.Timeout)
	}
}

func TestWithUserAgent(t *testing.T) {
	client, got := newTestClient(t, http.StatusOK, userResponseBody, WithUserAgent("my-app/1.0"))

	if _, err := client.GetUser(context.Background()); err != nil {
		t.Fatalf("GetUser() returned error: %v", err)
	}
	if got.Header.Get("User-Agent") != "my-app/1.0" {
		t.Errorf("Expected User-Agent my-app/1.0, got %s", got.Header.Get("User-Agent"))
	}

	client, _ = New(testAPIKey, testTeamID, WithUserAgent("  "))
	if client.userAgent != "checkmango-go/"+Version {
		t.Errorf("Expected blank user agent to keep default, got %q", client.userAgent)
	}
}

func TestWithMetricsCollector(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	client, err := New(testAPIKey, testTeamID, WithMetricsCollector(collector))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if client.metrics != collector {
		t.Error("Expected metrics collector to be set")
	}
}

func TestWithMetrics(t *testing.T) {
	first, err := New(testAPIKey, testTeamID, WithMetrics())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	second, err := New(testAPIKey, testTeamID, WithMetrics())
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if first.metrics == nil {
		t.Fatal("Expected metrics collector to be set")
	}
	if first.metrics != second.metrics {
		t.Error("Expected clients built with WithMetrics to share one collector")
	}
	if first.metrics.Registerer() != prometheus.DefaultRegisterer {
		t.Error("Expected collector on the default registerer")
	}
}

func TestWithDebugConfigCopied(t *testing.T) {
	config := &DebugConfig{Enabled: true, LogRequests: true, RequestIDGen: func() string { return "req" }}
	client, err := New(testAPIKey, testTeamID, WithLogger(&recordingLogger{}), WithDebugConfig(config))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	config.Enabled = false
	config.LogRequests = false

	if !client.debugEnabled() {
		t.Error("Expected debug to stay enabled after the caller changed its config")
	}
	if !client.debug.LogRequests {
		t.Error("Expected LogRequests to stay enabled after the caller changed its config")
	}
}

func TestWithDebug(t *testing.T) {
	logger := &recordingLogger{}
	client, err := New(testAPIKey, testTeamID, WithDebug(), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	if !client.debugEnabled() {
		t.Error("Expected debug to be enabled")
	}
}

func TestWithRequestIDGenerator(t *testing.T) {
	logger := &recordingLogger{}
	client, _ := newTestClient(t, http.StatusOK, userResponseBody,
		WithDebug(), WithLogger(logger), WithRequestIDGenerator(func() string { return "req-1" }))

	if _, err := client.GetUser(context.Background()); err != nil {
		t.Fatalf("GetUser() returned error: %v", err)
	}

	entry, ok := logger.find("Starting request")
	if !ok {
		t.Fatal("Expected a 'Starting request' log entry")
	}
	if entry.field("requestID") != "req-1" {
		t.Errorf("Expected requestID req-1, got %v", entry.field("requestID"))
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		options  []Option
		problems []string
	}{
		{
			name:     "nil HTTP client",
			options:  []Option{WithHTTPClient(nil)},
			problems: []string{"HTTP client cannot be nil"},
		},
		{
			name:     "negative timeout",
			options:  []Option{WithTimeout(-time.Second)},
			problems: []string{"timeout must not be negative"},
		},
		{
			name:     "nil middleware",
			options:  []Option{WithMiddleware(nil)},
			problems: []string{"middleware[0] cannot be nil"},
		},
		{
			name:     "debug without logger",
			options:  []Option{WithDebug()},
			problems: []string{"logger must be set when debug is enabled"},
		},
		{
			name:     "debug without request IDs",
			options:  []Option{WithLogger(&recordingLogger{}), WithDebugConfig(&DebugConfig{Enabled: true})},
			problems: []string{"debug RequestIDGen must be set when debug is enabled"},
		},
		{
			name:     "several problems",
			options:  []Option{WithBaseURL(""), WithHTTPClient(nil)},
			problems: []string{"base URL cannot be empty", "HTTP client cannot be nil"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, err := New(testAPIKey, testTeamID, test.options...)
			if client != nil {
				t.Error("Expected nil client on invalid configuration")
			}

			var configErr *ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("Expected *ConfigError, got %T: %v", err, err)
			}
			if strings.Join(configErr.Problems, "|") != strings.Join(test.problems, "|") {
				t.Errorf("Expected problems %v, got %v", test.problems, configErr.Problems)
			}
		})
	}
}
