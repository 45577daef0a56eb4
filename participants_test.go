package checkmango

import (
	"context"
	"net/http"
	"testing"
)

const participantBody = `{"data":{"type":"participants","id":"9","attributes":{"id":9,"key":"user-123","team_id":7,"notes":""}}}`

func TestParticipantEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*Client) error
		method string
		path   string
		query  string
		body   string
		list   bool
	}{
		{
			name: "list",
			call: func(c *Client) error {
				_, err := c.ListParticipants(context.Background(), ListParticipantsOptions{
					Pagination: Pagination{Page: 3},
					Include:    []ParticipantInclude{ParticipantIncludeExperimentVariants},
				})
				return err
			},
			method: http.MethodGet,
			path:   "/api/teams/7/participants",
			query:  "include=experiments.variants&page=3",
			list:   true,
		},
		{
			name: "get",
			call: func(c *Client) error {
				_, err := c.GetParticipant(context.Background(), GetParticipantOptions{Key: "user-123"})
				return err
			},
			method: http.MethodGet,
			path:   "/api/teams/7/participants/user-123",
		},
		{
			name: "create",
			call: func(c *Client) error {
				_, err := c.CreateParticipant(context.Background(), CreateParticipantOptions{Key: "user-123", Notes: "beta"})
				return err
			},
			method: http.MethodPost,
			path:   "/api/teams/7/participants",
			body:   `{"key":"user-123","notes":"beta"}`,
		},
		{
			name: "update",
			call: func(c *Client) error {
				_, err := c.UpdateParticipant(context.Background(), UpdateParticipantOptions{Participant: "user-123", Notes: "vip"})
				return err
			},
			method: http.MethodPut,
			path:   "/api/teams/7/participants/user-123",
			body:   `{"notes":"vip"}`,
		},
		{
			name: "delete",
			call: func(c *Client) error {
				return c.DeleteParticipant(context.Background(), DeleteParticipantOptions{Key: "user-123"})
			},
			method: http.MethodDelete,
			path:   "/api/teams/7/participants/user-123",
		},
		{
			name: "list experiments",
			call: func(c *Client) error {
				_, err := c.ListParticipantExperiments(context.Background(), ListParticipantExperimentsOptions{
					Participant: "user-123",
					Include:     []EnrolmentInclude{EnrolmentIncludeVariant},
				})
				return err
			},
			method: http.MethodGet,
			path:   "/api/teams/7/participants/user-123/experiments",
			query:  "include=variant",
			list:   true,
		},
		{
			name: "get experiment",
			call: func(c *Client) error {
				_, err := c.GetParticipantExperiment(context.Background(), GetParticipantExperimentOptions{
					Participant: "user-123",
					Experiment:  "exp1",
				})
				return err
			},
			method: http.MethodGet,
			path:   "/api/teams/7/participants/user-123/experiments/exp1",
		},
		{
			name: "unenrol",
			call: func(c *Client) error {
				return c.UnenrolParticipant(context.Background(), UnenrolParticipantOptions{
					Participant: "user-123",
					Experiment:  "exp1",
				})
			},
			method: http.MethodDelete,
			path:   "/api/teams/7/participants/user-123/experiments/exp1",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := participantBody
			if test.list {
				response = `{"data":[]}`
			}
			client, got := newTestClient(t, http.StatusOK, response)

			if err := test.call(client); err != nil {
				t.Fatalf("%s returned error: %v", test.name, err)
			}
			if got.Method != test.method {
				t.Errorf("Expected %s method, got %s", test.method, got.Method)
			}
			if got.Path != test.path {
				t.Errorf("Expected path %s, got %s", test.path, got.Path)
			}
			if got.Query.Encode() != test.query {
				t.Errorf("Expected query %q, got %q", test.query, got.Query.Encode())
			}
			if got.Body != test.body {
				t.Errorf("Expected body %q, got %q", test.body, got.Body)
			}
		})
	}
}

func TestGetParticipantExperimentDecodesAttributes(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK,
		`{"data":{"type":"experiments","id":"12","attributes":{"key":"exp1","variant":"v1"},"relationships":[]}}`)

	enrolment, err := client.GetParticipantExperiment(context.Background(), GetParticipantExperimentOptions{
		Participant: "user-123",
		Experiment:  "exp1",
	})
	if err != nil {
		t.Fatalf("GetParticipantExperiment() returned error: %v", err)
	}

	if enrolment.Data.Attributes["variant"] != "v1" {
		t.Errorf("Expected variant v1, got %v", enrolment.Data.Attributes["variant"])
	}
}
