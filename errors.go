package checkmango

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for common failure scenarios
var (
	// ErrInvalidConfig is matched by every configuration error returned from New
	ErrInvalidConfig = errors.New("checkmango: invalid configuration")

	// ErrUnsupportedMethod is returned by Query for verbs other than GET, POST, PUT and DELETE
	ErrUnsupportedMethod = errors.New("checkmango: unsupported method")
)

// maxErrorBody caps how much of an undecodable body is kept on a DecodeError.
const maxErrorBody = 1024

// APIError is returned when the service answers with a status outside 2xx.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Message is the status text, e.g. "Unprocessable Entity".
	Message string
	// Errors is the raw "errors" member of the response body, if any.
	Errors json.RawMessage
	Method string
	URL    string
}

// ErrorObject is a single entry of the service's errors payload.
type ErrorObject struct {
	ID     string       `json:"id,omitempty"`
	Status string       `json:"status,omitempty"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
	Meta   Object       `json:"meta,omitempty"`
}

// ErrorSource points at the part of the request an ErrorObject refers to.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// DecodeError is returned when a response body is not valid JSON.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// ConfigError lists every problem found while validating client options.
type ConfigError struct {
	Problems []string
}

// Error implements error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("checkmango: %d %s", e.StatusCode, e.Message)
	if e.Method != "" && e.URL != "" {
		msg = fmt.Sprintf("checkmango: %s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
	}

	var details []string
	for _, d := range e.Details() {
		switch {
		case d.Detail != "":
			details = append(details, d.Detail)
		case d.Title != "":
			details = append(details, d.Title)
		}
	}
	if len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}
	return msg
}

// Details decodes Errors. Both the JSON:API array form and the
// {"field": ["message", ...]} validation form are understood; for the
// latter Source.Pointer names the attribute. Unrecognised payloads yield nil.
func (e *APIError) Details() []ErrorObject {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}

	var list []ErrorObject
	if err := json.Unmarshal(e.Errors, &list); err == nil {
		return list
	}

	var fields map[string][]string
	if err := json.Unmarshal(e.Errors, &fields); err != nil {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, message := range fields[name] {
			list = append(list, ErrorObject{
				Detail: message,
				Source: &ErrorSource{Pointer: "/data/attributes/" + name},
			})
		}
	}
	return list
}

// Error implements error interface.
func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("checkmango: decode response (status %d): %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying json error.
func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Error implements error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidConfig, strings.Join(e.Problems, "; "))
}

// Is reports ErrInvalidConfig as a match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// StatusCode returns the HTTP status carried by an *APIError in err's chain,
// or 0 for transport and decode failures.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether err is an API error with status 401 or 403.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsValidation reports whether err is an API error with status 422.
func IsValidation(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

func newDecodeError(statusCode int, body []byte, err error) *DecodeError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &DecodeError{
		StatusCode: statusCode,
		Body:       bytes.Clone(body),
		Err:        err,
	}
}
