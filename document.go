package checkmango

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Document is the response envelope. Data holds a single resource object
// or a slice of them; list responses also carry pagination Meta and Links.
type Document[T any] struct {
	Data     T               `json:"data"`
	Included json.RawMessage `json:"included,omitempty"`
	Links    Object          `json:"links,omitempty"`
	Meta     Object          `json:"meta,omitempty"`
	JSONAPI  *JSONAPIInfo    `json:"jsonapi,omitempty"`
}

// JSONAPIInfo is the top-level jsonapi member.
type JSONAPIInfo struct {
	Version string `json:"version"`
}

// Resource is a single resource object.
type Resource[A any] struct {
	Type          string `json:"type"`
	ID            string `json:"id"`
	Attributes    A      `json:"attributes"`
	Relationships Object `json:"relationships,omitempty"`
	Links         Object `json:"links,omitempty"`
}

// Object is a free-form JSON object. The service encodes empty objects as
// [], which decodes to an empty Object.
type Object map[string]any

// UnmarshalJSON implements json.Unmarshaler.
func (o *Object) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			return errors.New("checkmango: cannot decode non-empty array into Object")
		}
		*o = Object{}
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*o = m
	return nil
}

// Timestamp is how the service renders dates: a human form ("2 days ago")
// and a machine form.
type Timestamp struct {
	Human  string `json:"human"`
	String string `json:"string"`
}
