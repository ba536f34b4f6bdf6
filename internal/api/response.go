package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// RequestIDHeader carries the server's identifier for a request.
const RequestIDHeader = "Request-Id"

var errNotObject = errors.New("response body is not a JSON object")

// Response is a successfully parsed API response.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body is the raw response body.
	Body []byte
	// Data is Body decoded as a JSON object. Numbers are json.Number.
	Data map[string]any
	// RequestID is the value of the Request-Id header, if any.
	RequestID string
}

// NewResponse parses body as a JSON object. It fails when the body is empty,
// is not valid JSON, or is JSON but not an object.
func NewResponse(status int, header http.Header, body []byte) (*Response, error) {
	if header == nil {
		header = http.Header{}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode response body: trailing data")
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       body,
		Data:       obj,
		RequestID:  header.Get(RequestIDHeader),
	}, nil
}

// Decode unmarshals the top-level field key of the body into v. An empty
// key decodes the whole body.
func (r *Response) Decode(key string, v any) error {
	if key == "" {
		return json.Unmarshal(r.Body, v)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &fields); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("response has no %q field", key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}
