package api

import (
	"fmt"
	"net/http"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

// errorDetails is the "error" object of an error response.
type errorDetails struct {
	Message string
	Param   string
	Code    string
	Type    string
}

// Classify converts a non-2xx response into an *apierrors.Error.
//
// A body that is not JSON, or has no "error" field, yields a generic API
// error whose message quotes the raw body and status. Otherwise the status
// selects the kind: 400 and 404 are invalid requests, 401 is an
// authentication failure, anything else is an API error.
func Classify(status int, header http.Header, body []byte) *apierrors.Error {
	resp, err := NewResponse(status, header, body)
	if err != nil {
		return generalAPIError(status, header, body)
	}

	details, ok := extractErrorDetails(resp.Data)
	if !ok {
		return generalAPIError(status, header, body)
	}

	apiErr := &apierrors.Error{
		Message:     details.Message,
		HTTPStatus:  status,
		HTTPBody:    string(body),
		HTTPHeaders: resp.Header,
		Code:        details.Code,
		JSONBody:    resp.Data,
		RequestID:   resp.RequestID,
	}

	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		apiErr.Kind = apierrors.KindInvalidRequest
		apiErr.Param = details.Param
	case http.StatusUnauthorized:
		apiErr.Kind = apierrors.KindAuthentication
	default:
		apiErr.Kind = apierrors.KindAPI
	}

	return apiErr
}

// generalAPIError reports a response the client could not interpret. The raw
// body is embedded verbatim.
func generalAPIError(status int, header http.Header, body []byte) *apierrors.Error {
	if header == nil {
		header = http.Header{}
	}
	return &apierrors.Error{
		Kind: apierrors.KindAPI,
		Message: fmt.Sprintf("Invalid response object from API: \"%s\" (HTTP response code was %d)",
			body, status),
		HTTPStatus:  status,
		HTTPBody:    string(body),
		HTTPHeaders: header,
		RequestID:   header.Get(RequestIDHeader),
	}
}

func extractErrorDetails(data map[string]any) (errorDetails, bool) {
	raw, ok := data["error"]
	if !ok || raw == nil {
		return errorDetails{}, false
	}

	switch v := raw.(type) {
	case string:
		return errorDetails{Message: v}, true
	case map[string]any:
		return errorDetails{
			Message: stringField(v, "message"),
			Param:   stringField(v, "param"),
			Code:    stringField(v, "code"),
			Type:    stringField(v, "type"),
		}, true
	}
	return errorDetails{}, false
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
