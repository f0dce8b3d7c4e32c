package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a backend call failed.
type ErrorKind int

const (
	// NetworkFailure means no HTTP response was received.
	NetworkFailure ErrorKind = iota + 1
	// AuthRejected means the backend refused the credentials or token.
	AuthRejected
	// RequestRejected means a non-auth endpoint answered with a non-2xx status.
	RequestRejected
	// MalformedResponse means a 2xx body could not be decoded or lacked required fields.
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network_failure"
	case AuthRejected:
		return "auth_rejected"
	case RequestRejected:
		return "request_rejected"
	case MalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// APIError is returned by every Client and Agents method.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Detail     string
	Path       string
	Cause      error
}

func (e *APIError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Path, e.Detail)
	case e.Cause != nil:
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Kind, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s", e.Kind, e.Path)
	}
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Message returns the server-provided detail, or fallback when the server gave none.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// detailBody is the FastAPI error envelope. detail is a string for
// HTTPException and a list of field errors for validation failures; only the
// string form is surfaced.
type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

func parseDetail(body []byte) string {
	var env detailBody
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(env.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

func statusError(path string, status int, body []byte, authEndpoint bool) *APIError {
	kind := RequestRejected
	if authEndpoint || status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = AuthRejected
	}
	return &APIError{
		Kind:       kind,
		StatusCode: status,
		Detail:     parseDetail(body),
		Path:       path,
	}
}
