package relay

import (
	"errors"
	"net/http"
)

// Kind classifies relay failures.
type Kind int

const (
	ConfigurationError Kind = iota + 1
	MalformedRequestError
	SchemaError
	UpstreamError
)

func (k Kind) String() string {
	switch k {
	case ConfigurationError:
		return "configuration"
	case MalformedRequestError:
		return "malformed_request"
	case SchemaError:
		return "schema"
	case UpstreamError:
		return "upstream"
	default:
		return "unknown"
	}
}

// StatusCode is the HTTP status reported to the client.
func (k Kind) StatusCode() int {
	switch k {
	case MalformedRequestError, SchemaError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is returned by every relay operation. Message is safe to show the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a relay error. msg is shown to the client verbatim.
func NewError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// StatusOf maps any error to an HTTP status. Errors not produced by the relay
// are treated as internal failures.
func StatusOf(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind.StatusCode()
	}
	return http.StatusInternalServerError
}
