package corspolicy

import (
	"errors"
	"fmt"
	"net/http"
)

// Reasons for which [*Policy.Evaluate] may reject a CORS request.
// Use [errors.Is] to test a [*RequestError] against them.
var (
	ErrBadOrigin         = errors.New("malformed origin")
	ErrOriginNotAllowed  = errors.New("origin not allowed")
	ErrBadRequestMethod  = errors.New("malformed requested method")
	ErrMethodNotAllowed  = errors.New("method not allowed")
	ErrBadRequestHeaders = errors.New("malformed requested headers")
	ErrHeadersNotAllowed = errors.New("header not allowed")
)

// A RequestError indicates that a CORS request was rejected.
// Contrary to configuration errors, request errors are per-request
// and harmless to the policy that produced them.
type RequestError struct {
	Kind  error  // one of the ErrXxx sentinel errors
	Value string // the offending request-header value (or element thereof)
}

func (err *RequestError) Error() string {
	const tmpl = "corspolicy: %v: %q"
	return fmt.Sprintf(tmpl, err.Kind, err.Value)
}

func (err *RequestError) Unwrap() error {
	return err.Kind
}

// Status returns the HTTP status code appropriate for responding to the
// rejected request: 400 (Bad Request) for malformed CORS request headers
// and 403 (Forbidden) for well-formed but disallowed ones.
func (err *RequestError) Status() int {
	switch err.Kind {
	case ErrBadOrigin, ErrBadRequestMethod, ErrBadRequestHeaders:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}

// Reason returns a short, stable, snake-case label for err's kind,
// suitable for use as a metric label.
func (err *RequestError) Reason() string {
	switch err.Kind {
	case ErrBadOrigin:
		return "bad_origin"
	case ErrOriginNotAllowed:
		return "origin_not_allowed"
	case ErrBadRequestMethod:
		return "bad_request_method"
	case ErrMethodNotAllowed:
		return "method_not_allowed"
	case ErrBadRequestHeaders:
		return "bad_request_headers"
	case ErrHeadersNotAllowed:
		return "headers_not_allowed"
	default:
		return "unknown"
	}
}

// statusOf returns the status code for rejecting a request because of err.
func statusOf(err error) int {
	var rerr *RequestError
	if errors.As(err, &rerr) {
		return rerr.Status()
	}
	return http.StatusInternalServerError
}
