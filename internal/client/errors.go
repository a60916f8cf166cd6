package client

import (
	"errors"
	"fmt"

	"github.com/callminder/callminder/internal/domain"
)

// Kind classifies a normalized gateway error so callers can distinguish
// "retry might help" from "fix your input".
type Kind string

const (
	// KindTransport covers network-level failures and malformed responses:
	// unreachable host, timeout, undecodable body.
	KindTransport Kind = "transport"
	// KindNotFound means the referenced record no longer exists server-side.
	KindNotFound Kind = "not_found"
	// KindServerRejected means a well-formed request was rejected by
	// server-side validation; Message carries the server's wording verbatim.
	KindServerRejected Kind = "server_rejected"
)

// RequestError is the single error shape every network-origin failure is
// normalized into.
type RequestError struct {
	Kind       Kind
	StatusCode int
	Message    string
	cause      error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.cause
}

func (e *RequestError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Kind == KindNotFound
}

func transportError(msg string, cause error) *RequestError {
	return &RequestError{Kind: KindTransport, Message: msg, cause: cause}
}

// IsTransport reports whether err is a network-level failure worth retrying.
func IsTransport(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindTransport
}

// IsServerRejected reports whether err is a server-side validation rejection.
func IsServerRejected(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindServerRejected
}
