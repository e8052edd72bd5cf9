// Package errs defines the pipeline error taxonomy and its HTTP mapping.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindValidation marks malformed or missing input, detected before any
	// external call.
	KindValidation Kind = iota
	// KindExtraction marks adapter output that could not be parsed against
	// the expected schema, after retries were exhausted.
	KindExtraction
	// KindNotFound marks a referenced record that does not exist or is not
	// owned by the caller.
	KindNotFound
	// KindConflict marks a single-flight violation: a concurrent run for
	// the same (resume, job) pair.
	KindConflict
	// KindRateLimit marks a caller that exceeded its request quota.
	KindRateLimit
	// KindPersistence marks a storage write that failed after a valid
	// computation. Never retried automatically.
	KindPersistence
)

// Error is a classified pipeline error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Extraction(msg string, err error) *Error {
	return &Error{Kind: KindExtraction, Message: msg, Err: err}
}

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

func RateLimit(msg string) *Error { return &Error{Kind: KindRateLimit, Message: msg} }

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

// IsKind reports whether err is (or wraps) a pipeline error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// HTTPStatus returns the HTTP status for err, defaulting to 500 for
// unclassified errors.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}
