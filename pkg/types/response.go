package types

import (
	"errors"
	"fmt"
)

// Document is a JSON-shaped resource representation: field name to a
// string, number, bool, nil, []any / []string, or nested Document / map.
type Document map[string]any

// ResponseSink receives the outcome of a resource operation. The resource
// layer decides what to answer; the sink owns the wire format.
type ResponseSink interface {
	// Respond sends a document with success status.
	Respond(doc Document) error

	// RespondCreated sends a newly created resource.
	RespondCreated(doc Document) error

	// RespondNoContent reports success with an empty body.
	RespondNoContent() error

	// RespondError reports a failure condition.
	RespondError(code ErrorCode, message string) error
}

// ErrorCode is the machine-readable condition of a failed request.
type ErrorCode string

const (
	ErrorCodeBadRequest ErrorCode = "badRequest"
	ErrorCodeNotFound   ErrorCode = "itemNotFound"
	ErrorCodeForbidden  ErrorCode = "accessDenied"
	ErrorCodeInternal   ErrorCode = "internalServerError"
)

// RequestError is a request the resource layer refuses to serve.
type RequestError struct {
	Code    ErrorCode
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// BadRequest returns a RequestError with ErrorCodeBadRequest.
func BadRequest(format string, args ...any) *RequestError {
	return &RequestError{Code: ErrorCodeBadRequest, Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports an input value that failed shape or format checks
// at the document boundary.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %q: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrorCodeOf classifies err for a ResponseSink.
func ErrorCodeOf(err error) ErrorCode {
	var reqErr *RequestError
	var valErr *ValidationError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Code
	case errors.As(err, &valErr):
		return ErrorCodeBadRequest
	case errors.Is(err, ErrNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, ErrPermission):
		return ErrorCodeForbidden
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrTypeMismatch):
		return ErrorCodeBadRequest
	default:
		return ErrorCodeInternal
	}
}

// ErrorMessageOf returns the message to show for err. Request errors carry
// their own message; everything else uses the error text.
func ErrorMessageOf(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}
