// Package errors defines the application error type and the code-to-HTTP
// mapping used by every endpoint. Services return coded errors; the response
// layer translates them without inspecting error strings.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeIdempotency  Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit    Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"

	// Fulfillment pipeline rejections.
	CodeItemUnavailable    Code = "ITEM_UNAVAILABLE"
	CodeCredentialRequired Code = "CREDENTIAL_REQUIRED"
	CodeCredentialMismatch Code = "CREDENTIAL_MISMATCH"
	CodeOrderNotEligible   Code = "ORDER_NOT_ELIGIBLE"
)

// Metadata describes how a code surfaces over HTTP. DetailsAllowed gates
// whether structured details reach the client or stay in the logs.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

func meta(status int, retryable bool, message string, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		Retryable:      retryable,
		PublicMessage:  message,
		DetailsAllowed: detailsAllowed,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:         meta(http.StatusBadRequest, false, "validation failed", true),
	CodeUnauthorized:       meta(http.StatusUnauthorized, false, "authentication required", false),
	CodeForbidden:          meta(http.StatusForbidden, false, "access denied", false),
	CodeNotFound:           meta(http.StatusNotFound, false, "resource not found", false),
	CodeConflict:           meta(http.StatusConflict, false, "conflict detected", false),
	CodeIdempotency:        meta(http.StatusConflict, false, "idempotency key reused", true),
	CodeRateLimit:          meta(http.StatusTooManyRequests, true, "rate limit exceeded", false),
	CodeItemUnavailable:    meta(http.StatusConflict, false, "item unavailable", true),
	CodeCredentialRequired: meta(http.StatusUnprocessableEntity, false, "pickup code required", false),
	CodeCredentialMismatch: meta(http.StatusUnprocessableEntity, false, "pickup code does not match", false),
	CodeOrderNotEligible:   meta(http.StatusUnprocessableEntity, false, "order not eligible", true),
	CodeInternal:           meta(http.StatusInternalServerError, true, "internal server error", false),
	CodeDependency:         meta(http.StatusBadGateway, true, "upstream dependency failed", false),
}

// MetadataFor returns the registered metadata for code. Unknown codes map to
// internal, never to a leak of detail.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded application error. All methods tolerate a nil receiver so
// call sites can chain without guarding.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the first coded error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
