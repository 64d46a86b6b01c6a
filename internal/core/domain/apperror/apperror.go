package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the stable numeric error code carried in every JSON error envelope.
// The numeric values are a compatibility contract with API clients; codes
// partition into ranges: generic (0-199), transaction (1000-1999), generation
// (1100+), Mihomo (2000-2099) and HoYoLAB (2100-2199).
type Code int

const (
	CodeSuccess         Code = 0
	CodeInvalidLang     Code = 100
	CodeMissingUID      Code = 101
	CodeMissingToken    Code = 102
	CodeMissingUIDToken Code = 103
	CodeInvalidIndex    Code = 104
	CodeInvalidSecret   Code = 105

	CodeTRInvalidToken       Code = 1000
	CodeTRFailedVerification Code = 1001

	CodeGenFailure Code = 1100

	CodeMihomoError            Code = 2000
	CodeMihomoUIDNotFound      Code = 2001
	CodeMihomoInvalidCharacter Code = 2002

	CodeHoyolabError            Code = 2100
	CodeHoyolabDataNotPublic    Code = 2101
	CodeHoyolabAccountNotFound  Code = 2102
	CodeHoyolabInvalidCookies   Code = 2103
	CodeHoyolabSimuUnknownKind  Code = 2104
	CodeHoyolabSimuNoRecords    Code = 2105
	CodeHoyolabSimuInvalidIndex Code = 2106
)

// Error is the failure type returned by every orchestration-layer operation.
// It carries everything the HTTP layer needs to build the JSON envelope so
// handlers never branch on concrete upstream error identity.
type Error struct {
	Code    Code
	Message string
	Status  int
	Data    any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (code %d): %v", e.Message, e.Code, e.cause)
	}
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches the underlying error for logging; the cause is never
// serialized into the client envelope unless error details are enabled.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

// New builds an Error with an explicit HTTP status.
func New(code Code, status int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Status: status}
}

// BadRequest, Forbidden and Internal cover the three statuses the taxonomy
// actually uses; anything else goes through New.
func BadRequest(code Code, format string, args ...any) *Error {
	return New(code, http.StatusBadRequest, format, args...)
}

func Forbidden(code Code, format string, args ...any) *Error {
	return New(code, http.StatusForbidden, format, args...)
}

func Internal(code Code, format string, args ...any) *Error {
	return New(code, http.StatusInternalServerError, format, args...)
}

// From extracts an *Error from err, or wraps an unexpected failure as a
// generic internal generation failure.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(CodeGenFailure, "an unexpected error occurred").WithCause(err)
}
