package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeInvalidState, apperr.CodeConflict:
		return http.StatusConflict
	case apperr.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// From converts any error into an *Error. Unclassified errors become 500.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := apperr.CodeOf(err)
	if code == "" {
		return New(http.StatusInternalServerError, "internal", err)
	}
	return New(StatusFor(code), string(code), err)
}
