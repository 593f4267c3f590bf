package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Code standardizes failure semantics across services and the engine.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeForbidden    Code = "forbidden"
	CodeInvalidState Code = "invalid_state"
	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeConflict     Code = "conflict"
	CodeUpstream     Code = "upstream"
)

type Error struct {
	Code    Code
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with code; an already classified error keeps its code.
func Wrap(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return New(code, op, err.Error(), err)
}

func NotFound(op, message string) error     { return New(CodeNotFound, op, message, nil) }
func Forbidden(op, message string) error    { return New(CodeForbidden, op, message, nil) }
func InvalidState(op, message string) error { return New(CodeInvalidState, op, message, nil) }
func Validation(op, message string) error   { return New(CodeValidation, op, message, nil) }
func Unauthorized(op, message string) error { return New(CodeUnauthorized, op, message, nil) }

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code when available.
func CodeOf(err error) Code {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return ""
	}
	return appErr.Code
}

// MessageOf returns the bare message without op or code decoration.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
