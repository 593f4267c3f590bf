package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeNotFound, Op: "submission.get", Message: "submission not found"}, "submission.get: submission not found (not_found)"},
		{&Error{Code: CodeForbidden, Op: "notify.mark"}, "notify.mark (forbidden)"},
		{&Error{Code: CodeValidation, Message: "feedback required"}, "feedback required (validation)"},
		{&Error{Code: CodeUpstream}, "upstream"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("want=%q got=%q", tc.want, got)
		}
	}
}

func TestWrapKeepsExistingCode(t *testing.T) {
	inner := InvalidState("grading.evaluate", "submission is not pending")
	wrapped := Wrap(CodeUpstream, "outer", fmt.Errorf("ctx: %w", inner))
	if got := CodeOf(wrapped); got != CodeInvalidState {
		t.Fatalf("want=%v got=%v", CodeInvalidState, got)
	}
	if Wrap(CodeUpstream, "op", nil) != nil {
		t.Fatalf("wrap of nil must be nil")
	}
}

func TestWrapPlainError(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeUpstream, "repo.save", cause)
	if !IsCode(err, CodeUpstream) {
		t.Fatalf("want upstream code, got=%v", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must unwrap")
	}
	if got := MessageOf(err); got != "boom" {
		t.Fatalf("want=%q got=%q", "boom", got)
	}
}

func TestCodeOfUnclassified(t *testing.T) {
	if got := CodeOf(errors.New("x")); got != "" {
		t.Fatalf("want empty code got=%v", got)
	}
}
