package access

import "strings"

// Status is the unlock state of a module or lesson for one user.
//
// StatusNone is the explicit "no record" variant: for a module it means no
// decision has been made (gated as locked), for a lesson it means the lesson
// inherits its module's state. It is never persisted.
type Status string

const (
	StatusNone      Status = "NONE"
	StatusLocked    Status = "LOCKED"
	StatusUnlocked  Status = "UNLOCKED"
	StatusCompleted Status = "COMPLETED"
)

func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToUpper(strings.TrimSpace(raw))); s {
	case StatusNone, StatusLocked, StatusUnlocked, StatusCompleted:
		return s, true
	case "":
		return StatusNone, true
	default:
		return "", false
	}
}

// Open reports UNLOCKED or COMPLETED.
func (s Status) Open() bool {
	return s == StatusUnlocked || s == StatusCompleted
}

// Persisted reports statuses that are stored as a row.
func (s Status) Persisted() bool {
	return s == StatusLocked || s == StatusUnlocked || s == StatusCompleted
}

// OrNone maps the zero value to StatusNone.
func (s Status) OrNone() Status {
	if s == "" {
		return StatusNone
	}
	return s
}

type Kind string

const (
	KindModule Kind = "MODULE"
	KindLesson Kind = "LESSON"
)

func ParseKind(raw string) (Kind, bool) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(raw))); k {
	case KindModule, KindLesson:
		return k, true
	default:
		return "", false
	}
}
