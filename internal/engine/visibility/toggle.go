package visibility

import (
	"fmt"

	"github.com/yungbote/mentorship-backend/internal/domain/access"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
)

// NextStatus returns the status a toggle writes for the target.
//
// A lesson without an override always flips its effective state: inside an
// open module the new override is LOCKED, otherwise UNLOCKED.
func NextStatus(kind access.Kind, current, inheritedModule access.Status) (access.Status, error) {
	switch kind {
	case access.KindModule:
		if current.OrNone().Open() {
			return access.StatusLocked, nil
		}
		return access.StatusUnlocked, nil
	case access.KindLesson:
		switch current.OrNone() {
		case access.StatusUnlocked, access.StatusCompleted:
			return access.StatusLocked, nil
		case access.StatusLocked:
			return access.StatusUnlocked, nil
		default:
			if inheritedModule.OrNone().Open() {
				return access.StatusLocked, nil
			}
			return access.StatusUnlocked, nil
		}
	default:
		return "", apperr.InvalidState("access.toggle", fmt.Sprintf("unknown access kind %q", kind))
	}
}

// Desired validates an explicit target status. NONE is only meaningful for a
// lesson, where it removes the override.
func Desired(kind access.Kind, status access.Status) (access.Status, error) {
	switch kind {
	case access.KindModule:
		if !status.Persisted() {
			return "", apperr.Validation("access.toggle", "module status must be LOCKED, UNLOCKED or COMPLETED")
		}
		return status, nil
	case access.KindLesson:
		if status.OrNone() == access.StatusNone {
			return access.StatusNone, nil
		}
		if !status.Persisted() {
			return "", apperr.Validation("access.toggle", fmt.Sprintf("unknown access status %q", status))
		}
		return status, nil
	default:
		return "", apperr.InvalidState("access.toggle", fmt.Sprintf("unknown access kind %q", kind))
	}
}
