package visibility

import (
	"testing"

	"github.com/yungbote/mentorship-backend/internal/domain/access"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
)

func TestNextStatusModule(t *testing.T) {
	cases := map[access.Status]access.Status{
		access.StatusNone:      access.StatusUnlocked,
		access.StatusLocked:    access.StatusUnlocked,
		access.StatusUnlocked:  access.StatusLocked,
		access.StatusCompleted: access.StatusLocked,
	}
	for current, want := range cases {
		got, err := NextStatus(access.KindModule, current, access.StatusNone)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != want {
			t.Fatalf("current=%s want=%s got=%s", current, want, got)
		}
	}
}

func TestNextStatusLessonWithoutOverrideFlipsEffectiveState(t *testing.T) {
	for _, module := range allStatuses {
		next, err := NextStatus(access.KindLesson, access.StatusNone, module)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		before := IsLessonVisible(module, access.StatusNone)
		after := IsLessonVisible(module, next)
		if before == after {
			t.Fatalf("module=%s: toggle wrote %s and left visibility at %v", module, next, after)
		}
	}
}

// Two toggles return every (module, lesson) combination to its original
// effective state.
func TestToggleTwiceRestoresEffectiveState(t *testing.T) {
	for _, module := range allStatuses {
		for _, lesson := range allStatuses {
			start := IsLessonVisible(module, lesson)
			first, err := NextStatus(access.KindLesson, lesson, module)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			second, err := NextStatus(access.KindLesson, first, module)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got := IsLessonVisible(module, second); got != start {
				t.Fatalf("module=%s lesson=%s want=%v got=%v", module, lesson, start, got)
			}
		}

		first, _ := NextStatus(access.KindModule, module, access.StatusNone)
		second, _ := NextStatus(access.KindModule, first, access.StatusNone)
		if second.Open() != module.Open() {
			t.Fatalf("module=%s double toggle ended at %s", module, second)
		}
	}
}

func TestNextStatusUnknownKind(t *testing.T) {
	_, err := NextStatus(access.Kind("COURSE"), access.StatusNone, access.StatusNone)
	if !apperr.IsCode(err, apperr.CodeInvalidState) {
		t.Fatalf("want=%v got=%v", apperr.CodeInvalidState, apperr.CodeOf(err))
	}
}

func TestDesired(t *testing.T) {
	if _, err := Desired(access.KindModule, access.StatusNone); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("module NONE must be rejected, got=%v", err)
	}
	got, err := Desired(access.KindLesson, access.StatusNone)
	if err != nil || got != access.StatusNone {
		t.Fatalf("lesson NONE clears override: got=%s err=%v", got, err)
	}
	if _, err := Desired(access.Kind("x"), access.StatusLocked); !apperr.IsCode(err, apperr.CodeInvalidState) {
		t.Fatalf("want invalid_state got=%v", err)
	}
}

// A lesson inside an unlocked module with no override is visible; toggling it
// carves out a LOCKED exception while the module stays UNLOCKED.
func TestScenarioLockSingleLesson(t *testing.T) {
	module := access.StatusUnlocked
	if !IsLessonVisible(module, access.StatusNone) {
		t.Fatalf("lesson should start visible")
	}
	next, err := NextStatus(access.KindLesson, access.StatusNone, module)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next != access.StatusLocked {
		t.Fatalf("want=%s got=%s", access.StatusLocked, next)
	}
	if IsLessonVisible(module, next) {
		t.Fatalf("lesson should be hidden after toggle")
	}
}
