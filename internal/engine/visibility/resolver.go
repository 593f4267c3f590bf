package visibility

import (
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/access"
	"github.com/yungbote/mentorship-backend/internal/domain/catalog"
)

// IsLessonVisible applies the lesson override first and falls back to the
// module state when the lesson has no override. A NONE module gates as LOCKED.
func IsLessonVisible(moduleStatus, lessonStatus access.Status) bool {
	switch lessonStatus.OrNone() {
	case access.StatusUnlocked, access.StatusCompleted:
		return true
	case access.StatusLocked:
		return false
	default:
		return moduleStatus.OrNone().Open()
	}
}

// EmptyReason separates the two "nothing to show" outcomes of a module.
type EmptyReason string

const (
	EmptyNone      EmptyReason = ""
	EmptyNoLessons EmptyReason = "no_lessons"
	EmptyAllLocked EmptyReason = "all_locked"
)

type LessonView struct {
	Lesson   catalog.Lesson `json:"lesson"`
	Override access.Status  `json:"override"`
}

type ModuleView struct {
	Module       catalog.Module `json:"module"`
	Status       access.Status  `json:"status"`
	Lessons      []LessonView   `json:"lessons"`
	TotalLessons int            `json:"total_lessons"`
	EmptyReason  EmptyReason    `json:"empty_reason,omitempty"`
}

func (v ModuleView) Empty() bool { return len(v.Lessons) == 0 }

func emptyReason(v ModuleView) EmptyReason {
	switch {
	case v.TotalLessons == 0:
		return EmptyNoLessons
	case v.Empty():
		return EmptyAllLocked
	default:
		return EmptyNone
	}
}

// Input is one user's access state over a catalog slice. Missing map entries
// mean NONE.
type Input struct {
	Modules      []catalog.Module
	Lessons      []catalog.Lesson
	ModuleAccess map[uuid.UUID]access.Status
	LessonAccess map[uuid.UUID]access.Status
}

// Resolve builds the effective visibility set, one view per module ordered by
// position. Lessons whose module is not in the input are ignored.
func Resolve(in Input) []ModuleView {
	byModule := make(map[uuid.UUID][]catalog.Lesson, len(in.Modules))
	for _, l := range in.Lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}

	modules := append([]catalog.Module(nil), in.Modules...)
	sort.SliceStable(modules, func(i, j int) bool {
		if modules[i].Position != modules[j].Position {
			return modules[i].Position < modules[j].Position
		}
		return modules[i].Title < modules[j].Title
	})

	out := make([]ModuleView, 0, len(modules))
	for _, m := range modules {
		moduleStatus := in.ModuleAccess[m.ID].OrNone()
		lessons := byModule[m.ID]
		sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Position < lessons[j].Position })

		view := ModuleView{
			Module:       m,
			Status:       moduleStatus,
			Lessons:      make([]LessonView, 0, len(lessons)),
			TotalLessons: len(lessons),
		}
		for _, l := range lessons {
			override := in.LessonAccess[l.ID].OrNone()
			if IsLessonVisible(moduleStatus, override) {
				view.Lessons = append(view.Lessons, LessonView{Lesson: l, Override: override})
			}
		}
		view.EmptyReason = emptyReason(view)
		out = append(out, view)
	}
	return out
}
