package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/domain/grading"
	"github.com/yungbote/mentorship-backend/internal/domain/notify"
	"github.com/yungbote/mentorship-backend/internal/domain/user"
)

const (
	TitleApproved        = "Assignment approved"
	TitleAdjustRequested = "Adjustment requested"
	TitleNewSubmission   = "New submission to review"
)

// Transition is the result of a reviewer decision on one submission.
type Transition struct {
	SubmissionID uuid.UUID
	UserID       uuid.UUID
	ModuleID     uuid.UUID
	LessonID     *uuid.UUID

	From        grading.Status
	To          grading.Status
	Feedback    string
	EvaluatedBy uuid.UUID
	EvaluatedAt time.Time

	// PromoteModule asks the caller to set ModuleAccess(user, module) to COMPLETED.
	PromoteModule bool
	Outbox        []notify.Event
}

// Evaluate applies decision to a PENDING submission.
func Evaluate(sub grading.Submission, decision grading.Decision, feedback string, reviewer uuid.UUID, now time.Time) (Transition, error) {
	const op = "grading.evaluate"
	if sub.Status != grading.StatusPending {
		return Transition{}, apperr.InvalidState(op, fmt.Sprintf("submission is %s, not PENDING", sub.Status))
	}
	feedback = strings.TrimSpace(feedback)

	t := Transition{
		SubmissionID: sub.ID,
		UserID:       sub.UserID,
		ModuleID:     sub.ModuleID,
		LessonID:     sub.LessonID,
		From:         sub.Status,
		Feedback:     feedback,
		EvaluatedBy:  reviewer,
		EvaluatedAt:  now.UTC(),
	}
	link := ModuleLink(sub.ModuleID, sub.LessonID)
	data := map[string]any{
		"submission_id": sub.ID.String(),
		"module_id":     sub.ModuleID.String(),
		"decision":      string(decision),
	}
	if sub.LessonID != nil {
		data["lesson_id"] = sub.LessonID.String()
	}

	switch decision {
	case grading.DecisionApprove:
		t.To = grading.StatusApproved
		t.PromoteModule = true
		msg := "Your assignment was approved and the module is now complete."
		if feedback != "" {
			msg = fmt.Sprintf("%s Feedback: %s", msg, feedback)
		}
		t.Outbox = []notify.Event{{
			RecipientID: sub.UserID,
			Title:       TitleApproved,
			Message:     msg,
			Type:        notify.TypeSuccess,
			Link:        link,
			Data:        data,
		}}
	case grading.DecisionReject:
		if feedback == "" {
			return Transition{}, apperr.Validation(op, "feedback is required when requesting an adjustment")
		}
		t.To = grading.StatusAdjustRequired
		t.Outbox = []notify.Event{{
			RecipientID: sub.UserID,
			Title:       TitleAdjustRequested,
			Message:     fmt.Sprintf("Your mentor asked for changes: %s", feedback),
			Type:        notify.TypeWarning,
			Link:        link,
			Data:        data,
		}}
	default:
		return Transition{}, apperr.InvalidState(op, fmt.Sprintf("unknown decision %q", decision))
	}
	return t, nil
}

// Apply copies the transition onto sub.
func (t Transition) Apply(sub *grading.Submission) {
	if sub == nil {
		return
	}
	reviewer := t.EvaluatedBy
	at := t.EvaluatedAt
	sub.Status = t.To
	sub.MentorFeedback = t.Feedback
	sub.EvaluatedBy = &reviewer
	sub.EvaluatedAt = &at
}

// OnSubmissionCreated notifies the submitter's mentor, or every admin when
// no mentor is assigned. Never both.
func OnSubmissionCreated(sub grading.Submission, submitter user.User, mentor *user.User, admins []user.User) []notify.Event {
	name := submitter.FullName()
	if name == "" {
		name = "A mentee"
	}
	ev := notify.Event{
		Title:   TitleNewSubmission,
		Message: fmt.Sprintf("%s submitted an assignment for review.", name),
		Type:    notify.TypeInfo,
		Link:    ReviewLink(sub.ID),
		Data: map[string]any{
			"submission_id": sub.ID.String(),
			"module_id":     sub.ModuleID.String(),
			"submitter_id":  submitter.ID.String(),
		},
	}

	if mentor != nil && mentor.ID != uuid.Nil {
		ev.RecipientID = mentor.ID
		return []notify.Event{ev}
	}
	out := make([]notify.Event, 0, len(admins))
	seen := make(map[uuid.UUID]bool, len(admins))
	for _, a := range admins {
		if a.ID == uuid.Nil || seen[a.ID] || a.Role != user.RoleAdmin {
			continue
		}
		seen[a.ID] = true
		e := ev
		e.RecipientID = a.ID
		out = append(out, e)
	}
	return out
}
