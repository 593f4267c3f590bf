package workflow

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/domain/grading"
	"github.com/yungbote/mentorship-backend/internal/domain/notify"
	"github.com/yungbote/mentorship-backend/internal/domain/user"
)

func pendingSubmission() grading.Submission {
	return grading.Submission{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ModuleID:    uuid.New(),
		ArtifactRef: "https://example.test/work.zip",
		Status:      grading.StatusPending,
	}
}

func TestEvaluateApprove(t *testing.T) {
	sub := pendingSubmission()
	reviewer := uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tr, err := Evaluate(sub, grading.DecisionApprove, "", reviewer, now)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.To != grading.StatusApproved || !tr.PromoteModule {
		t.Fatalf("want approved+promote got=%s promote=%v", tr.To, tr.PromoteModule)
	}
	if len(tr.Outbox) != 1 {
		t.Fatalf("want=1 got=%d", len(tr.Outbox))
	}
	ev := tr.Outbox[0]
	if ev.RecipientID != sub.UserID || ev.Type != notify.TypeSuccess || ev.Title != TitleApproved {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Link != "/modules/"+sub.ModuleID.String() {
		t.Fatalf("want module link got=%s", ev.Link)
	}

	tr.Apply(&sub)
	if sub.Status != grading.StatusApproved || sub.EvaluatedBy == nil || *sub.EvaluatedBy != reviewer {
		t.Fatalf("apply did not stamp reviewer: %+v", sub)
	}
	if sub.EvaluatedAt == nil || !sub.EvaluatedAt.Equal(now) {
		t.Fatalf("want=%v got=%v", now, sub.EvaluatedAt)
	}
}

func TestEvaluateReject(t *testing.T) {
	sub := pendingSubmission()
	lesson := uuid.New()
	sub.LessonID = &lesson

	tr, err := Evaluate(sub, grading.DecisionReject, "  fix formatting ", uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.To != grading.StatusAdjustRequired || tr.PromoteModule {
		t.Fatalf("want adjust_required without promotion got=%s promote=%v", tr.To, tr.PromoteModule)
	}
	if tr.Feedback != "fix formatting" {
		t.Fatalf("want=%q got=%q", "fix formatting", tr.Feedback)
	}
	if len(tr.Outbox) != 1 || tr.Outbox[0].Type != notify.TypeWarning || tr.Outbox[0].Title != TitleAdjustRequested {
		t.Fatalf("unexpected outbox: %+v", tr.Outbox)
	}
	if !strings.HasSuffix(tr.Outbox[0].Link, "/lessons/"+lesson.String()) {
		t.Fatalf("want lesson deep link got=%s", tr.Outbox[0].Link)
	}
}

func TestEvaluateRejectRequiresFeedback(t *testing.T) {
	_, err := Evaluate(pendingSubmission(), grading.DecisionReject, "   ", uuid.New(), time.Now())
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("want=%v got=%v", apperr.CodeValidation, apperr.CodeOf(err))
	}
}

func TestEvaluateNonPending(t *testing.T) {
	for _, st := range []grading.Status{grading.StatusApproved, grading.StatusAdjustRequired} {
		sub := pendingSubmission()
		sub.Status = st
		_, err := Evaluate(sub, grading.DecisionApprove, "", uuid.New(), time.Now())
		if !apperr.IsCode(err, apperr.CodeInvalidState) {
			t.Fatalf("status=%s want=%v got=%v", st, apperr.CodeInvalidState, apperr.CodeOf(err))
		}
	}
}

func TestEvaluateUnknownDecision(t *testing.T) {
	_, err := Evaluate(pendingSubmission(), grading.Decision("MAYBE"), "", uuid.New(), time.Now())
	if !apperr.IsCode(err, apperr.CodeInvalidState) {
		t.Fatalf("want=%v got=%v", apperr.CodeInvalidState, apperr.CodeOf(err))
	}
}

func TestOnSubmissionCreatedPrefersMentor(t *testing.T) {
	sub := pendingSubmission()
	submitter := user.User{ID: sub.UserID, FirstName: "Ada", LastName: "L"}
	mentor := &user.User{ID: uuid.New(), Role: user.RoleMentor}
	admins := []user.User{{ID: uuid.New(), Role: user.RoleAdmin}, {ID: uuid.New(), Role: user.RoleAdmin}}

	out := OnSubmissionCreated(sub, submitter, mentor, admins)
	if len(out) != 1 || out[0].RecipientID != mentor.ID {
		t.Fatalf("want single mentor event got=%+v", out)
	}
	if !strings.Contains(out[0].Message, "Ada L") {
		t.Fatalf("message should name the submitter: %q", out[0].Message)
	}
}

func TestOnSubmissionCreatedFallsBackToAdmins(t *testing.T) {
	sub := pendingSubmission()
	a1 := user.User{ID: uuid.New(), Role: user.RoleAdmin}
	a2 := user.User{ID: uuid.New(), Role: user.RoleAdmin}
	notAdmin := user.User{ID: uuid.New(), Role: user.RoleSupport}

	out := OnSubmissionCreated(sub, user.User{ID: sub.UserID}, nil, []user.User{a1, a2, a1, notAdmin})
	if len(out) != 2 {
		t.Fatalf("want=2 got=%d", len(out))
	}
	if out[0].RecipientID != a1.ID || out[1].RecipientID != a2.ID {
		t.Fatalf("unexpected recipients: %v %v", out[0].RecipientID, out[1].RecipientID)
	}
	if got := OnSubmissionCreated(sub, user.User{}, nil, nil); len(got) != 0 {
		t.Fatalf("want=0 got=%d", len(got))
	}
}
