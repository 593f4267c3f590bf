package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/data/repos"
	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

func TestEvaluateApprovePromotesModuleAndNotifiesOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	testutil.SeedModuleAccess(t, h.db, mentee.ID, mod.ID, types.AccessUnlocked)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	res, err := h.grading.Evaluate(ctx, principal(mentor), sub.ID, types.DecisionApprove, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Submission.Status != types.SubmissionApproved {
		t.Fatalf("status: want=%v got=%v", types.SubmissionApproved, res.Submission.Status)
	}
	if !res.ModulePromoted || len(res.Anomalies) != 0 || len(res.FollowUpErrors) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	st, err := h.moduleAccess.Status(testDBC(), mentee.ID, mod.ID)
	if err != nil || st != types.AccessCompleted {
		t.Fatalf("module access: want=%v got=%v err=%v", types.AccessCompleted, st, err)
	}

	notes := h.notificationsFor(t, mentee)
	if len(notes) != 1 || notes[0].Type != types.NotificationSuccess {
		t.Fatalf("notifications: want=1 SUCCESS got=%+v", notes)
	}
	if notes[0].Link != "/modules/"+mod.ID.String() {
		t.Fatalf("link: want=/modules/%s got=%s", mod.ID, notes[0].Link)
	}
	if got := len(h.emit.events(realtime.SSEEventNotificationCreated)); got != 1 {
		t.Fatalf("sse notifications: want=1 got=%d", got)
	}
	if got := len(h.emit.events(realtime.SSEEventSubmissionEvaluated)); got != 1 {
		t.Fatalf("sse evaluated: want=1 got=%d", got)
	}

	stored, _ := h.submissions.GetByID(testDBC(), sub.ID)
	if stored.EvaluatedBy == nil || *stored.EvaluatedBy != mentor.ID || stored.EvaluatedAt == nil {
		t.Fatalf("evaluation fields not stored: %+v", stored)
	}
}

func TestEvaluateRejectKeepsAccessAndWarns(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	admin := testutil.SeedUser(t, h.db, "a@example.com", types.RoleAdmin)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	testutil.SeedModuleAccess(t, h.db, mentee.ID, mod.ID, types.AccessUnlocked)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	res, err := h.grading.Evaluate(ctx, principal(admin), sub.ID, types.DecisionReject, "  fix formatting ")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Submission.Status != types.SubmissionAdjustRequired || res.Submission.MentorFeedback != "fix formatting" {
		t.Fatalf("unexpected submission: %+v", res.Submission)
	}
	if res.ModulePromoted {
		t.Fatalf("reject must not promote")
	}
	st, _ := h.moduleAccess.Status(testDBC(), mentee.ID, mod.ID)
	if st != types.AccessUnlocked {
		t.Fatalf("module access: want=%v got=%v", types.AccessUnlocked, st)
	}
	notes := h.notificationsFor(t, mentee)
	if len(notes) != 1 || notes[0].Type != types.NotificationWarning {
		t.Fatalf("notifications: want=1 WARNING got=%+v", notes)
	}
}

func TestEvaluateRejectWithoutFeedbackIsRejected(t *testing.T) {
	h := newHarness(t)
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	_, err := h.grading.Evaluate(context.Background(), principal(mentor), sub.ID, types.DecisionReject, "   ")
	if !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("want=validation got=%v", err)
	}
	stored, _ := h.submissions.GetByID(testDBC(), sub.ID)
	if stored.Status != types.SubmissionPending {
		t.Fatalf("status: want=PENDING got=%v", stored.Status)
	}
	if n := len(h.notificationsFor(t, mentee)); n != 0 {
		t.Fatalf("notifications: want=0 got=%d", n)
	}
}

func TestEvaluateTwiceIsInvalidState(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	testutil.SeedModuleAccess(t, h.db, mentee.ID, mod.ID, types.AccessUnlocked)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	if _, err := h.grading.Evaluate(ctx, principal(mentor), sub.ID, types.DecisionApprove, ""); err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	_, err := h.grading.Evaluate(ctx, principal(mentor), sub.ID, types.DecisionReject, "late")
	if !apperr.IsCode(err, apperr.CodeInvalidState) {
		t.Fatalf("want=invalid_state got=%v", err)
	}
	if n := len(h.notificationsFor(t, mentee)); n != 1 {
		t.Fatalf("notifications: want=1 got=%d", n)
	}
}

func TestEvaluateApproveWithoutAccessRecordReportsAnomaly(t *testing.T) {
	h := newHarness(t)
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	res, err := h.grading.Evaluate(context.Background(), principal(mentor), sub.ID, types.DecisionApprove, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.ModulePromoted || len(res.Anomalies) != 1 {
		t.Fatalf("want one anomaly, got %+v", res)
	}
	st, _ := h.moduleAccess.Status(testDBC(), mentee.ID, mod.ID)
	if st != types.AccessNone {
		t.Fatalf("module access: want=NONE got=%v", st)
	}
	if res.Submission.Status != types.SubmissionApproved {
		t.Fatalf("status: want=APPROVED got=%v", res.Submission.Status)
	}
}

func TestEvaluateNotificationFailureKeepsDecision(t *testing.T) {
	h := newHarnessWith(t, harnessOptions{notifyRepo: failingNotificationRepo{}})
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	testutil.SeedModuleAccess(t, h.db, mentee.ID, mod.ID, types.AccessUnlocked)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	res, err := h.grading.Evaluate(context.Background(), principal(mentor), sub.ID, types.DecisionApprove, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.FollowUpErrors) != 1 || len(res.Notifications) != 0 {
		t.Fatalf("want one follow-up error, got %+v", res)
	}
	stored, _ := h.submissions.GetByID(testDBC(), sub.ID)
	if stored.Status != types.SubmissionApproved {
		t.Fatalf("status: want=APPROVED got=%v", stored.Status)
	}
	st, _ := h.moduleAccess.Status(testDBC(), mentee.ID, mod.ID)
	if st != types.AccessCompleted {
		t.Fatalf("module access: want=COMPLETED got=%v", st)
	}
}

func TestEvaluatePromotionFailureKeepsDecision(t *testing.T) {
	h := newHarnessWith(t, harnessOptions{moduleAccess: func(r repos.ModuleAccessRepo) repos.ModuleAccessRepo {
		return failingPromoteRepo{ModuleAccessRepo: r}
	}})
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	testutil.SeedModuleAccess(t, h.db, mentee.ID, mod.ID, types.AccessUnlocked)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	res, err := h.grading.Evaluate(context.Background(), principal(mentor), sub.ID, types.DecisionApprove, "")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.ModulePromoted || len(res.Anomalies) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.FollowUpErrors) != 1 || !strings.HasPrefix(res.FollowUpErrors[0], "module access:") {
		t.Fatalf("follow-up errors: want=[module access: ...] got=%v", res.FollowUpErrors)
	}
	stored, _ := h.submissions.GetByID(testDBC(), sub.ID)
	if stored.Status != types.SubmissionApproved {
		t.Fatalf("status: want=APPROVED got=%v", stored.Status)
	}
	st, _ := h.moduleAccess.Status(testDBC(), mentee.ID, mod.ID)
	if st != types.AccessUnlocked {
		t.Fatalf("module access: want=%v got=%v", types.AccessUnlocked, st)
	}
	notes := h.notificationsFor(t, mentee)
	if len(notes) != 1 || notes[0].Type != types.NotificationSuccess {
		t.Fatalf("notifications: want=1 SUCCESS got=%+v", notes)
	}
}

func TestEvaluateRequiresReviewerRole(t *testing.T) {
	h := newHarness(t)
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mod := testutil.SeedModule(t, h.db, "M", 1)
	sub := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)

	_, err := h.grading.Evaluate(context.Background(), principal(mentee), sub.ID, types.DecisionApprove, "")
	if !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("want=forbidden got=%v", err)
	}
}

func TestCreateSubmissionNotifiesMentorOnly(t *testing.T) {
	h := newHarness(t)
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	admin := testutil.SeedUser(t, h.db, "a@example.com", types.RoleAdmin)
	if _, err := h.users.UpdateMentor(testDBC(), mentee.ID, &mentor.ID); err != nil {
		t.Fatalf("UpdateMentor: %v", err)
	}
	mod := testutil.SeedModule(t, h.db, "M", 1)
	lesson := testutil.SeedLesson(t, h.db, mod.ID, "L", 1)

	sub, err := h.grading.CreateSubmission(context.Background(), principal(mentee), CreateSubmissionInput{
		ModuleID:    mod.ID,
		LessonID:    &lesson.ID,
		ArtifactRef: "https://drive.example.com/work",
	})
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if sub.Status != types.SubmissionPending {
		t.Fatalf("status: want=PENDING got=%v", sub.Status)
	}
	if n := len(h.notificationsFor(t, mentor)); n != 1 {
		t.Fatalf("mentor notifications: want=1 got=%d", n)
	}
	if n := len(h.notificationsFor(t, admin)); n != 0 {
		t.Fatalf("admin notifications: want=0 got=%d", n)
	}
}

func TestCreateSubmissionWithoutMentorNotifiesEveryAdmin(t *testing.T) {
	h := newHarness(t)
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	a1 := testutil.SeedUser(t, h.db, "a1@example.com", types.RoleAdmin)
	a2 := testutil.SeedUser(t, h.db, "a2@example.com", types.RoleAdmin)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)

	if _, err := h.grading.CreateSubmission(context.Background(), principal(mentee), CreateSubmissionInput{
		ModuleID:    mod.ID,
		ArtifactRef: "https://drive.example.com/work",
	}); err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	for _, a := range []*types.User{a1, a2} {
		if n := len(h.notificationsFor(t, a)); n != 1 {
			t.Fatalf("admin %s: want=1 got=%d", a.Email, n)
		}
	}
	if n := len(h.notificationsFor(t, mentor)); n != 0 {
		t.Fatalf("unassigned mentor: want=0 got=%d", n)
	}
}

func TestCreateSubmissionValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	other := testutil.SeedUser(t, h.db, "o@example.com", types.RoleMentee)
	m1 := testutil.SeedModule(t, h.db, "M1", 1)
	m2 := testutil.SeedModule(t, h.db, "M2", 2)
	foreign := testutil.SeedLesson(t, h.db, m2.ID, "L", 1)
	missing := uuid.New()

	cases := []struct {
		name string
		in   CreateSubmissionInput
		want apperr.Code
	}{
		{"empty ref", CreateSubmissionInput{ModuleID: m1.ID, ArtifactRef: " "}, apperr.CodeValidation},
		{"foreign artifact", CreateSubmissionInput{ModuleID: m1.ID, ArtifactRef: artifactPrefix + other.ID.String() + "/1-a.pdf"}, apperr.CodeValidation},
		{"not a link", CreateSubmissionInput{ModuleID: m1.ID, ArtifactRef: "javascript:alert(1)"}, apperr.CodeValidation},
		{"missing module", CreateSubmissionInput{ModuleID: missing, ArtifactRef: "https://x.test/a"}, apperr.CodeNotFound},
		{"lesson of other module", CreateSubmissionInput{ModuleID: m1.ID, LessonID: &foreign.ID, ArtifactRef: "https://x.test/a"}, apperr.CodeValidation},
		{"on behalf of another user", CreateSubmissionInput{UserID: other.ID, ModuleID: m1.ID, ArtifactRef: "https://x.test/a"}, apperr.CodeForbidden},
	}
	for _, tc := range cases {
		_, err := h.grading.CreateSubmission(ctx, principal(mentee), tc.in)
		if !apperr.IsCode(err, tc.want) {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, err)
		}
	}

	own := artifactPrefix + mentee.ID.String() + "/1-report.pdf"
	if _, err := h.grading.CreateSubmission(ctx, principal(mentee), CreateSubmissionInput{ModuleID: m1.ID, ArtifactRef: own}); err != nil {
		t.Fatalf("own artifact: %v", err)
	}
	sub, err := h.grading.CreateSubmission(ctx, principal(mentee), CreateSubmissionInput{UserID: mentee.ID, ModuleID: m1.ID, ArtifactRef: "https://x.test/a"})
	if err != nil || sub.UserID != mentee.ID {
		t.Fatalf("explicit self: sub=%+v err=%v", sub, err)
	}
}

func TestResubmissionKeepsHistoryAndCurrentIsNewest(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mentee := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	mod := testutil.SeedModule(t, h.db, "M", 1)

	first := testutil.SeedSubmission(t, h.db, mentee.ID, mod.ID, nil)
	h.db.Model(&types.Submission{}).Where("id = ?", first.ID).Update("created_at", time.Now().Add(-time.Hour))
	if _, err := h.grading.Evaluate(ctx, principal(mentor), first.ID, types.DecisionReject, "redo"); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := h.grading.CreateSubmission(ctx, principal(mentee), CreateSubmissionInput{ModuleID: mod.ID, ArtifactRef: "https://x.test/v2"})
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}

	history, err := h.grading.History(ctx, principal(mentee), mentee.ID)
	if err != nil || len(history) != 2 {
		t.Fatalf("History: want=2 got=%d err=%v", len(history), err)
	}
	cur, err := h.grading.Current(ctx, principal(mentee), mentee.ID, mod.ID, nil)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.ID != second.ID {
		t.Fatalf("current: want=%s got=%s", second.ID, cur.ID)
	}
	old, _ := h.submissions.GetByID(testDBC(), first.ID)
	if old.Status != types.SubmissionAdjustRequired || old.MentorFeedback != "redo" {
		t.Fatalf("history row changed: %+v", old)
	}
}

func TestReviewQueueScopesMentorsToMentees(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mentor := testutil.SeedUser(t, h.db, "m@example.com", types.RoleMentor)
	admin := testutil.SeedUser(t, h.db, "a@example.com", types.RoleAdmin)
	mine := testutil.SeedUser(t, h.db, "mine@example.com", types.RoleMentee)
	theirs := testutil.SeedUser(t, h.db, "theirs@example.com", types.RoleMentee)
	if _, err := h.users.UpdateMentor(testDBC(), mine.ID, &mentor.ID); err != nil {
		t.Fatalf("UpdateMentor: %v", err)
	}
	mod := testutil.SeedModule(t, h.db, "M", 1)
	testutil.SeedSubmission(t, h.db, mine.ID, mod.ID, nil)
	testutil.SeedSubmission(t, h.db, theirs.ID, mod.ID, nil)

	q, err := h.grading.ReviewQueue(ctx, principal(mentor), 0)
	if err != nil || len(q) != 1 || q[0].UserID != mine.ID {
		t.Fatalf("mentor queue: err=%v got=%+v", err, q)
	}
	q, err = h.grading.ReviewQueue(ctx, principal(admin), 0)
	if err != nil || len(q) != 2 {
		t.Fatalf("admin queue: want=2 got=%d err=%v", len(q), err)
	}

	if _, err := h.grading.History(ctx, principal(mentor), theirs.ID); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("foreign history: want=forbidden got=%v", err)
	}
	if _, err := h.grading.History(ctx, principal(mentor), mine.ID); err != nil {
		t.Fatalf("mentee history: %v", err)
	}
}
