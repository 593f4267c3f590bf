package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/engine/workflow"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

type CreateSubmissionInput struct {
	// UserID is optional; when set it must name the caller.
	UserID      uuid.UUID
	ModuleID    uuid.UUID
	LessonID    *uuid.UUID
	ArtifactRef string
}

// EvaluateResult reports the committed decision plus any best-effort
// follow-up that did not land.
type EvaluateResult struct {
	Submission     *types.Submission     `json:"submission"`
	ModulePromoted bool                  `json:"module_promoted"`
	Notifications  []*types.Notification `json:"notifications"`
	Anomalies      []string              `json:"anomalies,omitempty"`
	FollowUpErrors []string              `json:"follow_up_errors,omitempty"`
}

type GradingService interface {
	CreateSubmission(ctx context.Context, p authz.Principal, in CreateSubmissionInput) (*types.Submission, error)
	Evaluate(ctx context.Context, p authz.Principal, submissionID uuid.UUID, decision types.Decision, feedback string) (*EvaluateResult, error)
	History(ctx context.Context, p authz.Principal, userID uuid.UUID) ([]*types.Submission, error)
	Current(ctx context.Context, p authz.Principal, userID, moduleID uuid.UUID, lessonID *uuid.UUID) (*types.Submission, error)
	ReviewQueue(ctx context.Context, p authz.Principal, limit int) ([]*types.Submission, error)
}

type gradingService struct {
	log              *logger.Logger
	tx               db.TxRunner
	userRepo         repos.UserRepo
	moduleRepo       repos.ModuleRepo
	lessonRepo       repos.LessonRepo
	submissionRepo   repos.SubmissionRepo
	moduleAccessRepo repos.ModuleAccessRepo
	notifications    NotificationService
	emit             SSEEmitter
	now              func() time.Time
}

func NewGradingService(
	log *logger.Logger,
	tx db.TxRunner,
	userRepo repos.UserRepo,
	moduleRepo repos.ModuleRepo,
	lessonRepo repos.LessonRepo,
	submissionRepo repos.SubmissionRepo,
	moduleAccessRepo repos.ModuleAccessRepo,
	notifications NotificationService,
	emit SSEEmitter,
) GradingService {
	return &gradingService{
		log:              log.With("service", "GradingService"),
		tx:               tx,
		userRepo:         userRepo,
		moduleRepo:       moduleRepo,
		lessonRepo:       lessonRepo,
		submissionRepo:   submissionRepo,
		moduleAccessRepo: moduleAccessRepo,
		notifications:    notifications,
		emit:             emitterOrNoop(emit),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *gradingService) CreateSubmission(ctx context.Context, p authz.Principal, in CreateSubmissionInput) (*types.Submission, error) {
	const op = "grading.create_submission"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	if in.UserID != uuid.Nil {
		if err := authz.RequireSelf(p, op, in.UserID); err != nil {
			return nil, err
		}
	}
	ref := strings.TrimSpace(in.ArtifactRef)
	if ref == "" {
		return nil, apperr.Validation(op, "artifact_ref is required")
	}
	if !artifactRefAllowed(p.UserID, ref) {
		return nil, apperr.Validation(op, "artifact_ref must be an uploaded artifact of yours or an http(s) link")
	}
	if in.ModuleID == uuid.Nil {
		return nil, apperr.Validation(op, "module_id is required")
	}

	var (
		sub     *types.Submission
		created []*types.Notification
	)
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.moduleRepo.GetByID(dbc, in.ModuleID); err != nil {
			return dberr.Map(op, err)
		}
		if in.LessonID != nil {
			lesson, err := s.lessonRepo.GetByID(dbc, *in.LessonID)
			if err != nil {
				return dberr.Map(op, err)
			}
			if lesson.ModuleID != in.ModuleID {
				return apperr.Validation(op, "lesson does not belong to module")
			}
		}
		submitter, err := s.userRepo.GetByID(dbc, p.UserID)
		if err != nil {
			return dberr.Map(op, err)
		}

		sub, err = s.submissionRepo.Create(dbc, &types.Submission{
			UserID:      p.UserID,
			ModuleID:    in.ModuleID,
			LessonID:    in.LessonID,
			ArtifactRef: ref,
			Status:      types.SubmissionPending,
		})
		if err != nil {
			return dberr.Map(op, err)
		}

		if nerr := s.tx.Nested(dbc, func(inner dbctx.Context) error {
			events, err := s.reviewerEvents(inner, *sub, submitter)
			if err != nil {
				return err
			}
			rows, err := s.notifications.Persist(inner, events)
			created = rows
			return err
		}); nerr != nil {
			created = nil
			s.log.Error("Submission notification failed", "submission_id", sub.ID, "error", nerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Publish(ctx, created)
	return sub, nil
}

// reviewerEvents picks the assigned mentor, falling back to every admin.
func (s *gradingService) reviewerEvents(dbc dbctx.Context, sub types.Submission, submitter *types.User) ([]types.NotificationEvent, error) {
	var mentor *types.User
	if submitter.MentorID != nil {
		m, err := s.userRepo.GetByID(dbc, *submitter.MentorID)
		switch {
		case err == nil:
			mentor = m
		case dberr.NotFound(err):
			s.log.Warn("Assigned mentor missing; notifying admins", "user_id", submitter.ID, "mentor_id", *submitter.MentorID)
		default:
			return nil, err
		}
	}
	var admins []types.User
	if mentor == nil {
		rows, err := s.userRepo.ListByRole(dbc, types.RoleAdmin)
		if err != nil {
			return nil, err
		}
		for _, a := range rows {
			admins = append(admins, *a)
		}
	}
	return workflow.OnSubmissionCreated(sub, *submitter, mentor, admins), nil
}

func (s *gradingService) Evaluate(ctx context.Context, p authz.Principal, submissionID uuid.UUID, decision types.Decision, feedback string) (*EvaluateResult, error) {
	const op = "grading.evaluate"
	if err := authz.RequireRole(p, op, authz.Reviewers...); err != nil {
		return nil, err
	}

	out := &EvaluateResult{}
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		sub, err := s.submissionRepo.GetByID(dbc, submissionID)
		if err != nil {
			return dberr.Map(op, err)
		}
		tr, err := workflow.Evaluate(*sub, decision, feedback, p.UserID, s.now())
		if err != nil {
			return err
		}

		rows, err := s.submissionRepo.MarkEvaluated(dbc, sub.ID, repos.SubmissionEvaluation{
			Status:      tr.To,
			Feedback:    tr.Feedback,
			EvaluatedBy: tr.EvaluatedBy,
			EvaluatedAt: tr.EvaluatedAt,
		})
		if err != nil {
			return dberr.Map(op, err)
		}
		if rows == 0 {
			return apperr.InvalidState(op, "submission was evaluated concurrently")
		}
		tr.Apply(sub)
		out.Submission = sub

		if tr.PromoteModule {
			s.promote(dbc, tr, out)
		}

		if nerr := s.tx.Nested(dbc, func(inner dbctx.Context) error {
			rows, err := s.notifications.Persist(inner, tr.Outbox)
			out.Notifications = rows
			return err
		}); nerr != nil {
			out.Notifications = nil
			out.FollowUpErrors = append(out.FollowUpErrors, fmt.Sprintf("notification: %v", nerr))
			s.log.Error("Evaluation notification failed", "submission_id", sub.ID, "error", nerr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Submission evaluated",
		"submission_id", out.Submission.ID, "reviewer_id", p.UserID,
		"status", out.Submission.Status, "module_promoted", out.ModulePromoted)
	s.notifications.Publish(ctx, out.Notifications)
	s.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(out.Submission.UserID),
		Event:   realtime.SSEEventSubmissionEvaluated,
		Data:    map[string]any{"submission": out.Submission},
	})
	return out, nil
}

// promote runs in a savepoint so a failure leaves the decision committed.
func (s *gradingService) promote(dbc dbctx.Context, tr workflow.Transition, out *EvaluateResult) {
	reviewer := tr.EvaluatedBy
	var matched int64
	err := s.tx.Nested(dbc, func(inner dbctx.Context) error {
		n, err := s.moduleAccessRepo.PromoteIfExists(inner, tr.UserID, tr.ModuleID, &reviewer)
		matched = n
		return err
	})
	switch {
	case err != nil:
		out.FollowUpErrors = append(out.FollowUpErrors, fmt.Sprintf("module access: %v", err))
		s.log.Error("Module promotion failed", "submission_id", tr.SubmissionID, "user_id", tr.UserID, "module_id", tr.ModuleID, "error", err)
	case matched == 0:
		msg := fmt.Sprintf("no module access record for user %s in module %s", tr.UserID, tr.ModuleID)
		out.Anomalies = append(out.Anomalies, msg)
		s.log.Warn("Approved submission without module access record", "submission_id", tr.SubmissionID, "user_id", tr.UserID, "module_id", tr.ModuleID)
	default:
		out.ModulePromoted = true
	}
}

func (s *gradingService) History(ctx context.Context, p authz.Principal, userID uuid.UUID) ([]*types.Submission, error) {
	const op = "grading.history"
	if err := s.authorizeRead(ctx, p, op, userID); err != nil {
		return nil, err
	}
	rows, err := s.submissionRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}

func (s *gradingService) Current(ctx context.Context, p authz.Principal, userID, moduleID uuid.UUID, lessonID *uuid.UUID) (*types.Submission, error) {
	const op = "grading.current"
	if err := s.authorizeRead(ctx, p, op, userID); err != nil {
		return nil, err
	}
	sub, err := s.submissionRepo.Current(dbctx.Context{Ctx: ctx}, userID, moduleID, lessonID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return sub, nil
}

func (s *gradingService) ReviewQueue(ctx context.Context, p authz.Principal, limit int) ([]*types.Submission, error) {
	const op = "grading.review_queue"
	if err := authz.RequireRole(p, op, authz.Reviewers...); err != nil {
		return nil, err
	}
	filter := repos.SubmissionQueueFilter{Limit: limit}
	if !p.IsAdmin() {
		mentorID := p.UserID
		filter.MentorID = &mentorID
	}
	rows, err := s.submissionRepo.ListPending(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}

func (s *gradingService) authorizeRead(ctx context.Context, p authz.Principal, op string, userID uuid.UUID) error {
	if err := authz.RequireAuth(p, op); err != nil {
		return err
	}
	if p.UserID == userID || p.IsAdmin() {
		return nil
	}
	target, err := s.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return dberr.Map(op, err)
	}
	return canReadFor(p, op, target)
}
