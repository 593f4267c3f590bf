package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/engine/visibility"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

type ToggleInput struct {
	UserID   uuid.UUID
	TargetID uuid.UUID
	Kind     types.AccessKind
	// Status is the explicit target; nil flips the current effective state.
	Status *types.AccessStatus
}

type ToggleResult struct {
	UserID   uuid.UUID          `json:"user_id"`
	TargetID uuid.UUID          `json:"target_id"`
	Kind     types.AccessKind   `json:"kind"`
	Previous types.AccessStatus `json:"previous"`
	Status   types.AccessStatus `json:"status"`
	// Visible is the lesson's effective visibility after the write; modules report Status.Open().
	Visible bool `json:"visible"`
}

type LessonDetail struct {
	Lesson       *types.Lesson      `json:"lesson"`
	ModuleStatus types.AccessStatus `json:"module_status"`
	Override     types.AccessStatus `json:"override"`
}

type AccessService interface {
	Toggle(ctx context.Context, p authz.Principal, in ToggleInput) (*ToggleResult, error)
	Visibility(ctx context.Context, p authz.Principal, userID uuid.UUID) ([]visibility.ModuleView, error)
	// Lesson returns a lesson the caller may open. Mentees only see visible lessons.
	Lesson(ctx context.Context, p authz.Principal, lessonID uuid.UUID) (*LessonDetail, error)
}

type accessService struct {
	log              *logger.Logger
	tx               db.TxRunner
	userRepo         repos.UserRepo
	moduleRepo       repos.ModuleRepo
	lessonRepo       repos.LessonRepo
	moduleAccessRepo repos.ModuleAccessRepo
	lessonAccessRepo repos.LessonAccessRepo
	emit             SSEEmitter
}

func NewAccessService(
	log *logger.Logger,
	tx db.TxRunner,
	userRepo repos.UserRepo,
	moduleRepo repos.ModuleRepo,
	lessonRepo repos.LessonRepo,
	moduleAccessRepo repos.ModuleAccessRepo,
	lessonAccessRepo repos.LessonAccessRepo,
	emit SSEEmitter,
) AccessService {
	return &accessService{
		log:              log.With("service", "AccessService"),
		tx:               tx,
		userRepo:         userRepo,
		moduleRepo:       moduleRepo,
		lessonRepo:       lessonRepo,
		moduleAccessRepo: moduleAccessRepo,
		lessonAccessRepo: lessonAccessRepo,
		emit:             emitterOrNoop(emit),
	}
}

func (s *accessService) Toggle(ctx context.Context, p authz.Principal, in ToggleInput) (*ToggleResult, error) {
	const op = "access.toggle"
	if err := authz.RequireRole(p, op, authz.Reviewers...); err != nil {
		return nil, err
	}
	if in.UserID == uuid.Nil || in.TargetID == uuid.Nil {
		return nil, apperr.Validation(op, "user_id and target_id are required")
	}
	kind, ok := types.ParseAccessKind(string(in.Kind))
	if !ok {
		return nil, apperr.InvalidState(op, "unknown access kind")
	}
	in.Kind = kind

	res := &ToggleResult{UserID: in.UserID, TargetID: in.TargetID, Kind: in.Kind}
	actor := p.UserID

	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.userRepo.GetByID(dbc, in.UserID); err != nil {
			return dberr.Map(op, err)
		}

		switch in.Kind {
		case types.KindModule:
			if _, err := s.moduleRepo.GetByID(dbc, in.TargetID); err != nil {
				return dberr.Map(op, err)
			}
			current, err := s.moduleAccessRepo.Status(dbc, in.UserID, in.TargetID)
			if err != nil {
				return dberr.Map(op, err)
			}
			next, err := s.target(in, current, types.AccessNone)
			if err != nil {
				return err
			}
			if _, err := s.moduleAccessRepo.Upsert(dbc, in.UserID, in.TargetID, next, &actor); err != nil {
				return dberr.Map(op, err)
			}
			res.Previous, res.Status, res.Visible = current, next, next.Open()

		case types.KindLesson:
			lesson, err := s.lessonRepo.GetByID(dbc, in.TargetID)
			if err != nil {
				return dberr.Map(op, err)
			}
			moduleStatus, err := s.moduleAccessRepo.Status(dbc, in.UserID, lesson.ModuleID)
			if err != nil {
				return dberr.Map(op, err)
			}
			current, err := s.lessonAccessRepo.Status(dbc, in.UserID, lesson.ID)
			if err != nil {
				return dberr.Map(op, err)
			}
			next, err := s.target(in, current, moduleStatus)
			if err != nil {
				return err
			}
			if next == types.AccessNone {
				err = s.lessonAccessRepo.Delete(dbc, in.UserID, lesson.ID)
			} else {
				_, err = s.lessonAccessRepo.Upsert(dbc, in.UserID, lesson.ID, next, &actor)
			}
			if err != nil {
				return dberr.Map(op, err)
			}
			res.Previous, res.Status = current, next
			res.Visible = visibility.IsLessonVisible(moduleStatus, next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Access toggled",
		"actor_id", actor, "user_id", in.UserID, "target_id", in.TargetID,
		"kind", in.Kind, "from", res.Previous, "to", res.Status)
	s.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(in.UserID),
		Event:   realtime.SSEEventAccessChanged,
		Data:    res,
	})
	return res, nil
}

func (s *accessService) target(in ToggleInput, current, inherited types.AccessStatus) (types.AccessStatus, error) {
	if in.Status != nil {
		return visibility.Desired(in.Kind, *in.Status)
	}
	return visibility.NextStatus(in.Kind, current, inherited)
}

func (s *accessService) Visibility(ctx context.Context, p authz.Principal, userID uuid.UUID) ([]visibility.ModuleView, error) {
	const op = "access.visibility"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	base := dbctx.Context{Ctx: ctx}
	target, err := s.userRepo.GetByID(base, userID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	if err := canReadFor(p, op, target); err != nil {
		return nil, err
	}

	var (
		modules  []*types.Module
		lessons  []*types.Lesson
		moduleSt map[uuid.UUID]types.AccessStatus
		lessonSt map[uuid.UUID]types.AccessStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dbc := dbctx.Context{Ctx: gctx}
		var err error
		if modules, err = s.moduleRepo.List(dbc); err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(modules))
		for _, m := range modules {
			ids = append(ids, m.ID)
		}
		lessons, err = s.lessonRepo.ListByModules(dbc, ids)
		return err
	})
	g.Go(func() error {
		var err error
		moduleSt, err = s.moduleAccessRepo.StatusesForUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		lessonSt, err = s.lessonAccessRepo.StatusesForUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dberr.Map(op, err)
	}

	in := visibility.Input{
		Modules:      make([]types.Module, 0, len(modules)),
		Lessons:      make([]types.Lesson, 0, len(lessons)),
		ModuleAccess: moduleSt,
		LessonAccess: lessonSt,
	}
	for _, m := range modules {
		in.Modules = append(in.Modules, *m)
	}
	for _, l := range lessons {
		in.Lessons = append(in.Lessons, *l)
	}
	return visibility.Resolve(in), nil
}

func (s *accessService) Lesson(ctx context.Context, p authz.Principal, lessonID uuid.UUID) (*LessonDetail, error) {
	const op = "access.lesson"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	lesson, err := s.lessonRepo.GetByID(dbc, lessonID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	moduleStatus, err := s.moduleAccessRepo.Status(dbc, p.UserID, lesson.ModuleID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	override, err := s.lessonAccessRepo.Status(dbc, p.UserID, lesson.ID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	if !p.Role.IsStaff() && !visibility.IsLessonVisible(moduleStatus, override) {
		return nil, apperr.Forbidden(op, "lesson is locked")
	}
	return &LessonDetail{Lesson: lesson, ModuleStatus: moduleStatus, Override: override}, nil
}

// canReadFor allows the user itself, their assigned mentor, and admins.
func canReadFor(p authz.Principal, op string, target *types.User) error {
	if p.UserID == target.ID || p.IsAdmin() {
		return nil
	}
	if p.Role == types.RoleMentor && target.MentorID != nil && *target.MentorID == p.UserID {
		return nil
	}
	return apperr.Forbidden(op, "not allowed to read this user's data")
}
