package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

const maxStudySession = 12 * time.Hour

type StudySessionInput struct {
	Title    string
	ModuleID *uuid.UUID
	StartsAt time.Time
	EndsAt   time.Time
}

type ScheduleService interface {
	Create(ctx context.Context, p authz.Principal, in StudySessionInput) (*types.StudySession, error)
	List(ctx context.Context, p authz.Principal, from, to time.Time) ([]*types.StudySession, error)
	Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error
}

type scheduleService struct {
	log        *logger.Logger
	repo       repos.StudySessionRepo
	moduleRepo repos.ModuleRepo
}

func NewScheduleService(log *logger.Logger, repo repos.StudySessionRepo, moduleRepo repos.ModuleRepo) ScheduleService {
	return &scheduleService{
		log:        log.With("service", "ScheduleService"),
		repo:       repo,
		moduleRepo: moduleRepo,
	}
}

func (s *scheduleService) Create(ctx context.Context, p authz.Principal, in StudySessionInput) (*types.StudySession, error) {
	const op = "schedule.create"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		return nil, apperr.Validation(op, "title is required")
	case in.StartsAt.IsZero() || in.EndsAt.IsZero():
		return nil, apperr.Validation(op, "starts_at and ends_at are required")
	case !in.EndsAt.After(in.StartsAt):
		return nil, apperr.Validation(op, "ends_at must be after starts_at")
	case in.EndsAt.Sub(in.StartsAt) > maxStudySession:
		return nil, apperr.Validation(op, "study session is too long")
	}

	dbc := dbctx.Context{Ctx: ctx}
	if in.ModuleID != nil {
		if _, err := s.moduleRepo.GetByID(dbc, *in.ModuleID); err != nil {
			return nil, dberr.Map(op, err)
		}
	}
	created, err := s.repo.Create(dbc, &types.StudySession{
		UserID:   p.UserID,
		ModuleID: in.ModuleID,
		Title:    title,
		StartsAt: in.StartsAt.UTC(),
		EndsAt:   in.EndsAt.UTC(),
	})
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return created, nil
}

func (s *scheduleService) List(ctx context.Context, p authz.Principal, from, to time.Time) ([]*types.StudySession, error) {
	const op = "schedule.list"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, apperr.Validation(op, "to must be after from")
	}
	rows, err := s.repo.ListInRange(dbctx.Context{Ctx: ctx}, p.UserID, from, to)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}

func (s *scheduleService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	const op = "schedule.delete"
	if err := authz.RequireAuth(p, op); err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.repo.GetByID(dbc, id)
	if err != nil {
		return dberr.Map(op, err)
	}
	if err := authz.RequireSelf(p, op, row.UserID); err != nil {
		return err
	}
	if _, err := s.repo.Delete(dbc, p.UserID, id); err != nil {
		return dberr.Map(op, err)
	}
	return nil
}
