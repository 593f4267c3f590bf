package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type ModuleOutline struct {
	*types.Module
	Lessons []*types.Lesson `json:"lessons"`
}

type ModulePatch struct {
	Title       *string
	Description *string
	Position    *int
}

type LessonPatch struct {
	Title       *string
	Position    *int
	VideoRef    *string
	Content     *string
	Tasks       *string
	MaterialRef *string
}

// ModuleSeed is one curriculum entry of a seed file.
type ModuleSeed struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Position    int          `yaml:"position"`
	Lessons     []LessonSeed `yaml:"lessons"`
}

type LessonSeed struct {
	Title       string `yaml:"title"`
	Position    int    `yaml:"position"`
	VideoRef    string `yaml:"video_ref"`
	Content     string `yaml:"content"`
	Tasks       string `yaml:"tasks"`
	MaterialRef string `yaml:"material_ref"`
}

type ImportStats struct {
	ModulesCreated int `json:"modules_created"`
	ModulesUpdated int `json:"modules_updated"`
	LessonsCreated int `json:"lessons_created"`
	LessonsUpdated int `json:"lessons_updated"`
}

type CatalogService interface {
	ListModules(ctx context.Context, p authz.Principal) ([]ModuleOutline, error)
	ListLessons(ctx context.Context, p authz.Principal, moduleID uuid.UUID) ([]*types.Lesson, error)

	CreateModule(ctx context.Context, p authz.Principal, m types.Module) (*types.Module, error)
	UpdateModule(ctx context.Context, p authz.Principal, moduleID uuid.UUID, patch ModulePatch) (*types.Module, error)
	DeleteModule(ctx context.Context, p authz.Principal, moduleID uuid.UUID) error
	CreateLesson(ctx context.Context, p authz.Principal, moduleID uuid.UUID, l types.Lesson) (*types.Lesson, error)
	UpdateLesson(ctx context.Context, p authz.Principal, lessonID uuid.UUID, patch LessonPatch) (*types.Lesson, error)
	DeleteLesson(ctx context.Context, p authz.Principal, lessonID uuid.UUID) error

	// Import upserts modules by title and lessons by (module, title).
	Import(ctx context.Context, seeds []ModuleSeed) (*ImportStats, error)
}

type catalogService struct {
	log        *logger.Logger
	tx         db.TxRunner
	moduleRepo repos.ModuleRepo
	lessonRepo repos.LessonRepo
}

func NewCatalogService(log *logger.Logger, tx db.TxRunner, moduleRepo repos.ModuleRepo, lessonRepo repos.LessonRepo) CatalogService {
	return &catalogService{
		log:        log.With("service", "CatalogService"),
		tx:         tx,
		moduleRepo: moduleRepo,
		lessonRepo: lessonRepo,
	}
}

func (s *catalogService) ListModules(ctx context.Context, p authz.Principal) ([]ModuleOutline, error) {
	const op = "catalog.list_modules"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	modules, err := s.moduleRepo.List(dbc)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	ids := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	lessons, err := s.lessonRepo.ListByModules(dbc, ids)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	byModule := make(map[uuid.UUID][]*types.Lesson, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}
	out := make([]ModuleOutline, 0, len(modules))
	for _, m := range modules {
		ls := byModule[m.ID]
		if ls == nil {
			ls = []*types.Lesson{}
		}
		out = append(out, ModuleOutline{Module: m, Lessons: ls})
	}
	return out, nil
}

func (s *catalogService) ListLessons(ctx context.Context, p authz.Principal, moduleID uuid.UUID) ([]*types.Lesson, error) {
	const op = "catalog.list_lessons"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.moduleRepo.GetByID(dbc, moduleID); err != nil {
		return nil, dberr.Map(op, err)
	}
	rows, err := s.lessonRepo.ListByModule(dbc, moduleID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}

func (s *catalogService) CreateModule(ctx context.Context, p authz.Principal, m types.Module) (*types.Module, error) {
	const op = "catalog.create_module"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, err
	}
	m.ID = uuid.Nil
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return nil, apperr.Validation(op, "title is required")
	}
	created, err := s.moduleRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Module{&m})
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return created[0], nil
}

func (s *catalogService) UpdateModule(ctx context.Context, p authz.Principal, moduleID uuid.UUID, patch ModulePatch) (*types.Module, error) {
	const op = "catalog.update_module"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, apperr.Validation(op, "title cannot be empty")
		}
		fields["title"] = t
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Position != nil {
		fields["position"] = *patch.Position
	}

	var out *types.Module
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if len(fields) > 0 {
			n, err := s.moduleRepo.Update(dbc, moduleID, fields)
			if err != nil {
				return dberr.Map(op, err)
			}
			if n == 0 {
				return apperr.NotFound(op, "module not found")
			}
		}
		m, err := s.moduleRepo.GetByID(dbc, moduleID)
		if err != nil {
			return dberr.Map(op, err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *catalogService) DeleteModule(ctx context.Context, p authz.Principal, moduleID uuid.UUID) error {
	const op = "catalog.delete_module"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return err
	}
	n, err := s.moduleRepo.Delete(dbctx.Context{Ctx: ctx}, moduleID)
	if err != nil {
		return dberr.Map(op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, "module not found")
	}
	s.log.Info("Module deleted", "actor_id", p.UserID, "module_id", moduleID)
	return nil
}

func (s *catalogService) CreateLesson(ctx context.Context, p authz.Principal, moduleID uuid.UUID, l types.Lesson) (*types.Lesson, error) {
	const op = "catalog.create_lesson"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, err
	}
	l.ID = uuid.Nil
	l.ModuleID = moduleID
	l.Title = strings.TrimSpace(l.Title)
	if l.Title == "" {
		return nil, apperr.Validation(op, "title is required")
	}
	var out *types.Lesson
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.moduleRepo.GetByID(dbc, moduleID); err != nil {
			return dberr.Map(op, err)
		}
		created, err := s.lessonRepo.Create(dbc, []*types.Lesson{&l})
		if err != nil {
			return dberr.Map(op, err)
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *catalogService) UpdateLesson(ctx context.Context, p authz.Principal, lessonID uuid.UUID, patch LessonPatch) (*types.Lesson, error) {
	const op = "catalog.update_lesson"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, apperr.Validation(op, "title cannot be empty")
		}
		fields["title"] = t
	}
	if patch.Position != nil {
		fields["position"] = *patch.Position
	}
	for col, v := range map[string]*string{
		"video_ref":    patch.VideoRef,
		"content":      patch.Content,
		"tasks":        patch.Tasks,
		"material_ref": patch.MaterialRef,
	} {
		if v != nil {
			fields[col] = *v
		}
	}

	var out *types.Lesson
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if len(fields) > 0 {
			n, err := s.lessonRepo.Update(dbc, lessonID, fields)
			if err != nil {
				return dberr.Map(op, err)
			}
			if n == 0 {
				return apperr.NotFound(op, "lesson not found")
			}
		}
		l, err := s.lessonRepo.GetByID(dbc, lessonID)
		if err != nil {
			return dberr.Map(op, err)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *catalogService) DeleteLesson(ctx context.Context, p authz.Principal, lessonID uuid.UUID) error {
	const op = "catalog.delete_lesson"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return err
	}
	n, err := s.lessonRepo.Delete(dbctx.Context{Ctx: ctx}, lessonID)
	if err != nil {
		return dberr.Map(op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, "lesson not found")
	}
	return nil
}

func (s *catalogService) Import(ctx context.Context, seeds []ModuleSeed) (*ImportStats, error) {
	const op = "catalog.import"
	stats := &ImportStats{}
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		for i, seed := range seeds {
			title := strings.TrimSpace(seed.Title)
			if title == "" {
				return apperr.Validation(op, "module title is required")
			}
			pos := seed.Position
			if pos == 0 {
				pos = i + 1
			}

			m, err := s.moduleRepo.GetByTitle(dbc, title)
			switch {
			case err == nil:
				if _, err := s.moduleRepo.Update(dbc, m.ID, map[string]any{"description": seed.Description, "position": pos}); err != nil {
					return dberr.Map(op, err)
				}
				stats.ModulesUpdated++
			case dberr.NotFound(err):
				created, err := s.moduleRepo.Create(dbc, []*types.Module{{Title: title, Description: seed.Description, Position: pos}})
				if err != nil {
					return dberr.Map(op, err)
				}
				m = created[0]
				stats.ModulesCreated++
			default:
				return dberr.Map(op, err)
			}

			for j, ls := range seed.Lessons {
				if err := s.importLesson(dbc, m.ID, j, ls, stats); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Catalog imported",
		"modules_created", stats.ModulesCreated, "modules_updated", stats.ModulesUpdated,
		"lessons_created", stats.LessonsCreated, "lessons_updated", stats.LessonsUpdated)
	return stats, nil
}

func (s *catalogService) importLesson(dbc dbctx.Context, moduleID uuid.UUID, idx int, seed LessonSeed, stats *ImportStats) error {
	const op = "catalog.import"
	title := strings.TrimSpace(seed.Title)
	if title == "" {
		return apperr.Validation(op, "lesson title is required")
	}
	pos := seed.Position
	if pos == 0 {
		pos = idx + 1
	}
	existing, err := s.lessonRepo.GetByModuleAndTitle(dbc, moduleID, title)
	switch {
	case err == nil:
		_, err = s.lessonRepo.Update(dbc, existing.ID, map[string]any{
			"position":     pos,
			"video_ref":    seed.VideoRef,
			"content":      seed.Content,
			"tasks":        seed.Tasks,
			"material_ref": seed.MaterialRef,
		})
		if err != nil {
			return dberr.Map(op, err)
		}
		stats.LessonsUpdated++
	case dberr.NotFound(err):
		_, err = s.lessonRepo.Create(dbc, []*types.Lesson{{
			ModuleID:    moduleID,
			Title:       title,
			Position:    pos,
			VideoRef:    seed.VideoRef,
			Content:     seed.Content,
			Tasks:       seed.Tasks,
			MaterialRef: seed.MaterialRef,
		}})
		if err != nil {
			return dberr.Map(op, err)
		}
		stats.LessonsCreated++
	default:
		return dberr.Map(op, err)
	}
	return nil
}
