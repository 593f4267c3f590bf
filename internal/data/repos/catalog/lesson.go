package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, lessonID uuid.UUID) (*types.Lesson, error)
	GetByModuleAndTitle(dbc dbctx.Context, moduleID uuid.UUID, title string) (*types.Lesson, error)
	ListByModule(dbc dbctx.Context, moduleID uuid.UUID) ([]*types.Lesson, error)
	ListByModules(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	Update(dbc dbctx.Context, lessonID uuid.UUID, fields map[string]any) (int64, error)
	Delete(dbc dbctx.Context, lessonID uuid.UUID) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := dbc.DB(r.db).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	var l types.Lesson
	if err := dbc.DB(r.db).Where("id = ?", lessonID).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) GetByModuleAndTitle(dbc dbctx.Context, moduleID uuid.UUID, title string) (*types.Lesson, error) {
	var l types.Lesson
	if err := dbc.DB(r.db).
		Where("module_id = ? AND title = ?", moduleID, title).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) ListByModule(dbc dbctx.Context, moduleID uuid.UUID) ([]*types.Lesson, error) {
	return r.ListByModules(dbc, []uuid.UUID{moduleID})
}

func (r *lessonRepo) ListByModules(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	var results []*types.Lesson
	if len(moduleIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("module_id IN ?", moduleIDs).
		Order("position ASC, title ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) Update(dbc dbctx.Context, lessonID uuid.UUID, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Where("id = ?", lessonID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *lessonRepo) Delete(dbc dbctx.Context, lessonID uuid.UUID) (int64, error) {
	var deleted int64
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&types.LessonAccess{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", lessonID).Delete(&types.Lesson{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
