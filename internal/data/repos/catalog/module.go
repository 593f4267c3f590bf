package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type ModuleRepo interface {
	Create(dbc dbctx.Context, modules []*types.Module) ([]*types.Module, error)
	GetByID(dbc dbctx.Context, moduleID uuid.UUID) (*types.Module, error)
	GetByIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Module, error)
	GetByTitle(dbc dbctx.Context, title string) (*types.Module, error)
	List(dbc dbctx.Context) ([]*types.Module, error)
	Update(dbc dbctx.Context, moduleID uuid.UUID, fields map[string]any) (int64, error)
	Delete(dbc dbctx.Context, moduleID uuid.UUID) (int64, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	repoLog := baseLog.With("repo", "ModuleRepo")
	return &moduleRepo{db: db, log: repoLog}
}

func (r *moduleRepo) Create(dbc dbctx.Context, modules []*types.Module) ([]*types.Module, error) {
	if len(modules) == 0 {
		return []*types.Module{}, nil
	}
	if err := dbc.DB(r.db).Create(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepo) GetByID(dbc dbctx.Context, moduleID uuid.UUID) (*types.Module, error) {
	var m types.Module
	if err := dbc.DB(r.db).Where("id = ?", moduleID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) GetByIDs(dbc dbctx.Context, moduleIDs []uuid.UUID) ([]*types.Module, error) {
	var results []*types.Module
	if len(moduleIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", moduleIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) GetByTitle(dbc dbctx.Context, title string) (*types.Module, error) {
	var m types.Module
	if err := dbc.DB(r.db).Where("title = ?", title).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) List(dbc dbctx.Context) ([]*types.Module, error) {
	var results []*types.Module
	if err := dbc.DB(r.db).
		Order("position ASC, title ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleRepo) Update(dbc dbctx.Context, moduleID uuid.UUID, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Module{}).
		Where("id = ?", moduleID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

// Delete removes the module with its lessons and every access row that
// points at them.
func (r *moduleRepo) Delete(dbc dbctx.Context, moduleID uuid.UUID) (int64, error) {
	var deleted int64
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		lessonIDs := tx.Model(&types.Lesson{}).Select("id").Where("module_id = ?", moduleID)
		if err := tx.Where("lesson_id IN (?)", lessonIDs).Delete(&types.LessonAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", moduleID).Delete(&types.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", moduleID).Delete(&types.ModuleAccess{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", moduleID).Delete(&types.Module{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
