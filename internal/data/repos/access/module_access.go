package access

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type ModuleAccessRepo interface {
	// Status returns AccessNone when no row exists.
	Status(dbc dbctx.Context, userID, moduleID uuid.UUID) (types.AccessStatus, error)
	Get(dbc dbctx.Context, userID, moduleID uuid.UUID) (*types.ModuleAccess, error)
	StatusesForUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]types.AccessStatus, error)
	Upsert(dbc dbctx.Context, userID, moduleID uuid.UUID, status types.AccessStatus, updatedBy *uuid.UUID) (*types.ModuleAccess, error)
	// PromoteIfExists sets an existing row to COMPLETED and reports rows matched.
	PromoteIfExists(dbc dbctx.Context, userID, moduleID uuid.UUID, updatedBy *uuid.UUID) (int64, error)
}

type moduleAccessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleAccessRepo(db *gorm.DB, baseLog *logger.Logger) ModuleAccessRepo {
	repoLog := baseLog.With("repo", "ModuleAccessRepo")
	return &moduleAccessRepo{db: db, log: repoLog}
}

func (r *moduleAccessRepo) Get(dbc dbctx.Context, userID, moduleID uuid.UUID) (*types.ModuleAccess, error) {
	var row types.ModuleAccess
	if err := dbc.DB(r.db).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *moduleAccessRepo) Status(dbc dbctx.Context, userID, moduleID uuid.UUID) (types.AccessStatus, error) {
	var rows []types.ModuleAccess
	if err := dbc.DB(r.db).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return types.AccessNone, nil
	}
	return rows[0].Status, nil
}

func (r *moduleAccessRepo) StatusesForUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]types.AccessStatus, error) {
	var rows []types.ModuleAccess
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]types.AccessStatus, len(rows))
	for _, row := range rows {
		out[row.ModuleID] = row.Status
	}
	return out, nil
}

func (r *moduleAccessRepo) Upsert(dbc dbctx.Context, userID, moduleID uuid.UUID, status types.AccessStatus, updatedBy *uuid.UUID) (*types.ModuleAccess, error) {
	row := &types.ModuleAccess{
		UserID:    userID,
		ModuleID:  moduleID,
		Status:    status,
		UpdatedBy: updatedBy,
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_by", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, moduleID)
}

func (r *moduleAccessRepo) PromoteIfExists(dbc dbctx.Context, userID, moduleID uuid.UUID, updatedBy *uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.ModuleAccess{}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		Updates(map[string]any{
			"status":     types.AccessCompleted,
			"updated_by": updatedBy,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
