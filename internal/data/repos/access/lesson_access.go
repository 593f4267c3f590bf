package access

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type LessonAccessRepo interface {
	// Status returns AccessNone when the lesson has no override.
	Status(dbc dbctx.Context, userID, lessonID uuid.UUID) (types.AccessStatus, error)
	StatusesForUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]types.AccessStatus, error)
	Upsert(dbc dbctx.Context, userID, lessonID uuid.UUID, status types.AccessStatus, updatedBy *uuid.UUID) (*types.LessonAccess, error)
	Delete(dbc dbctx.Context, userID, lessonID uuid.UUID) error
}

type lessonAccessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonAccessRepo(db *gorm.DB, baseLog *logger.Logger) LessonAccessRepo {
	repoLog := baseLog.With("repo", "LessonAccessRepo")
	return &lessonAccessRepo{db: db, log: repoLog}
}

func (r *lessonAccessRepo) Status(dbc dbctx.Context, userID, lessonID uuid.UUID) (types.AccessStatus, error) {
	var rows []types.LessonAccess
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return types.AccessNone, nil
	}
	return rows[0].Status, nil
}

func (r *lessonAccessRepo) StatusesForUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]types.AccessStatus, error) {
	var rows []types.LessonAccess
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]types.AccessStatus, len(rows))
	for _, row := range rows {
		out[row.LessonID] = row.Status
	}
	return out, nil
}

func (r *lessonAccessRepo) Upsert(dbc dbctx.Context, userID, lessonID uuid.UUID, status types.AccessStatus, updatedBy *uuid.UUID) (*types.LessonAccess, error) {
	row := &types.LessonAccess{
		UserID:    userID,
		LessonID:  lessonID,
		Status:    status,
		UpdatedBy: updatedBy,
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_by", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	var out types.LessonAccess
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *lessonAccessRepo) Delete(dbc dbctx.Context, userID, lessonID uuid.UUID) error {
	return dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&types.LessonAccess{}).Error
}
