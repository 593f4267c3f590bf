package schedule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type StudySessionRepo interface {
	Create(dbc dbctx.Context, s *types.StudySession) (*types.StudySession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error)
	// ListInRange returns sessions overlapping [from, to); zero bounds are open.
	ListInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.StudySession, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) (int64, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	repoLog := baseLog.With("repo", "StudySessionRepo")
	return &studySessionRepo{db: db, log: repoLog}
}

func (r *studySessionRepo) Create(dbc dbctx.Context, s *types.StudySession) (*types.StudySession, error) {
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *studySessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudySession, error) {
	var s types.StudySession
	if err := dbc.DB(r.db).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studySessionRepo) ListInRange(dbc dbctx.Context, userID uuid.UUID, from, to time.Time) ([]*types.StudySession, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if !from.IsZero() {
		q = q.Where("ends_at > ?", from)
	}
	if !to.IsZero() {
		q = q.Where("starts_at < ?", to)
	}
	var results []*types.StudySession
	if err := q.Order("starts_at ASC, id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studySessionRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.StudySession{})
	return res.RowsAffected, res.Error
}
