package notify

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationRepo interface {
	Create(dbc dbctx.Context, rows []*types.Notification) ([]*types.Notification, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Notification, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, filter ListFilter) ([]*types.Notification, error)
	CountUnread(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	MarkRead(dbc dbctx.Context, userID, id uuid.UUID) (int64, error)
	MarkAllRead(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) (int64, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (r *notificationRepo) Create(dbc dbctx.Context, rows []*types.Notification) ([]*types.Notification, error) {
	if len(rows) == 0 {
		return []*types.Notification{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Notification, error) {
	var n types.Notification
	if err := dbc.DB(r.db).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser returns newest first.
func (r *notificationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, filter ListFilter) ([]*types.Notification, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if filter.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var results []*types.Notification
	if err := q.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) CountUnread(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, userID, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepo) MarkAllRead(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Notification{})
	return res.RowsAffected, res.Error
}
