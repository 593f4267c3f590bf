package grading

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type Evaluation struct {
	Status      types.SubmissionStatus
	Feedback    string
	EvaluatedBy uuid.UUID
	EvaluatedAt time.Time
}

type QueueFilter struct {
	// MentorID limits the queue to that mentor's mentees; nil means everyone.
	MentorID *uuid.UUID
	Limit    int
}

type SubmissionRepo interface {
	Create(dbc dbctx.Context, sub *types.Submission) (*types.Submission, error)
	GetByID(dbc dbctx.Context, submissionID uuid.UUID) (*types.Submission, error)
	// MarkEvaluated applies ev only while the row is still PENDING.
	MarkEvaluated(dbc dbctx.Context, submissionID uuid.UUID, ev Evaluation) (int64, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Submission, error)
	Current(dbc dbctx.Context, userID, moduleID uuid.UUID, lessonID *uuid.UUID) (*types.Submission, error)
	ListPending(dbc dbctx.Context, filter QueueFilter) ([]*types.Submission, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) Create(dbc dbctx.Context, sub *types.Submission) (*types.Submission, error) {
	if err := dbc.DB(r.db).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *submissionRepo) GetByID(dbc dbctx.Context, submissionID uuid.UUID) (*types.Submission, error) {
	var s types.Submission
	if err := dbc.DB(r.db).Where("id = ?", submissionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepo) MarkEvaluated(dbc dbctx.Context, submissionID uuid.UUID, ev Evaluation) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Submission{}).
		Where("id = ? AND status = ?", submissionID, types.SubmissionPending).
		Updates(map[string]any{
			"status":          ev.Status,
			"mentor_feedback": ev.Feedback,
			"evaluated_by":    ev.EvaluatedBy,
			"evaluated_at":    ev.EvaluatedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *submissionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Submission, error) {
	var results []*types.Submission
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Current is the newest submission for the tuple. A nil lessonID matches
// module-level submissions only.
func (r *submissionRepo) Current(dbc dbctx.Context, userID, moduleID uuid.UUID, lessonID *uuid.UUID) (*types.Submission, error) {
	q := dbc.DB(r.db).Where("user_id = ? AND module_id = ?", userID, moduleID)
	if lessonID != nil {
		q = q.Where("lesson_id = ?", *lessonID)
	} else {
		q = q.Where("lesson_id IS NULL")
	}
	var s types.Submission
	if err := q.Order("created_at DESC, id DESC").First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepo) ListPending(dbc dbctx.Context, filter QueueFilter) ([]*types.Submission, error) {
	q := dbc.DB(r.db).Where("status = ?", types.SubmissionPending)
	if filter.MentorID != nil {
		mentees := dbc.DB(r.db).Model(&types.User{}).Select("id").Where("mentor_id = ?", *filter.MentorID)
		q = q.Where("user_id IN (?)", mentees)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var results []*types.Submission
	if err := q.Order("created_at ASC, id ASC").Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
