package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type ListFilter struct {
	Role   types.Role
	Limit  int
	Offset int
}

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.User, int64, error)
	ListByRole(dbc dbctx.Context, role types.Role) ([]*types.User, error)
	ListMentees(dbc dbctx.Context, mentorID uuid.UUID) ([]*types.User, error)
	UpdateRole(dbc dbctx.Context, userID uuid.UUID, role types.Role) (int64, error)
	UpdateMentor(dbc dbctx.Context, userID uuid.UUID, mentorID *uuid.UUID) (int64, error)
	ClearMentorFor(dbc dbctx.Context, mentorID uuid.UUID) error
	UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) error
	UpdateAvatarColor(dbc dbctx.Context, userID uuid.UUID, avatarColor string) error
	UpdateAvatarFields(dbc dbctx.Context, userID uuid.UUID, bucketKey, avatarURL string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(ur.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	var u types.User
	if err := dbc.DB(ur.db).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(ur.db).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var u types.User
	if err := dbc.DB(ur.db).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.User, int64, error) {
	q := dbc.DB(ur.db).Model(&types.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var results []*types.User
	if err := q.Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (ur *userRepo) ListByRole(dbc dbctx.Context, role types.Role) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).
		Where("role = ?", role).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) ListMentees(dbc dbctx.Context, mentorID uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if err := dbc.DB(ur.db).
		Where("mentor_id = ?", mentorID).
		Order("last_name ASC, first_name ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateRole(dbc dbctx.Context, userID uuid.UUID, role types.Role) (int64, error) {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("role", role)
	return res.RowsAffected, res.Error
}

func (ur *userRepo) UpdateMentor(dbc dbctx.Context, userID uuid.UUID, mentorID *uuid.UUID) (int64, error) {
	res := dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("mentor_id", mentorID)
	return res.RowsAffected, res.Error
}

// ClearMentorFor detaches every mentee of mentorID.
func (ur *userRepo) ClearMentorFor(dbc dbctx.Context, mentorID uuid.UUID) error {
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("mentor_id = ?", mentorID).
		Update("mentor_id", nil).Error
}

func (ur *userRepo) UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) error {
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
		}).Error
}

func (ur *userRepo) UpdateAvatarColor(dbc dbctx.Context, userID uuid.UUID, avatarColor string) error {
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Update("avatar_color", avatarColor).Error
}

func (ur *userRepo) UpdateAvatarFields(dbc dbctx.Context, userID uuid.UUID, bucketKey, avatarURL string) error {
	return dbc.DB(ur.db).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"avatar_bucket_key": bucketKey,
			"avatar_url":        avatarURL,
		}).Error
}
