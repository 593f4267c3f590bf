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
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

type UserService interface {
	GetMe(ctx context.Context, p authz.Principal) (*types.User, error)
	UpdateName(ctx context.Context, p authz.Principal, firstName, lastName string) (*types.User, error)
	UploadAvatarImage(ctx context.Context, p authz.Principal, raw []byte) (*types.User, error)

	List(ctx context.Context, p authz.Principal, filter repos.UserListFilter) ([]*types.User, int64, error)
	// UpdateRole is the only way a role changes. Users are demoted, never deleted.
	UpdateRole(ctx context.Context, p authz.Principal, userID uuid.UUID, role types.Role) (*types.User, error)
	// AssignMentor sets or, with a nil mentorID, clears a mentee's mentor.
	AssignMentor(ctx context.Context, p authz.Principal, userID uuid.UUID, mentorID *uuid.UUID) (*types.User, error)
	ListMentees(ctx context.Context, p authz.Principal, mentorID uuid.UUID) ([]*types.User, error)
}

type userService struct {
	log           *logger.Logger
	tx            db.TxRunner
	userRepo      repos.UserRepo
	avatarService AvatarService
	emit          SSEEmitter
}

func NewUserService(log *logger.Logger, tx db.TxRunner, userRepo repos.UserRepo, avatarService AvatarService, emit SSEEmitter) UserService {
	return &userService{
		log:           log.With("service", "UserService"),
		tx:            tx,
		userRepo:      userRepo,
		avatarService: avatarService,
		emit:          emitterOrNoop(emit),
	}
}

func (us *userService) GetMe(ctx context.Context, p authz.Principal) (*types.User, error) {
	const op = "user.me"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, p.UserID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return u, nil
}

func (us *userService) UpdateName(ctx context.Context, p authz.Principal, firstName, lastName string) (*types.User, error) {
	const op = "user.update_name"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, apperr.Validation(op, "first_name and last_name required")
	}

	var out *types.User
	err := us.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := us.userRepo.UpdateName(dbc, p.UserID, firstName, lastName); err != nil {
			return dberr.Map(op, err)
		}
		u, err := us.userRepo.GetByID(dbc, p.UserID)
		if err != nil {
			return dberr.Map(op, err)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) UploadAvatarImage(ctx context.Context, p authz.Principal, raw []byte) (*types.User, error) {
	const op = "user.upload_avatar"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	if us.avatarService == nil {
		return nil, apperr.New(apperr.CodeUpstream, op, "avatar service not configured", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	u, err := us.userRepo.GetByID(dbc, p.UserID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	if err := us.avatarService.CreateAndUploadUserAvatarFromImage(ctx, u, raw); err != nil {
		return nil, err
	}
	if err := us.userRepo.UpdateAvatarFields(dbc, u.ID, u.AvatarBucketKey, u.AvatarURL); err != nil {
		return nil, dberr.Map(op, err)
	}
	us.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(u.ID),
		Event:   realtime.SSEEventUserAvatarUpdated,
		Data:    map[string]any{"avatar_url": u.AvatarURL},
	})
	return u, nil
}

func (us *userService) List(ctx context.Context, p authz.Principal, filter repos.UserListFilter) ([]*types.User, int64, error) {
	const op = "user.list"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, 0, err
	}
	rows, total, err := us.userRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, 0, dberr.Map(op, err)
	}
	return rows, total, nil
}

func (us *userService) UpdateRole(ctx context.Context, p authz.Principal, userID uuid.UUID, role types.Role) (*types.User, error) {
	const op = "user.update_role"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, err
	}
	parsed, ok := types.ParseRole(string(role))
	if !ok {
		return nil, apperr.Validation(op, "unknown role")
	}
	if userID == p.UserID && parsed != types.RoleAdmin {
		return nil, apperr.Validation(op, "admins cannot demote themselves")
	}

	var out *types.User
	err := us.tx.InTx(ctx, func(dbc dbctx.Context) error {
		u, err := us.userRepo.GetByID(dbc, userID)
		if err != nil {
			return dberr.Map(op, err)
		}
		if u.Role == parsed {
			out = u
			return nil
		}
		if _, err := us.userRepo.UpdateRole(dbc, userID, parsed); err != nil {
			return dberr.Map(op, err)
		}
		// A demoted mentor leaves their mentees unassigned so reviews fall back to admins.
		if u.Role == types.RoleMentor {
			if err := us.userRepo.ClearMentorFor(dbc, userID); err != nil {
				return dberr.Map(op, err)
			}
		}
		if parsed != types.RoleMentee && u.MentorID != nil {
			if _, err := us.userRepo.UpdateMentor(dbc, userID, nil); err != nil {
				return dberr.Map(op, err)
			}
			u.MentorID = nil
		}
		us.log.Info("Role changed", "actor_id", p.UserID, "user_id", userID, "from", u.Role, "to", parsed)
		u.Role = parsed
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) AssignMentor(ctx context.Context, p authz.Principal, userID uuid.UUID, mentorID *uuid.UUID) (*types.User, error) {
	const op = "user.assign_mentor"
	if err := authz.RequireRole(p, op, types.RoleAdmin); err != nil {
		return nil, err
	}
	if mentorID != nil && *mentorID == uuid.Nil {
		mentorID = nil
	}
	if mentorID != nil && *mentorID == userID {
		return nil, apperr.Validation(op, "a user cannot mentor themselves")
	}

	var out *types.User
	err := us.tx.InTx(ctx, func(dbc dbctx.Context) error {
		u, err := us.userRepo.GetByID(dbc, userID)
		if err != nil {
			return dberr.Map(op, err)
		}
		if u.Role != types.RoleMentee {
			return apperr.InvalidState(op, "only mentees have mentors")
		}
		if mentorID != nil {
			m, err := us.userRepo.GetByID(dbc, *mentorID)
			if err != nil {
				return dberr.Map(op, err)
			}
			if m.Role != types.RoleMentor {
				return apperr.Validation(op, "assigned user is not a mentor")
			}
		}
		if _, err := us.userRepo.UpdateMentor(dbc, userID, mentorID); err != nil {
			return dberr.Map(op, err)
		}
		u.MentorID = mentorID
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) ListMentees(ctx context.Context, p authz.Principal, mentorID uuid.UUID) ([]*types.User, error) {
	const op = "user.list_mentees"
	if err := authz.RequireRole(p, op, authz.Reviewers...); err != nil {
		return nil, err
	}
	if mentorID == uuid.Nil {
		mentorID = p.UserID
	}
	if mentorID != p.UserID && !p.IsAdmin() {
		return nil, apperr.Forbidden(op, "mentors only see their own mentees")
	}
	rows, err := us.userRepo.ListMentees(dbctx.Context{Ctx: ctx}, mentorID)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}
