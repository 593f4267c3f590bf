// Package authz carries the caller identity explicitly into services and
// centralizes the role gates used by every entry point.
package authz

import (
	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/domain/user"
)

// Principal is the verified caller of an operation.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

func (p Principal) Valid() bool {
	return p.UserID != uuid.Nil && p.Role != ""
}

func (p Principal) Is(roles ...user.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool { return p.Role == user.RoleAdmin }

// Reviewers may toggle access and evaluate submissions.
var Reviewers = []user.Role{user.RoleAdmin, user.RoleMentor}

// Staff may act on support tickets they do not own.
var Staff = []user.Role{user.RoleAdmin, user.RoleSupport}

// RequireAuth rejects the zero principal.
func RequireAuth(p Principal, op string) error {
	if !p.Valid() {
		return apperr.Unauthorized(op, "authentication required")
	}
	return nil
}

// RequireRole passes when the principal holds any of roles.
func RequireRole(p Principal, op string, roles ...user.Role) error {
	if err := RequireAuth(p, op); err != nil {
		return err
	}
	if !p.Is(roles...) {
		return apperr.Forbidden(op, "insufficient role")
	}
	return nil
}

// RequireSelfOrRole passes when the principal is userID or holds any of roles.
func RequireSelfOrRole(p Principal, op string, userID uuid.UUID, roles ...user.Role) error {
	if err := RequireAuth(p, op); err != nil {
		return err
	}
	if p.UserID == userID || p.Is(roles...) {
		return nil
	}
	return apperr.Forbidden(op, "not allowed to act for this user")
}

// RequireSelf passes only for the user itself.
func RequireSelf(p Principal, op string, userID uuid.UUID) error {
	return RequireSelfOrRole(p, op, userID)
}
