package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleMentee  Role = "MENTEE"
	RoleMentor  Role = "MENTOR"
	RoleAdmin   Role = "ADMIN"
	RoleSupport Role = "SUPPORT"
)

// ParseRole accepts any casing; ok is false for unknown roles.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleMentee, RoleMentor, RoleAdmin, RoleSupport:
		return r, true
	default:
		return "", false
	}
}

// IsStaff reports roles that review or support other users.
func (r Role) IsStaff() bool {
	return r == RoleMentor || r == RoleAdmin || r == RoleSupport
}

type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password        string     `gorm:"not null;column:password" json:"-"`
	FirstName       string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName        string     `gorm:"not null;column:last_name" json:"last_name"`
	Role            Role       `gorm:"type:varchar(16);not null;default:'MENTEE';index;column:role" json:"role"`
	MentorID        *uuid.UUID `gorm:"type:uuid;index;column:mentor_id" json:"mentor_id,omitempty"`
	AvatarBucketKey string     `gorm:"column:avatar_bucket_key" json:"-"`
	AvatarURL       string     `gorm:"column:avatar_url" json:"avatar_url"`
	AvatarColor     string     `gorm:"column:avatar_color" json:"avatar_color"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleMentee
	}
	return nil
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
