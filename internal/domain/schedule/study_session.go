package schedule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is a block of planned study time owned by one user.
type StudySession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_study_session_user_start,priority:1;column:user_id" json:"user_id"`
	ModuleID  *uuid.UUID `gorm:"type:uuid;column:module_id" json:"module_id,omitempty"`
	Title     string     `gorm:"not null;column:title" json:"title"`
	StartsAt  time.Time  `gorm:"not null;index:idx_study_session_user_start,priority:2;column:starts_at" json:"starts_at"`
	EndsAt    time.Time  `gorm:"not null;column:ends_at" json:"ends_at"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (StudySession) TableName() string { return "study_session" }

func (s *StudySession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s StudySession) Duration() time.Duration { return s.EndsAt.Sub(s.StartsAt) }
