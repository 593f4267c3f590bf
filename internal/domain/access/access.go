package access

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModuleAccess is at most one row per (user, module).
type ModuleAccess struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_module_access_user_module,priority:1;column:user_id" json:"user_id"`
	ModuleID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_module_access_user_module,priority:2;index;column:module_id" json:"module_id"`
	Status    Status     `gorm:"type:varchar(16);not null;column:status" json:"status"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (ModuleAccess) TableName() string { return "module_access" }

func (a *ModuleAccess) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// LessonAccess overrides the inherited module state for a single lesson.
type LessonAccess struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_access_user_lesson,priority:1;column:user_id" json:"user_id"`
	LessonID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_access_user_lesson,priority:2;index;column:lesson_id" json:"lesson_id"`
	Status    Status     `gorm:"type:varchar(16);not null;column:status" json:"status"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (LessonAccess) TableName() string { return "lesson_access" }

func (a *LessonAccess) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
