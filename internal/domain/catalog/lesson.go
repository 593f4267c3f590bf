package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Lesson struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID    uuid.UUID `gorm:"type:uuid;not null;index:idx_lesson_module_position,priority:1;column:module_id" json:"module_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Position    int       `gorm:"not null;default:0;index:idx_lesson_module_position,priority:2;column:position" json:"position"`
	VideoRef    string    `gorm:"column:video_ref" json:"video_ref,omitempty"`
	Content     string    `gorm:"type:text;column:content" json:"content"`
	Tasks       string    `gorm:"type:text;column:tasks" json:"tasks,omitempty"`
	MaterialRef string    `gorm:"column:material_ref" json:"material_ref,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// HasAssignment reports whether the lesson asks for a submission.
func (l *Lesson) HasAssignment() bool {
	return l != nil && l.Tasks != ""
}
