package grading

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusApproved       Status = "APPROVED"
	StatusAdjustRequired Status = "ADJUST_REQUIRED"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

func ParseDecision(raw string) (Decision, bool) {
	switch d := Decision(strings.ToUpper(strings.TrimSpace(raw))); d {
	case DecisionApprove, DecisionReject:
		return d, true
	default:
		return "", false
	}
}

// Submission is append-only history: a reviewer decision moves it out of
// PENDING once, resubmitting creates a new row.
type Submission struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_submission_owner,priority:1;column:user_id" json:"user_id"`
	ModuleID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_submission_owner,priority:2;column:module_id" json:"module_id"`
	LessonID       *uuid.UUID `gorm:"type:uuid;index;column:lesson_id" json:"lesson_id,omitempty"`
	ArtifactRef    string     `gorm:"not null;column:artifact_ref" json:"artifact_ref"`
	Status         Status     `gorm:"type:varchar(24);not null;index;column:status" json:"status"`
	MentorFeedback string     `gorm:"type:text;column:mentor_feedback" json:"mentor_feedback,omitempty"`
	EvaluatedBy    *uuid.UUID `gorm:"type:uuid;column:evaluated_by" json:"evaluated_by,omitempty"`
	EvaluatedAt    *time.Time `gorm:"column:evaluated_at" json:"evaluated_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string { return "submission" }

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = StatusPending
	}
	return nil
}
