package notify

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Type string

const (
	TypeInfo    Type = "INFO"
	TypeSuccess Type = "SUCCESS"
	TypeWarning Type = "WARNING"
	TypeError   Type = "ERROR"
)

type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_notification_user_created,priority:1;column:user_id" json:"user_id"`
	Title     string         `gorm:"not null;column:title" json:"title"`
	Message   string         `gorm:"type:text;not null;column:message" json:"message"`
	Type      Type           `gorm:"type:varchar(16);not null;column:type" json:"type"`
	Link      string         `gorm:"column:link" json:"link,omitempty"`
	Data      datatypes.JSON `gorm:"column:data" json:"data,omitempty"`
	IsRead    bool           `gorm:"not null;default:false;column:is_read" json:"is_read"`
	CreatedAt time.Time      `gorm:"not null;index:idx_notification_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	// v7 ids sort by creation, breaking created_at ties in insertion order.
	if n.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	return nil
}
