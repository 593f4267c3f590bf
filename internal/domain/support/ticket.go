package support

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketOpen   TicketStatus = "OPEN"
	TicketClosed TicketStatus = "CLOSED"
)

type Ticket struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID    uuid.UUID    `gorm:"type:uuid;not null;index;column:owner_id" json:"owner_id"`
	AssigneeID *uuid.UUID   `gorm:"type:uuid;index;column:assignee_id" json:"assignee_id,omitempty"`
	Subject    string       `gorm:"not null;column:subject" json:"subject"`
	Status     TicketStatus `gorm:"type:varchar(16);not null;index;column:status" json:"status"`
	ClosedAt   *time.Time   `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;index" json:"updated_at"`

	Messages []TicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

func (Ticket) TableName() string { return "support_ticket" }

func (t *Ticket) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TicketOpen
	}
	return nil
}

type TicketMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;index:idx_ticket_message_ticket_created,priority:1;column:ticket_id" json:"ticket_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;column:author_id" json:"author_id"`
	Body      string    `gorm:"type:text;not null;column:body" json:"body"`
	CreatedAt time.Time `gorm:"not null;index:idx_ticket_message_ticket_created,priority:2" json:"created_at"`
}

func (TicketMessage) TableName() string { return "support_ticket_message" }

func (m *TicketMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
