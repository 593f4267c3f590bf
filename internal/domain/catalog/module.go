package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Module is a curriculum unit; Position orders modules for display.
type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Position    int       `gorm:"not null;default:0;index;column:position" json:"position"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Module) TableName() string { return "module" }

func (m *Module) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
