package notify

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is an outbox entry: a notification the caller still has to deliver.
type Event struct {
	RecipientID uuid.UUID
	Title       string
	Message     string
	Type        Type
	Link        string
	Data        map[string]any
}

// Notification materializes the event as an unread row.
func (e Event) Notification() *Notification {
	n := &Notification{
		UserID:  e.RecipientID,
		Title:   e.Title,
		Message: e.Message,
		Type:    e.Type,
		Link:    e.Link,
	}
	if len(e.Data) > 0 {
		if raw, err := json.Marshal(e.Data); err == nil {
			n.Data = datatypes.JSON(raw)
		}
	}
	return n
}
