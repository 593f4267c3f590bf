package realtime

import (
	"github.com/google/uuid"
)

type SSEEvent string

const (
	SSEEventNotificationCreated SSEEvent = "NotificationCreated"
	SSEEventNotificationRead    SSEEvent = "NotificationRead"
	SSEEventNotificationDeleted SSEEvent = "NotificationDeleted"
	SSEEventAccessChanged       SSEEvent = "AccessChanged"
	SSEEventSubmissionEvaluated SSEEvent = "SubmissionEvaluated"
	SSEEventUserAvatarUpdated   SSEEvent = "UserAvatarUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

// UserChannel is the private channel every stream subscribes to.
func UserChannel(userID uuid.UUID) string {
	return userID.String()
}
