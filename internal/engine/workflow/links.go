package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// ModuleLink is the client deep link for a module or one of its lessons.
func ModuleLink(moduleID uuid.UUID, lessonID *uuid.UUID) string {
	if lessonID != nil && *lessonID != uuid.Nil {
		return fmt.Sprintf("/modules/%s/lessons/%s", moduleID, *lessonID)
	}
	return fmt.Sprintf("/modules/%s", moduleID)
}

func ReviewLink(submissionID uuid.UUID) string {
	return fmt.Sprintf("/review/submissions/%s", submissionID)
}

func TicketLink(ticketID uuid.UUID) string {
	return fmt.Sprintf("/support/tickets/%s", ticketID)
}
