package workflow

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/domain/notify"
	"github.com/yungbote/mentorship-backend/internal/domain/support"
	"github.com/yungbote/mentorship-backend/internal/domain/user"
)

// OnTicketMessage notifies the counterparty of a ticket message. An owner
// message goes to the assignee, or to every support agent when unassigned; a
// staff message goes to the owner.
func OnTicketMessage(t support.Ticket, author user.User, agents []user.User) []notify.Event {
	base := notify.Event{
		Type: notify.TypeInfo,
		Link: TicketLink(t.ID),
		Data: map[string]any{"ticket_id": t.ID.String()},
	}

	if author.ID != t.OwnerID {
		ev := base
		ev.RecipientID = t.OwnerID
		ev.Title = "Support replied"
		ev.Message = fmt.Sprintf("New reply on %q.", t.Subject)
		return []notify.Event{ev}
	}

	base.Title = "New support message"
	base.Message = fmt.Sprintf("%s wrote on %q.", displayName(author), t.Subject)
	if t.AssigneeID != nil && *t.AssigneeID != uuid.Nil {
		ev := base
		ev.RecipientID = *t.AssigneeID
		return []notify.Event{ev}
	}
	out := make([]notify.Event, 0, len(agents))
	for _, a := range agents {
		if a.ID == uuid.Nil || a.ID == author.ID {
			continue
		}
		ev := base
		ev.RecipientID = a.ID
		out = append(out, ev)
	}
	return out
}

func displayName(u user.User) string {
	if n := u.FullName(); n != "" {
		return n
	}
	return "A user"
}
