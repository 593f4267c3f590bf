package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/engine/workflow"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

const maxTicketMessageLen = 5000

type SupportService interface {
	Open(ctx context.Context, p authz.Principal, subject, body string) (*types.Ticket, error)
	List(ctx context.Context, p authz.Principal, status types.TicketStatus) ([]*types.Ticket, error)
	Get(ctx context.Context, p authz.Principal, ticketID uuid.UUID) (*types.Ticket, error)
	PostMessage(ctx context.Context, p authz.Principal, ticketID uuid.UUID, body string) (*types.TicketMessage, error)
	Close(ctx context.Context, p authz.Principal, ticketID uuid.UUID) (*types.Ticket, error)
}

type supportService struct {
	log           *logger.Logger
	tx            db.TxRunner
	userRepo      repos.UserRepo
	ticketRepo    repos.TicketRepo
	notifications NotificationService
	now           func() time.Time
}

func NewSupportService(log *logger.Logger, tx db.TxRunner, userRepo repos.UserRepo, ticketRepo repos.TicketRepo, notifications NotificationService) SupportService {
	return &supportService{
		log:           log.With("service", "SupportService"),
		tx:            tx,
		userRepo:      userRepo,
		ticketRepo:    ticketRepo,
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func cleanBody(op, body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", apperr.Validation(op, "message body is required")
	}
	if len(body) > maxTicketMessageLen {
		return "", apperr.Validation(op, "message body is too long")
	}
	return body, nil
}

func (s *supportService) Open(ctx context.Context, p authz.Principal, subject, body string) (*types.Ticket, error) {
	const op = "support.open"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperr.Validation(op, "subject is required")
	}
	body, err := cleanBody(op, body)
	if err != nil {
		return nil, err
	}

	var (
		ticket  *types.Ticket
		created []*types.Notification
	)
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		author, err := s.userRepo.GetByID(dbc, p.UserID)
		if err != nil {
			return dberr.Map(op, err)
		}
		ticket, err = s.ticketRepo.Create(dbc, &types.Ticket{OwnerID: p.UserID, Subject: subject, Status: types.TicketOpen})
		if err != nil {
			return dberr.Map(op, err)
		}
		msg, err := s.ticketRepo.AddMessage(dbc, &types.TicketMessage{TicketID: ticket.ID, AuthorID: p.UserID, Body: body})
		if err != nil {
			return dberr.Map(op, err)
		}
		ticket.Messages = []types.TicketMessage{*msg}
		created = s.notify(dbc, *ticket, *author)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifications.Publish(ctx, created)
	return ticket, nil
}

func (s *supportService) List(ctx context.Context, p authz.Principal, status types.TicketStatus) ([]*types.Ticket, error) {
	const op = "support.list"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	filter := repos.TicketFilter{Status: status}
	if !p.Is(authz.Staff...) {
		owner := p.UserID
		filter.OwnerID = &owner
	}
	rows, err := s.ticketRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}

func (s *supportService) Get(ctx context.Context, p authz.Principal, ticketID uuid.UUID) (*types.Ticket, error) {
	const op = "support.get"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	t, err := s.ticketRepo.GetByID(dbctx.Context{Ctx: ctx}, ticketID, true)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	if err := authz.RequireSelfOrRole(p, op, t.OwnerID, authz.Staff...); err != nil {
		return nil, err
	}
	return t, nil
}

// PostMessage appends to an open ticket. The first staff reply claims an
// unassigned ticket.
func (s *supportService) PostMessage(ctx context.Context, p authz.Principal, ticketID uuid.UUID, body string) (*types.TicketMessage, error) {
	const op = "support.post_message"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	body, err := cleanBody(op, body)
	if err != nil {
		return nil, err
	}

	var (
		msg     *types.TicketMessage
		created []*types.Notification
	)
	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		t, err := s.ticketRepo.GetByID(dbc, ticketID, false)
		if err != nil {
			return dberr.Map(op, err)
		}
		if err := authz.RequireSelfOrRole(p, op, t.OwnerID, authz.Staff...); err != nil {
			return err
		}
		if t.Status != types.TicketOpen {
			return apperr.InvalidState(op, "ticket is closed")
		}
		author, err := s.userRepo.GetByID(dbc, p.UserID)
		if err != nil {
			return dberr.Map(op, err)
		}
		if p.UserID != t.OwnerID && t.AssigneeID == nil {
			n, err := s.ticketRepo.Assign(dbc, t.ID, p.UserID)
			if err != nil {
				return dberr.Map(op, err)
			}
			if n > 0 {
				assignee := p.UserID
				t.AssigneeID = &assignee
			}
		}
		msg, err = s.ticketRepo.AddMessage(dbc, &types.TicketMessage{TicketID: t.ID, AuthorID: p.UserID, Body: body})
		if err != nil {
			return dberr.Map(op, err)
		}
		created = s.notify(dbc, *t, *author)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notifications.Publish(ctx, created)
	return msg, nil
}

func (s *supportService) Close(ctx context.Context, p authz.Principal, ticketID uuid.UUID) (*types.Ticket, error) {
	const op = "support.close"
	if err := authz.RequireRole(p, op, authz.Staff...); err != nil {
		return nil, err
	}
	var out *types.Ticket
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		n, err := s.ticketRepo.Close(dbc, ticketID, s.now())
		if err != nil {
			return dberr.Map(op, err)
		}
		t, err := s.ticketRepo.GetByID(dbc, ticketID, false)
		if err != nil {
			return dberr.Map(op, err)
		}
		if n == 0 {
			return apperr.InvalidState(op, "ticket is already closed")
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// notify persists counterpart notifications in a savepoint; a failure is
// logged and the message still stands.
func (s *supportService) notify(dbc dbctx.Context, t types.Ticket, author types.User) []*types.Notification {
	var created []*types.Notification
	err := s.tx.Nested(dbc, func(inner dbctx.Context) error {
		var agents []types.User
		if author.ID == t.OwnerID && t.AssigneeID == nil {
			rows, err := s.userRepo.ListByRole(inner, types.RoleSupport)
			if err != nil {
				return err
			}
			for _, a := range rows {
				agents = append(agents, *a)
			}
		}
		rows, err := s.notifications.Persist(inner, workflow.OnTicketMessage(t, author, agents))
		created = rows
		return err
	})
	if err != nil {
		s.log.Error("Ticket notification failed", "ticket_id", t.ID, "error", err)
		return nil
	}
	return created
}
