package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/dberr"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/platform/sendgrid"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

const (
	emailFanoutLimit = 4
	// emailBacklogLimit caps in-flight background batches; extra batches are dropped.
	emailBacklogLimit = 16
	emailTimeout      = 30 * time.Second
)

type NotificationService interface {
	// Persist writes events as unread rows inside dbc. Delivery happens in Publish.
	Persist(dbc dbctx.Context, events []types.NotificationEvent) ([]*types.Notification, error)
	// Publish pushes persisted rows to realtime subscribers and, when configured,
	// queues email in the background.
	Publish(ctx context.Context, rows []*types.Notification)
	// Flush waits for queued email batches or until ctx is done.
	Flush(ctx context.Context) error

	List(ctx context.Context, p authz.Principal, filter repos.NotificationListFilter) ([]*types.Notification, error)
	UnreadCount(ctx context.Context, p authz.Principal) (int64, error)
	MarkRead(ctx context.Context, p authz.Principal, id uuid.UUID) (*types.Notification, error)
	MarkAllRead(ctx context.Context, p authz.Principal) (int64, error)
	Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error
}

type notificationService struct {
	log       *logger.Logger
	repo      repos.NotificationRepo
	userRepo  repos.UserRepo
	emit      SSEEmitter
	mailer    sendgrid.Client
	emailLink string

	mailSlots chan struct{}
	mailWG    sync.WaitGroup
}

// NewNotificationService wires the dispatcher. mailer may be nil; publicURL
// prefixes deep links in emails.
func NewNotificationService(log *logger.Logger, repo repos.NotificationRepo, userRepo repos.UserRepo, emit SSEEmitter, mailer sendgrid.Client, publicURL string) NotificationService {
	return &notificationService{
		log:       log.With("service", "NotificationService"),
		repo:      repo,
		userRepo:  userRepo,
		emit:      emitterOrNoop(emit),
		mailer:    mailer,
		emailLink: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
		mailSlots: make(chan struct{}, emailBacklogLimit),
	}
}

func (s *notificationService) Persist(dbc dbctx.Context, events []types.NotificationEvent) ([]*types.Notification, error) {
	const op = "notification.persist"
	rows := make([]*types.Notification, 0, len(events))
	for _, ev := range events {
		if ev.RecipientID == uuid.Nil {
			continue
		}
		rows = append(rows, ev.Notification())
	}
	if len(rows) == 0 {
		return rows, nil
	}
	created, err := s.repo.Create(dbc, rows)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return created, nil
}

func (s *notificationService) Publish(ctx context.Context, rows []*types.Notification) {
	if len(rows) == 0 {
		return
	}
	for _, n := range rows {
		if n == nil {
			continue
		}
		s.emit.Emit(ctx, realtime.SSEMessage{
			Channel: realtime.UserChannel(n.UserID),
			Event:   realtime.SSEEventNotificationCreated,
			Data:    map[string]any{"notification": n},
		})
	}
	if s.mailer != nil {
		s.emailAsync(ctx, rows)
	}
}

// emailAsync keeps request values such as trace ids but not the request's
// cancellation.
func (s *notificationService) emailAsync(ctx context.Context, rows []*types.Notification) {
	select {
	case s.mailSlots <- struct{}{}:
	default:
		s.log.Warn("Email backlog full, dropping batch", "notifications", len(rows))
		return
	}
	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()
		defer func() { <-s.mailSlots }()
		mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
		defer cancel()
		s.email(mailCtx, rows)
	}()
}

func (s *notificationService) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mailWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// email is best effort: failures are logged, never returned.
func (s *notificationService) email(ctx context.Context, rows []*types.Notification) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]bool{}
	for _, n := range rows {
		if n != nil && !seen[n.UserID] {
			seen[n.UserID] = true
			ids = append(ids, n.UserID)
		}
	}
	users, err := s.userRepo.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		s.log.Warn("Email recipients lookup failed", "error", err)
		return
	}
	byID := make(map[uuid.UUID]*types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(emailFanoutLimit)
	for _, n := range rows {
		if n == nil {
			continue
		}
		u := byID[n.UserID]
		if u == nil || strings.TrimSpace(u.Email) == "" {
			continue
		}
		n := n
		g.Go(func() error {
			req := sendgrid.SendEmailRequest{
				To:         []sendgrid.EmailAddress{{Email: u.Email, Name: u.FullName()}},
				Subject:    n.Title,
				Text:       s.emailBody(n),
				Categories: []string{"notification", strings.ToLower(string(n.Type))},
			}
			if _, err := s.mailer.Send(gctx, req); err != nil {
				s.log.Warn("Notification email failed", "notification_id", n.ID, "user_id", n.UserID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *notificationService) emailBody(n *types.Notification) string {
	body := n.Message
	if n.Link != "" {
		body += fmt.Sprintf("\n\n%s%s", s.emailLink, n.Link)
	}
	return body
}

func (s *notificationService) List(ctx context.Context, p authz.Principal, filter repos.NotificationListFilter) ([]*types.Notification, error) {
	const op = "notification.list"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(dbctx.Context{Ctx: ctx}, p.UserID, filter)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	return rows, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, p authz.Principal) (int64, error) {
	const op = "notification.unread_count"
	if err := authz.RequireAuth(p, op); err != nil {
		return 0, err
	}
	n, err := s.repo.CountUnread(dbctx.Context{Ctx: ctx}, p.UserID)
	if err != nil {
		return 0, dberr.Map(op, err)
	}
	return n, nil
}

// owned loads id and verifies it belongs to p.
func (s *notificationService) owned(ctx context.Context, p authz.Principal, op string, id uuid.UUID) (*types.Notification, error) {
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	n, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, dberr.Map(op, err)
	}
	if n.UserID != p.UserID {
		return nil, apperr.Forbidden(op, "notification belongs to another user")
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, p authz.Principal, id uuid.UUID) (*types.Notification, error) {
	const op = "notification.mark_read"
	n, err := s.owned(ctx, p, op, id)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if _, err := s.repo.MarkRead(dbctx.Context{Ctx: ctx}, p.UserID, id); err != nil {
		return nil, dberr.Map(op, err)
	}
	n.IsRead = true
	s.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(p.UserID),
		Event:   realtime.SSEEventNotificationRead,
		Data:    map[string]any{"ids": []string{id.String()}},
	})
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, p authz.Principal) (int64, error) {
	const op = "notification.mark_all_read"
	if err := authz.RequireAuth(p, op); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkAllRead(dbctx.Context{Ctx: ctx}, p.UserID)
	if err != nil {
		return 0, dberr.Map(op, err)
	}
	if n > 0 {
		s.emit.Emit(ctx, realtime.SSEMessage{
			Channel: realtime.UserChannel(p.UserID),
			Event:   realtime.SSEEventNotificationRead,
			Data:    map[string]any{"all": true},
		})
	}
	return n, nil
}

// Delete is idempotent; a missing row is not an error.
func (s *notificationService) Delete(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	const op = "notification.delete"
	if _, err := s.owned(ctx, p, op, id); err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return nil
		}
		return err
	}
	if _, err := s.repo.Delete(dbctx.Context{Ctx: ctx}, p.UserID, id); err != nil {
		return dberr.Map(op, err)
	}
	s.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(p.UserID),
		Event:   realtime.SSEEventNotificationDeleted,
		Data:    map[string]any{"id": id.String()},
	})
	return nil
}
