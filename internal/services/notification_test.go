package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/data/repos"
	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

func seedNotifications(t *testing.T, h *harness, u *types.User, n int) []*types.Notification {
	t.Helper()
	events := make([]types.NotificationEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, types.NotificationEvent{RecipientID: u.ID, Title: "t", Message: "m", Type: types.NotificationInfo})
	}
	rows, err := h.notifications.Persist(testDBC(), events)
	if err != nil {
		t.Fatalf("Persist: %v", err)
	}
	return rows
}

func TestNotificationOwnershipIsEnforced(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, h.db, "o@example.com", types.RoleMentee)
	other := testutil.SeedUser(t, h.db, "x@example.com", types.RoleMentee)
	rows := seedNotifications(t, h, owner, 1)

	if _, err := h.notifications.MarkRead(ctx, principal(other), rows[0].ID); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("mark foreign: want=forbidden got=%v", err)
	}
	if err := h.notifications.Delete(ctx, principal(other), rows[0].ID); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Fatalf("delete foreign: want=forbidden got=%v", err)
	}
	if _, err := h.notifications.MarkRead(ctx, principal(owner), uuid.New()); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("mark missing: want=not_found got=%v", err)
	}

	n, err := h.notifications.MarkRead(ctx, principal(owner), rows[0].ID)
	if err != nil || !n.IsRead {
		t.Fatalf("MarkRead: got=%+v err=%v", n, err)
	}
	if got := len(h.emit.events(realtime.SSEEventNotificationRead)); got != 1 {
		t.Fatalf("sse read: want=1 got=%d", got)
	}
}

func TestNotificationCountsAndIdempotentBulkOps(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, h.db, "u@example.com", types.RoleMentee)
	rows := seedNotifications(t, h, u, 3)

	count, err := h.notifications.UnreadCount(ctx, principal(u))
	if err != nil || count != 3 {
		t.Fatalf("UnreadCount: want=3 got=%d err=%v", count, err)
	}
	if n, err := h.notifications.MarkAllRead(ctx, principal(u)); err != nil || n != 3 {
		t.Fatalf("MarkAllRead: want=3 got=%d err=%v", n, err)
	}
	if n, err := h.notifications.MarkAllRead(ctx, principal(u)); err != nil || n != 0 {
		t.Fatalf("MarkAllRead again: want=0 got=%d err=%v", n, err)
	}

	unread, err := h.notifications.List(ctx, principal(u), repos.NotificationListFilter{UnreadOnly: true})
	if err != nil || len(unread) != 0 {
		t.Fatalf("unread list: want=0 got=%d err=%v", len(unread), err)
	}

	if err := h.notifications.Delete(ctx, principal(u), rows[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := h.notifications.Delete(ctx, principal(u), rows[0].ID); err != nil {
		t.Fatalf("Delete again: %v", err)
	}
	all, _ := h.notifications.List(ctx, principal(u), repos.NotificationListFilter{})
	if len(all) != 2 {
		t.Fatalf("after delete: want=2 got=%d", len(all))
	}
}

func TestPersistSkipsEventsWithoutRecipient(t *testing.T) {
	h := newHarness(t)
	rows, err := h.notifications.Persist(testDBC(), []types.NotificationEvent{{Title: "orphan"}})
	if err != nil || len(rows) != 0 {
		t.Fatalf("want no rows, got=%d err=%v", len(rows), err)
	}
}
