package notify

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
)

func TestNotificationRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewNotificationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	owner := testutil.SeedUser(t, db, "owner@example.com", types.RoleMentee)
	other := testutil.SeedUser(t, db, "other@example.com", types.RoleMentee)

	var created []*types.Notification
	for _, title := range []string{"first", "second", "third"} {
		rows, err := repo.Create(dbc, []*types.Notification{{UserID: owner.ID, Title: title, Message: "m"}})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		created = append(created, rows[0])
		time.Sleep(2 * time.Millisecond)
	}
	if created[0].Type != types.NotificationInfo {
		t.Fatalf("default type: want=%v got=%v", types.NotificationInfo, created[0].Type)
	}

	list, err := repo.ListByUser(dbc, owner.ID, ListFilter{})
	if err != nil || len(list) != 3 || list[0].Title != "third" || list[2].Title != "first" {
		t.Fatalf("ListByUser: err=%v got=%d", err, len(list))
	}

	if n, _ := repo.MarkRead(dbc, other.ID, created[0].ID); n != 0 {
		t.Fatalf("MarkRead by non-owner must not match, rows=%d", n)
	}
	if n, err := repo.MarkRead(dbc, owner.ID, created[0].ID); err != nil || n != 1 {
		t.Fatalf("MarkRead: err=%v rows=%d", err, n)
	}
	if c, _ := repo.CountUnread(dbc, owner.ID); c != 2 {
		t.Fatalf("CountUnread: want=2 got=%d", c)
	}
	unread, _ := repo.ListByUser(dbc, owner.ID, ListFilter{UnreadOnly: true})
	if len(unread) != 2 {
		t.Fatalf("ListByUser(unread): want=2 got=%d", len(unread))
	}

	if _, err := repo.MarkAllRead(dbc, owner.ID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if n, err := repo.MarkAllRead(dbc, owner.ID); err != nil || n != 0 {
		t.Fatalf("MarkAllRead twice: err=%v rows=%d", err, n)
	}

	if n, err := repo.Delete(dbc, owner.ID, created[1].ID); err != nil || n != 1 {
		t.Fatalf("Delete: err=%v rows=%d", err, n)
	}
	if n, err := repo.Delete(dbc, owner.ID, created[1].ID); err != nil || n != 0 {
		t.Fatalf("Delete twice: err=%v rows=%d", err, n)
	}
}

func TestNotificationRepoListKeepsInsertionOrderOnTimestampTies(t *testing.T) {
	db := testutil.DB(t)
	repo := NewNotificationRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}
	owner := testutil.SeedUser(t, db, "owner@example.com", types.RoleMentee)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	titles := []string{"a", "b", "c", "d", "e"}
	for _, title := range titles {
		if _, err := repo.Create(dbc, []*types.Notification{{UserID: owner.ID, Title: title, Message: "m", CreatedAt: at}}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByUser(dbc, owner.ID, ListFilter{})
	if err != nil || len(list) != len(titles) {
		t.Fatalf("ListByUser: err=%v got=%d", err, len(list))
	}
	for i, n := range list {
		want := titles[len(titles)-1-i]
		if n.Title != want {
			t.Fatalf("position %d: want=%s got=%s", i, want, n.Title)
		}
	}
}
