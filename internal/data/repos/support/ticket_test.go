package support

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
)

func TestTicketRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewTicketRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	owner := testutil.SeedUser(t, db, "t-owner@example.com", types.RoleMentee)
	agent := testutil.SeedUser(t, db, "t-agent@example.com", types.RoleSupport)

	ticket, err := repo.Create(dbc, &types.Ticket{OwnerID: owner.ID, Subject: "Help"})
	if err != nil || ticket.Status != types.TicketOpen {
		t.Fatalf("Create: err=%v status=%v", err, ticket.Status)
	}
	if _, err := repo.AddMessage(dbc, &types.TicketMessage{TicketID: ticket.ID, AuthorID: owner.ID, Body: "hi"}); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := repo.AddMessage(dbc, &types.TicketMessage{TicketID: ticket.ID, AuthorID: agent.ID, Body: "hello"}); err != nil {
		t.Fatalf("AddMessage: %v", err)
	}

	got, err := repo.GetByID(dbc, ticket.ID, true)
	if err != nil || len(got.Messages) != 2 || got.Messages[0].Body != "hi" {
		t.Fatalf("GetByID: err=%v messages=%d", err, len(got.Messages))
	}

	if n, _ := repo.Assign(dbc, ticket.ID, agent.ID); n != 1 {
		t.Fatalf("Assign: want=1 got=%d", n)
	}
	if n, _ := repo.Assign(dbc, ticket.ID, owner.ID); n != 0 {
		t.Fatalf("Assign keeps the first agent, rows=%d", n)
	}

	mine, err := repo.List(dbc, TicketFilter{OwnerID: &owner.ID})
	if err != nil || len(mine) != 1 {
		t.Fatalf("List: err=%v len=%d", err, len(mine))
	}

	if n, err := repo.Close(dbc, ticket.ID, time.Now().UTC()); err != nil || n != 1 {
		t.Fatalf("Close: err=%v rows=%d", err, n)
	}
	if n, _ := repo.Close(dbc, ticket.ID, time.Now().UTC()); n != 0 {
		t.Fatalf("Close twice: rows=%d", n)
	}
	open, _ := repo.List(dbc, TicketFilter{Status: types.TicketOpen})
	if len(open) != 0 {
		t.Fatalf("List(open): want=0 got=%d", len(open))
	}
}
