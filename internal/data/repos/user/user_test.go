package user

import (
	"context"
	"testing"

	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	created, err := repo.Create(dbc, []*types.User{
		{Email: "userrepo@example.com", Password: "pw", FirstName: "A", LastName: "B"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].Role != types.RoleMentee {
		t.Fatalf("Create: expected one MENTEE, got %+v", created)
	}

	got, err := repo.GetByEmail(dbc, "userrepo@example.com")
	if err != nil || got.ID != created[0].ID {
		t.Fatalf("GetByEmail: err=%v got=%+v", err, got)
	}
	if exists, err := repo.EmailExists(dbc, "nobody@example.com"); err != nil || exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}

	mentor := testutil.SeedUser(t, db, "mentor@example.com", types.RoleMentor)
	if n, err := repo.UpdateMentor(dbc, created[0].ID, &mentor.ID); err != nil || n != 1 {
		t.Fatalf("UpdateMentor: err=%v rows=%d", err, n)
	}
	mentees, err := repo.ListMentees(dbc, mentor.ID)
	if err != nil || len(mentees) != 1 || mentees[0].ID != created[0].ID {
		t.Fatalf("ListMentees: err=%v got=%d", err, len(mentees))
	}

	if n, err := repo.UpdateRole(dbc, created[0].ID, types.RoleAdmin); err != nil || n != 1 {
		t.Fatalf("UpdateRole: err=%v rows=%d", err, n)
	}
	admins, err := repo.ListByRole(dbc, types.RoleAdmin)
	if err != nil || len(admins) != 1 {
		t.Fatalf("ListByRole: err=%v got=%d", err, len(admins))
	}

	if err := repo.ClearMentorFor(dbc, mentor.ID); err != nil {
		t.Fatalf("ClearMentorFor: %v", err)
	}
	reloaded, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || reloaded.MentorID != nil {
		t.Fatalf("ClearMentorFor: err=%v mentor=%v", err, reloaded.MentorID)
	}

	page, total, err := repo.List(dbc, ListFilter{Limit: 1})
	if err != nil || total != 2 || len(page) != 1 {
		t.Fatalf("List: err=%v total=%d page=%d", err, total, len(page))
	}
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background()}

	testutil.SeedUser(t, db, "dup@example.com", types.RoleMentee)
	if _, err := repo.Create(dbc, []*types.User{{Email: "dup@example.com", Password: "pw"}}); err == nil {
		t.Fatalf("expected unique violation")
	}
}
