package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
)

func TestModuleAndLessonRepo(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	modules := NewModuleRepo(db, log)
	lessons := NewLessonRepo(db, log)
	dbc := dbctx.Context{Ctx: context.Background()}

	second := testutil.SeedModule(t, db, "Second", 2)
	first := testutil.SeedModule(t, db, "First", 1)

	list, err := modules.List(dbc)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("List: expected position order")
	}

	l2 := testutil.SeedLesson(t, db, first.ID, "Two", 2)
	l1 := testutil.SeedLesson(t, db, first.ID, "One", 1)
	testutil.SeedLesson(t, db, second.ID, "Other", 1)

	got, err := lessons.ListByModule(dbc, first.ID)
	if err != nil || len(got) != 2 || got[0].ID != l1.ID || got[1].ID != l2.ID {
		t.Fatalf("ListByModule: err=%v got=%d", err, len(got))
	}
	all, err := lessons.ListByModules(dbc, []uuid.UUID{first.ID, second.ID})
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByModules: err=%v got=%d", err, len(all))
	}

	if n, err := modules.Update(dbc, first.ID, map[string]any{"title": "Intro"}); err != nil || n != 1 {
		t.Fatalf("Update: err=%v rows=%d", err, n)
	}
	if m, err := modules.GetByTitle(dbc, "Intro"); err != nil || m.ID != first.ID {
		t.Fatalf("GetByTitle: err=%v", err)
	}

	u := testutil.SeedUser(t, db, "cat@example.com", types.RoleMentee)
	testutil.SeedModuleAccess(t, db, u.ID, first.ID, types.AccessUnlocked)
	testutil.SeedLessonAccess(t, db, u.ID, l1.ID, types.AccessLocked)

	if n, err := modules.Delete(dbc, first.ID); err != nil || n != 1 {
		t.Fatalf("Delete: err=%v rows=%d", err, n)
	}
	var remaining int64
	db.Model(&types.LessonAccess{}).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("Delete: expected lesson access cleanup, got %d", remaining)
	}
	db.Model(&types.Lesson{}).Where("module_id = ?", first.ID).Count(&remaining)
	if remaining != 0 {
		t.Fatalf("Delete: expected lessons removed, got %d", remaining)
	}
	if _, err := modules.GetByID(dbc, first.ID); err == nil {
		t.Fatalf("GetByID: expected not found after delete")
	}
}
