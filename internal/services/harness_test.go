package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/realtime"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) events(event realtime.SSEEvent) []realtime.SSEMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []realtime.SSEMessage
	for _, m := range e.msgs {
		if m.Event == event {
			out = append(out, m)
		}
	}
	return out
}

// failingNotificationRepo rejects every insert.
type failingNotificationRepo struct {
	repos.NotificationRepo
}

func (failingNotificationRepo) Create(dbctx.Context, []*types.Notification) ([]*types.Notification, error) {
	return nil, errors.New("notification store down")
}

// failingPromoteRepo reads through but fails every promotion.
type failingPromoteRepo struct {
	repos.ModuleAccessRepo
}

func (failingPromoteRepo) PromoteIfExists(dbctx.Context, uuid.UUID, uuid.UUID, *uuid.UUID) (int64, error) {
	return 0, errors.New("access store down")
}

type harnessOptions struct {
	notifyRepo   repos.NotificationRepo
	moduleAccess func(repos.ModuleAccessRepo) repos.ModuleAccessRepo
}

type harness struct {
	db   *gorm.DB
	emit *recordingEmitter

	users         repos.UserRepo
	modules       repos.ModuleRepo
	lessons       repos.LessonRepo
	moduleAccess  repos.ModuleAccessRepo
	lessonAccess  repos.LessonAccessRepo
	submissions   repos.SubmissionRepo
	notifyRepo    repos.NotificationRepo
	tickets       repos.TicketRepo
	studySessions repos.StudySessionRepo

	notifications NotificationService
	access        AccessService
	grading       GradingService
	support       SupportService
	schedule      ScheduleService
	catalog       CatalogService
	user          UserService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, harnessOptions{})
}

// newHarnessWith lets a test swap or wrap repos the services write through.
func newHarnessWith(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	h := &harness{
		db:            gdb,
		emit:          &recordingEmitter{},
		users:         repos.NewUserRepo(gdb, log),
		modules:       repos.NewModuleRepo(gdb, log),
		lessons:       repos.NewLessonRepo(gdb, log),
		moduleAccess:  repos.NewModuleAccessRepo(gdb, log),
		lessonAccess:  repos.NewLessonAccessRepo(gdb, log),
		submissions:   repos.NewSubmissionRepo(gdb, log),
		notifyRepo:    repos.NewNotificationRepo(gdb, log),
		tickets:       repos.NewTicketRepo(gdb, log),
		studySessions: repos.NewStudySessionRepo(gdb, log),
	}
	if opts.notifyRepo != nil {
		h.notifyRepo = opts.notifyRepo
	}
	gradingAccess := h.moduleAccess
	if opts.moduleAccess != nil {
		gradingAccess = opts.moduleAccess(h.moduleAccess)
	}
	tx := db.NewTxRunner(gdb)
	h.notifications = NewNotificationService(log, h.notifyRepo, h.users, h.emit, nil, "")
	h.access = NewAccessService(log, tx, h.users, h.modules, h.lessons, h.moduleAccess, h.lessonAccess, h.emit)
	h.grading = NewGradingService(log, tx, h.users, h.modules, h.lessons, h.submissions, gradingAccess, h.notifications, h.emit)
	h.support = NewSupportService(log, tx, h.users, h.tickets, h.notifications)
	h.schedule = NewScheduleService(log, h.studySessions, h.modules)
	h.catalog = NewCatalogService(log, tx, h.modules, h.lessons)
	h.user = NewUserService(log, tx, h.users, nil, h.emit)
	return h
}

func principal(u *types.User) authz.Principal {
	return authz.Principal{UserID: u.ID, Role: u.Role}
}

func (h *harness) notificationsFor(t *testing.T, u *types.User) []*types.Notification {
	t.Helper()
	var rows []*types.Notification
	if err := h.db.Where("user_id = ?", u.ID).Order("created_at ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	return rows
}

func testDBC() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func testUserFilter(role types.Role) repos.UserListFilter {
	return repos.UserListFilter{Role: role}
}
