package domain

import (
	"github.com/yungbote/mentorship-backend/internal/domain/access"
	"github.com/yungbote/mentorship-backend/internal/domain/auth"
	"github.com/yungbote/mentorship-backend/internal/domain/catalog"
	"github.com/yungbote/mentorship-backend/internal/domain/grading"
	"github.com/yungbote/mentorship-backend/internal/domain/notify"
	"github.com/yungbote/mentorship-backend/internal/domain/schedule"
	"github.com/yungbote/mentorship-backend/internal/domain/support"
	"github.com/yungbote/mentorship-backend/internal/domain/user"
)

type (
	User      = user.User
	Role      = user.Role
	UserToken = auth.UserToken

	Module = catalog.Module
	Lesson = catalog.Lesson

	AccessStatus = access.Status
	AccessKind   = access.Kind
	ModuleAccess = access.ModuleAccess
	LessonAccess = access.LessonAccess

	Submission       = grading.Submission
	SubmissionStatus = grading.Status
	Decision         = grading.Decision

	Notification      = notify.Notification
	NotificationType  = notify.Type
	NotificationEvent = notify.Event

	Ticket        = support.Ticket
	TicketMessage = support.TicketMessage
	TicketStatus  = support.TicketStatus

	StudySession = schedule.StudySession
)

const (
	RoleMentee  = user.RoleMentee
	RoleMentor  = user.RoleMentor
	RoleAdmin   = user.RoleAdmin
	RoleSupport = user.RoleSupport

	AccessNone      = access.StatusNone
	AccessLocked    = access.StatusLocked
	AccessUnlocked  = access.StatusUnlocked
	AccessCompleted = access.StatusCompleted

	KindModule = access.KindModule
	KindLesson = access.KindLesson

	SubmissionPending        = grading.StatusPending
	SubmissionApproved       = grading.StatusApproved
	SubmissionAdjustRequired = grading.StatusAdjustRequired

	DecisionApprove = grading.DecisionApprove
	DecisionReject  = grading.DecisionReject

	NotificationInfo    = notify.TypeInfo
	NotificationSuccess = notify.TypeSuccess
	NotificationWarning = notify.TypeWarning
	NotificationError   = notify.TypeError

	TicketOpen   = support.TicketOpen
	TicketClosed = support.TicketClosed
)

var (
	ParseRole         = user.ParseRole
	ParseAccessStatus = access.ParseStatus
	ParseAccessKind   = access.ParseKind
	ParseDecision     = grading.ParseDecision
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Module{},
		&Lesson{},
		&ModuleAccess{},
		&LessonAccess{},
		&Submission{},
		&Notification{},
		&Ticket{},
		&TicketMessage{},
		&StudySession{},
	}
}
