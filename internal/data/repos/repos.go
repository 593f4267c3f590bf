package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/mentorship-backend/internal/data/repos/access"
	"github.com/yungbote/mentorship-backend/internal/data/repos/auth"
	"github.com/yungbote/mentorship-backend/internal/data/repos/catalog"
	"github.com/yungbote/mentorship-backend/internal/data/repos/grading"
	"github.com/yungbote/mentorship-backend/internal/data/repos/notify"
	"github.com/yungbote/mentorship-backend/internal/data/repos/schedule"
	"github.com/yungbote/mentorship-backend/internal/data/repos/support"
	"github.com/yungbote/mentorship-backend/internal/data/repos/user"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserListFilter = user.ListFilter
type UserTokenRepo = auth.UserTokenRepo

type ModuleRepo = catalog.ModuleRepo
type LessonRepo = catalog.LessonRepo

type ModuleAccessRepo = access.ModuleAccessRepo
type LessonAccessRepo = access.LessonAccessRepo

type SubmissionRepo = grading.SubmissionRepo
type SubmissionEvaluation = grading.Evaluation
type SubmissionQueueFilter = grading.QueueFilter

type NotificationRepo = notify.NotificationRepo
type NotificationListFilter = notify.ListFilter

type TicketRepo = support.TicketRepo
type TicketFilter = support.TicketFilter

type StudySessionRepo = schedule.StudySessionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return catalog.NewModuleRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return catalog.NewLessonRepo(db, baseLog)
}

func NewModuleAccessRepo(db *gorm.DB, baseLog *logger.Logger) ModuleAccessRepo {
	return access.NewModuleAccessRepo(db, baseLog)
}
func NewLessonAccessRepo(db *gorm.DB, baseLog *logger.Logger) LessonAccessRepo {
	return access.NewLessonAccessRepo(db, baseLog)
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return grading.NewSubmissionRepo(db, baseLog)
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return notify.NewNotificationRepo(db, baseLog)
}

func NewTicketRepo(db *gorm.DB, baseLog *logger.Logger) TicketRepo {
	return support.NewTicketRepo(db, baseLog)
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return schedule.NewStudySessionRepo(db, baseLog)
}
