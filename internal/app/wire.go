package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/data/repos"
	httpH "github.com/yungbote/mentorship-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mentorship-backend/internal/http/middleware"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/platform/sendgrid"
	"github.com/yungbote/mentorship-backend/internal/realtime"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	Module       repos.ModuleRepo
	Lesson       repos.LessonRepo
	ModuleAccess repos.ModuleAccessRepo
	LessonAccess repos.LessonAccessRepo
	Submission   repos.SubmissionRepo
	Notification repos.NotificationRepo
	Ticket       repos.TicketRepo
	StudySession repos.StudySessionRepo
}

func wireRepos(theDB *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(theDB, log),
		UserToken:    repos.NewUserTokenRepo(theDB, log),
		Module:       repos.NewModuleRepo(theDB, log),
		Lesson:       repos.NewLessonRepo(theDB, log),
		ModuleAccess: repos.NewModuleAccessRepo(theDB, log),
		LessonAccess: repos.NewLessonAccessRepo(theDB, log),
		Submission:   repos.NewSubmissionRepo(theDB, log),
		Notification: repos.NewNotificationRepo(theDB, log),
		Ticket:       repos.NewTicketRepo(theDB, log),
		StudySession: repos.NewStudySessionRepo(theDB, log),
	}
}

// Clients holds optional outbound integrations; nil means not configured.
type Clients struct {
	Bucket gcp.BucketService
	Mailer sendgrid.Client
}

type Services struct {
	Auth          services.AuthService
	Avatar        services.AvatarService
	User          services.UserService
	Catalog       services.CatalogService
	Access        services.AccessService
	Notifications services.NotificationService
	Grading       services.GradingService
	Artifact      services.ArtifactService
	Support       services.SupportService
	Schedule      services.ScheduleService
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, emit services.SSEEmitter) (Services, error) {
	log.Info("Wiring services...")
	tx := db.NewTxRunner(theDB)

	var avatar services.AvatarService
	if c.Bucket != nil {
		a, err := services.NewAvatarService(log, c.Bucket, cfg.Avatar)
		if err != nil {
			return Services{}, err
		}
		avatar = a
	}

	notifications := services.NewNotificationService(log, r.Notification, r.User, emit, c.Mailer, cfg.PublicURL)
	return Services{
		Auth:          services.NewAuthService(log, tx, r.User, r.UserToken, avatar, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Avatar:        avatar,
		User:          services.NewUserService(log, tx, r.User, avatar, emit),
		Catalog:       services.NewCatalogService(log, tx, r.Module, r.Lesson),
		Access:        services.NewAccessService(log, tx, r.User, r.Module, r.Lesson, r.ModuleAccess, r.LessonAccess, emit),
		Notifications: notifications,
		Grading:       services.NewGradingService(log, tx, r.User, r.Module, r.Lesson, r.Submission, r.ModuleAccess, notifications, emit),
		Artifact:      services.NewArtifactService(log, c.Bucket, cfg.MaxArtifactSize),
		Support:       services.NewSupportService(log, tx, r.User, r.Ticket, notifications),
		Schedule:      services.NewScheduleService(log, r.StudySession, r.Module),
	}, nil
}

type Handlers struct {
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Catalog      *httpH.CatalogHandler
	Access       *httpH.AccessHandler
	Submission   *httpH.SubmissionHandler
	Notification *httpH.NotificationHandler
	Ticket       *httpH.TicketHandler
	Schedule     *httpH.ScheduleHandler
	Realtime     *httpH.RealtimeHandler
	Health       *httpH.HealthHandler

	AuthMiddleware *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, s Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:           httpH.NewAuthHandler(s.Auth),
		User:           httpH.NewUserHandler(s.User),
		Catalog:        httpH.NewCatalogHandler(s.Catalog, s.Access),
		Access:         httpH.NewAccessHandler(s.Access),
		Submission:     httpH.NewSubmissionHandler(s.Grading, s.Artifact),
		Notification:   httpH.NewNotificationHandler(s.Notifications),
		Ticket:         httpH.NewTicketHandler(s.Support),
		Schedule:       httpH.NewScheduleHandler(s.Schedule),
		Realtime:       httpH.NewRealtimeHandler(log, hub),
		Health:         httpH.NewHealthHandler(),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}
