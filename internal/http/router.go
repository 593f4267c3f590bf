package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	httpH "github.com/yungbote/mentorship-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mentorship-backend/internal/http/middleware"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthHandler         *httpH.AuthHandler
	AuthMiddleware      *httpMW.AuthMiddleware
	UserHandler         *httpH.UserHandler
	CatalogHandler      *httpH.CatalogHandler
	AccessHandler       *httpH.AccessHandler
	SubmissionHandler   *httpH.SubmissionHandler
	NotificationHandler *httpH.NotificationHandler
	TicketHandler       *httpH.TicketHandler
	ScheduleHandler     *httpH.ScheduleHandler
	RealtimeHandler     *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if err := httpMW.RegisterValidators(); err != nil && cfg.Log != nil {
		cfg.Log.Warn("Request validators not registered", "error", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	admin := protected.Group("/", httpMW.RequireRole(types.RoleAdmin))
	reviewers := protected.Group("/", httpMW.RequireRole(types.RoleAdmin, types.RoleMentor))

	if cfg.AuthHandler != nil {
		protected.POST("/logout", cfg.AuthHandler.Logout)
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
	}

	// Users
	if cfg.UserHandler != nil {
		protected.GET("/me", cfg.UserHandler.GetMe)
		protected.PATCH("/me", cfg.UserHandler.UpdateMe)
		protected.PUT("/me/avatar", cfg.UserHandler.UploadAvatar)
		admin.GET("/users", cfg.UserHandler.ListUsers)
		admin.PATCH("/users/:id/role", cfg.UserHandler.UpdateRole)
		admin.PATCH("/users/:id/mentor", cfg.UserHandler.AssignMentor)
		reviewers.GET("/mentees", cfg.UserHandler.ListMentees)
	}

	// Catalog
	if cfg.CatalogHandler != nil {
		protected.GET("/modules", cfg.CatalogHandler.ListModules)
		protected.GET("/modules/:id/lessons", cfg.CatalogHandler.ListModuleLessons)
		protected.GET("/lessons/:id", cfg.CatalogHandler.GetLesson)
		admin.POST("/modules", cfg.CatalogHandler.CreateModule)
		admin.PATCH("/modules/:id", cfg.CatalogHandler.UpdateModule)
		admin.DELETE("/modules/:id", cfg.CatalogHandler.DeleteModule)
		admin.POST("/modules/:id/lessons", cfg.CatalogHandler.CreateLesson)
		admin.PATCH("/lessons/:id", cfg.CatalogHandler.UpdateLesson)
		admin.DELETE("/lessons/:id", cfg.CatalogHandler.DeleteLesson)
	}

	// Access
	if cfg.AccessHandler != nil {
		reviewers.POST("/access/toggle", cfg.AccessHandler.Toggle)
		protected.GET("/users/:id/visibility", cfg.AccessHandler.Visibility)
	}

	// Submissions
	if cfg.SubmissionHandler != nil {
		protected.POST("/submissions", cfg.SubmissionHandler.Create)
		protected.POST("/submissions/artifacts", cfg.SubmissionHandler.UploadArtifact)
		protected.GET("/submissions/current", cfg.SubmissionHandler.Current)
		reviewers.GET("/submissions/review-queue", cfg.SubmissionHandler.ReviewQueue)
		reviewers.POST("/submissions/:id/evaluate", cfg.SubmissionHandler.Evaluate)
		protected.GET("/users/:id/submissions", cfg.SubmissionHandler.History)
	}

	// Notifications
	if cfg.NotificationHandler != nil {
		protected.GET("/notifications", cfg.NotificationHandler.List)
		protected.GET("/notifications/unread-count", cfg.NotificationHandler.UnreadCount)
		protected.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)
		protected.POST("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		protected.DELETE("/notifications/:id", cfg.NotificationHandler.Delete)
	}

	// Support
	if cfg.TicketHandler != nil {
		protected.POST("/tickets", cfg.TicketHandler.Open)
		protected.GET("/tickets", cfg.TicketHandler.List)
		protected.GET("/tickets/:id", cfg.TicketHandler.Get)
		protected.POST("/tickets/:id/messages", cfg.TicketHandler.PostMessage)
		protected.POST("/tickets/:id/close", cfg.TicketHandler.Close)
	}

	// Schedule
	if cfg.ScheduleHandler != nil {
		protected.POST("/study-sessions", cfg.ScheduleHandler.Create)
		protected.GET("/study-sessions", cfg.ScheduleHandler.List)
		protected.DELETE("/study-sessions/:id", cfg.ScheduleHandler.Delete)
	}

	return r
}
