package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/mentorship-backend/internal/data/db"
	apphttp "github.com/yungbote/mentorship-backend/internal/http"
	"github.com/yungbote/mentorship-backend/internal/observability"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
	"github.com/yungbote/mentorship-backend/internal/platform/sendgrid"
	"github.com/yungbote/mentorship-backend/internal/realtime"
	"github.com/yungbote/mentorship-backend/internal/realtime/bus"
	"github.com/yungbote/mentorship-backend/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub
	Bus      bus.Bus

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	pg, err := db.NewPostgresService(cfg.DB, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}
	a.pg = pg
	a.DB = pg.DB()
	if err := db.AutoMigrateAll(a.DB); err != nil {
		a.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.EnsureIndexes(a.DB); err != nil {
		a.Close()
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	a.SSEHub = realtime.NewSSEHub(log)
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		b, err := bus.NewRedisBus(ctx, cfg.Redis, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init redis bus: %w", err)
		}
		a.Bus = b
	} else {
		log.Warn("REDIS_ADDR not set; realtime events stay on this instance")
		a.Bus = bus.NewLocalBus()
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Clients = clients

	a.Repos = wireRepos(a.DB, log)
	emit := &services.BusEmitter{Bus: a.Bus, Log: log}
	a.Services, err = wireServices(a.DB, log, cfg, a.Repos, clients, emit)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("wire services: %w", err)
	}

	h := wireHandlers(log, a.Services, a.SSEHub)
	a.Server = apphttp.NewServer(apphttp.RouterConfig{
		Log:                 log,
		ServiceName:         tracingName(cfg),
		CORSOrigins:         cfg.CORSOrigins,
		AuthHandler:         h.Auth,
		AuthMiddleware:      h.AuthMiddleware,
		UserHandler:         h.User,
		CatalogHandler:      h.Catalog,
		AccessHandler:       h.Access,
		SubmissionHandler:   h.Submission,
		NotificationHandler: h.Notification,
		TicketHandler:       h.Ticket,
		ScheduleHandler:     h.Schedule,
		RealtimeHandler:     h.Realtime,
		HealthHandler:       h.Health,
	})
	return a, nil
}

func tracingName(cfg Config) string {
	if !cfg.Otel.Enabled {
		return ""
	}
	return cfg.Otel.ServiceName
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients
	if cfg.Storage.Enabled() {
		bucket, err := gcp.NewBucketService(ctx, cfg.Storage, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init bucket client: %w", err)
		}
		c.Bucket = bucket
	} else {
		log.Warn("No storage buckets configured; avatars and artifact uploads are disabled")
	}
	if strings.TrimSpace(cfg.SendGrid.APIKey) != "" {
		mailer, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
		c.Mailer = mailer
	}
	return c, nil
}

// Start launches the bus forwarder that feeds this instance's hub.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	if err := a.Bus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
		cancel()
		a.cancel = nil
		return fmt.Errorf("start sse forwarder: %w", err)
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + strings.TrimPrefix(a.Cfg.Port, ":")
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Notifications != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := a.Services.Notifications.Flush(flushCtx); err != nil {
			a.Log.Warn("pending notification emails not sent", "error", err)
		}
		cancel()
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("bus close failed", "error", err)
		}
	}
	if a.Clients.Bucket != nil {
		_ = a.Clients.Bucket.Close()
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
