package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/mentorship-backend/internal/data/db"
	"github.com/yungbote/mentorship-backend/internal/observability"
	"github.com/yungbote/mentorship-backend/internal/platform/envutil"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
	"github.com/yungbote/mentorship-backend/internal/platform/sendgrid"
	"github.com/yungbote/mentorship-backend/internal/realtime/bus"
	"github.com/yungbote/mentorship-backend/internal/services"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Env         string
	Port        string
	PublicURL   string
	CORSOrigins []string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DB       db.Config
	Redis    bus.Config
	Storage  gcp.StorageConfig
	SendGrid sendgrid.Config
	Avatar   services.AvatarConfig
	Otel     observability.OtelConfig

	MaxArtifactSize int64
}

func LoadConfig() Config {
	env := envutil.String("APP_ENV", "development")
	return Config{
		Env:         env,
		Port:        envutil.String("PORT", "8080"),
		PublicURL:   strings.TrimRight(envutil.String("PUBLIC_URL", "http://localhost:5173"), "/"),
		CORSOrigins: envutil.List("CORS_ORIGINS", nil),

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour),

		DB: db.Config{
			Driver:          envutil.String("DB_DRIVER", "postgres"),
			DSN:             envutil.String("DATABASE_URL", ""),
			Host:            envutil.String("POSTGRES_HOST", "localhost"),
			Port:            envutil.String("POSTGRES_PORT", "5432"),
			User:            envutil.String("POSTGRES_USER", "postgres"),
			Password:        envutil.String("POSTGRES_PASSWORD", ""),
			Name:            envutil.String("POSTGRES_NAME", "mentorship"),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: envutil.Seconds("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			SlowThreshold:   time.Duration(envutil.Int("DB_SLOW_MS", 1000)) * time.Millisecond,
		},
		Redis: bus.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Channel:  envutil.String("REDIS_SSE_CHANNEL", ""),
		},
		Storage: gcp.StorageConfig{
			Mode:           gcp.StorageMode(envutil.String("OBJECT_STORAGE_MODE", "")),
			EmulatorHost:   envutil.String("STORAGE_EMULATOR_HOST", ""),
			Credentials:    envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""),
			AvatarBucket:   envutil.String("AVATAR_GCS_BUCKET_NAME", ""),
			AvatarCDN:      envutil.String("AVATAR_CDN_DOMAIN", ""),
			ArtifactBucket: envutil.String("ARTIFACT_GCS_BUCKET_NAME", ""),
			ArtifactCDN:    envutil.String("ARTIFACT_CDN_DOMAIN", ""),
			PublicBaseURL:  envutil.String("STORAGE_PUBLIC_BASE_URL", ""),
		},
		SendGrid: sendgrid.Config{
			APIKey:           envutil.String("SENDGRID_API_KEY", ""),
			BaseURL:          envutil.String("SENDGRID_BASE_URL", ""),
			DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
			DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "Mentorship"),
			SubjectPrefix:    envutil.String("SENDGRID_SUBJECT_PREFIX", ""),
			MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 3),
		},
		Avatar: services.AvatarConfig{
			ColorsPath: envutil.String("AVATAR_COLORS_PATH", ""),
			FontPath:   envutil.String("AVATAR_FONT_PATH", ""),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "mentorship-api"),
			Environment: env,
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},

		MaxArtifactSize: int64(envutil.Int("MAX_ARTIFACT_BYTES", services.DefaultMaxArtifactSize)),
	}
}

// Validate rejects settings that are unsafe outside development.
func (c Config) Validate() error {
	if c.Env == "production" && (c.JWTSecretKey == "" || c.JWTSecretKey == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.Storage.Enabled() {
		if err := c.Storage.Normalize().Validate(); err != nil {
			return err
		}
	}
	return nil
}
