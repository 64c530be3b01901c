package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/yungbote/kanoon-backend/internal/data/db"
	"github.com/yungbote/kanoon-backend/internal/http/middleware"
	"github.com/yungbote/kanoon-backend/internal/observability"
	"github.com/yungbote/kanoon-backend/internal/platform/envutil"
	"github.com/yungbote/kanoon-backend/internal/platform/gcp"
	"github.com/yungbote/kanoon-backend/internal/platform/gemini"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/platform/sendgrid"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	ServerTimeout  time.Duration

	DB db.Config

	JWTSecretKey     string
	AccessTokenTTL   time.Duration
	ResetTokenTTL    time.Duration
	PasswordResetURL string

	TemplateDir string
	StaticDir   string
	OutputDir   string

	SofficePath    string
	SofficeTimeout time.Duration
	MaxUploadBytes int64

	GenAI            gemini.Config
	ToolProfilesFile string

	Storage gcp.StorageConfig

	RedisAddr          string
	RateLimitPerMinute int

	SendGrid sendgrid.Config
	Otel     observability.OtelConfig
}

func LoadConfig(log *logger.Logger) (Config, error) {
	storageCfg, err := gcp.ResolveStorageConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("artifact storage config: %w", err)
	}
	staticDir := envutil.String("STATIC_DIR", "static", log)
	cfg := Config{
		Port:           envutil.String("PORT", "8000", log),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins, log),
		ServerTimeout:  envutil.Seconds("HTTP_WRITE_TIMEOUT_SECONDS", 5*time.Minute, log),

		DB: db.ConfigFromEnv(log),

		JWTSecretKey:     envutil.String("JWT_SECRET_KEY", "defaultsecret", nil),
		AccessTokenTTL:   envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour, log),
		ResetTokenTTL:    time.Duration(envutil.Int("RESET_TOKEN_TTL_MINUTES", 15, log)) * time.Minute,
		PasswordResetURL: envutil.String("PASSWORD_RESET_URL", "http://localhost:5173/reset-password", log),

		TemplateDir: envutil.String("TEMPLATE_DIR", "templates", log),
		StaticDir:   staticDir,
		OutputDir:   filepath.Join(staticDir, "outputs"),

		SofficePath:    envutil.String("SOFFICE_PATH", "soffice", log),
		SofficeTimeout: envutil.Seconds("SOFFICE_TIMEOUT_SECONDS", 120*time.Second, log),
		MaxUploadBytes: envutil.Int64("MAX_UPLOAD_BYTES", 25<<20, log),

		GenAI: gemini.Config{
			Backend: gemini.Backend(envutil.String("GENAI_BACKEND", string(gemini.BackendREST), log)),
			BaseURL: envutil.String("GENAI_BASE_URL", "", log),
			Timeout: envutil.Seconds("GENAI_TIMEOUT_SECONDS", 120*time.Second, log),
			Project: envutil.String("GOOGLE_CLOUD_PROJECT", "", log),
			Region:  envutil.String("GOOGLE_CLOUD_REGION", "us-central1", log),
		},
		ToolProfilesFile: envutil.String("TOOL_PROFILES_FILE", "", log),

		Storage: storageCfg,

		RedisAddr:          envutil.String("REDIS_ADDR", "", log),
		RateLimitPerMinute: envutil.Int("RATE_LIMIT_PER_MINUTE", 30, log),

		SendGrid: sendgrid.ConfigFromEnv(log),
		Otel:     observability.OtelConfigFromEnv(log),
	}
	if cfg.JWTSecretKey == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY is not set; using the development secret")
	}
	return cfg, nil
}
