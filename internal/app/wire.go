package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	artifactrepo "github.com/yungbote/kanoon-backend/internal/data/repos/artifact"
	userrepo "github.com/yungbote/kanoon-backend/internal/data/repos/user"
	"github.com/yungbote/kanoon-backend/internal/documents"
	"github.com/yungbote/kanoon-backend/internal/extraction"
	httpserver "github.com/yungbote/kanoon-backend/internal/http"
	httpH "github.com/yungbote/kanoon-backend/internal/http/handlers"
	httpMW "github.com/yungbote/kanoon-backend/internal/http/middleware"
	"github.com/yungbote/kanoon-backend/internal/observability"
	"github.com/yungbote/kanoon-backend/internal/platform/gemini"
	"github.com/yungbote/kanoon-backend/internal/platform/localmedia"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
	"github.com/yungbote/kanoon-backend/internal/platform/redis"
	"github.com/yungbote/kanoon-backend/internal/platform/sendgrid"
	"github.com/yungbote/kanoon-backend/internal/services"
)

type Repos struct {
	User     userrepo.UserRepo
	Artifact artifactrepo.ArtifactRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:     userrepo.NewUserRepo(db, log),
		Artifact: artifactrepo.NewArtifactRepo(db, log),
	}
}

type Clients struct {
	GenAI     gemini.Client
	Converter localmedia.Tools
	Publisher documents.Publisher
	Mail      sendgrid.Client
	// Limiter is nil when REDIS_ADDR is unset or unreachable.
	Limiter *redis.Limiter
}

// wireClients builds the external clients. Closers are returned even on
// error so the caller can release what was opened.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, []func() error, error) {
	log.Info("Wiring clients...")
	var (
		out     Clients
		closers []func() error
	)

	genai, closeGenAI, err := gemini.New(ctx, log, cfg.GenAI)
	if err != nil {
		return out, closers, fmt.Errorf("init generative client: %w", err)
	}
	closers = append(closers, closeGenAI)
	out.GenAI = genai

	out.Converter = localmedia.New(log, localmedia.Config{SofficePath: cfg.SofficePath, Timeout: cfg.SofficeTimeout})
	if err := out.Converter.AssertReady(ctx); err != nil {
		log.Warn("PDF conversion unavailable; documents will be returned as DOCX only", "error", err)
	}

	out.Publisher, err = resolvePublisher(ctx, log, cfg.Storage)
	if err != nil {
		return out, closers, err
	}

	if mail, err := sendgrid.New(log, cfg.SendGrid); err != nil {
		log.Warn("SendGrid disabled; password reset links will only be logged", "error", err)
	} else {
		out.Mail = mail
	}

	if cfg.RedisAddr != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis unavailable; rate limiting disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			closers = append(closers, rdb.Close)
			out.Limiter = redis.NewLimiter(log, rdb, cfg.RateLimitPerMinute, 0)
		}
	}
	return out, closers, nil
}

type Services struct {
	Pipeline   *documents.Pipeline
	Auth       services.AuthService
	Documents  services.DocumentService
	Summarizer services.SummarizerService
	Analyzer   services.AnalyzerService
	FAQ        services.FAQService
	Learning   services.LearningService
	Chatbot    services.ChatbotService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	profiles, err := loadToolProfiles(cfg.ToolProfilesFile)
	if err != nil {
		return Services{}, err
	}

	pipeline, err := documents.NewPipeline(log, documents.PipelineConfig{
		OutputDir: cfg.OutputDir,
		Loader:    documents.NewLoader(cfg.TemplateDir),
		Converter: clients.Converter,
		Publisher: clients.Publisher,
		Observer:  metrics,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init document pipeline: %w", err)
	}
	adapter := extraction.NewAdapter(log, clients.GenAI, metrics)

	mailer := services.NewMailer(log, clients.Mail, cfg.ResetTokenTTL)
	auth := services.NewAuthService(db, log, repos.User, mailer, services.AuthConfig{
		JWTSecret:        cfg.JWTSecretKey,
		AccessTTL:        cfg.AccessTokenTTL,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		PasswordResetURL: cfg.PasswordResetURL,
	})

	return Services{
		Pipeline:   pipeline,
		Auth:       auth,
		Documents:  services.NewDocumentService(log, pipeline, repos.Artifact),
		Summarizer: services.NewSummarizerService(log, adapter, pipeline, repos.Artifact, profiles.tool(log, extraction.CaseSummarizer)),
		Analyzer:   services.NewAnalyzerService(log, adapter, profiles.tool(log, extraction.FIRAnalyzer)),
		FAQ:        services.NewFAQService(log, adapter, pipeline, profiles.tool(log, extraction.FAQBuilder)),
		Learning: services.NewLearningService(log, adapter, services.LearningTools{
			Simplifier: profiles.tool(log, extraction.BareActSimplifier),
			Evaluator:  profiles.tool(log, extraction.AnswerEvaluator),
			Researcher: profiles.tool(log, extraction.LegalResearcher),
		}),
		Chatbot: services.NewChatbotService(log, adapter, profiles.tool(log, extraction.Chatbot)),
	}, nil
}

type Handlers struct {
	Auth       *httpH.AuthHandler
	Documents  *httpH.DocumentHandler
	Summarizer *httpH.SummarizerHandler
	Analyzer   *httpH.AnalyzerHandler
	FAQ        *httpH.FAQHandler
	Learning   *httpH.LearningHandler
	Chatbot    *httpH.ChatbotHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       httpH.NewAuthHandler(log, s.Auth),
		Documents:  httpH.NewDocumentHandler(log, s.Documents),
		Summarizer: httpH.NewSummarizerHandler(log, s.Summarizer),
		Analyzer:   httpH.NewAnalyzerHandler(log, s.Analyzer),
		FAQ:        httpH.NewFAQHandler(log, s.FAQ),
		Learning:   httpH.NewLearningHandler(log, s.Learning),
		Chatbot:    httpH.NewChatbotHandler(log, s.Chatbot),
		Health:     httpH.NewHealthHandler(),
	}
}

func wireRouter(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics, s Services, h Handlers) httpserver.RouterConfig {
	rc := httpserver.RouterConfig{
		Log:            log,
		ServiceName:    cfg.Otel.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Metrics:        metrics,

		AuthHandler:    h.Auth,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),

		DocumentHandler:   h.Documents,
		SummarizerHandler: h.Summarizer,
		AnalyzerHandler:   h.Analyzer,
		FAQHandler:        h.FAQ,
		LearningHandler:   h.Learning,
		ChatbotHandler:    h.Chatbot,

		HealthHandler: h.Health,
	}
	if clients.Limiter != nil {
		rc.RateLimiter = clients.Limiter
	}
	return rc
}
