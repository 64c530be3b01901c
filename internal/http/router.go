package http

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/kanoon-backend/internal/documents"
	httpH "github.com/yungbote/kanoon-backend/internal/http/handlers"
	httpMW "github.com/yungbote/kanoon-backend/internal/http/middleware"
	"github.com/yungbote/kanoon-backend/internal/observability"
	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	StaticDir      string
	MaxUploadBytes int64
	Metrics        *observability.Metrics
	RateLimiter    httpMW.Limiter

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	DocumentHandler   *httpH.DocumentHandler
	SummarizerHandler *httpH.SummarizerHandler
	AnalyzerHandler   *httpH.AnalyzerHandler
	FAQHandler        *httpH.FAQHandler
	LearningHandler   *httpH.LearningHandler
	ChatbotHandler    *httpH.ChatbotHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	registerBindingValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	// Accounts
	if cfg.AuthHandler != nil {
		auth := r.Group("/api/auth")
		auth.POST("/signup", cfg.AuthHandler.Signup)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/forgot-password", cfg.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", cfg.AuthHandler.ResetPassword)
		auth.PUT("/update-password", cfg.AuthHandler.UpdatePassword)
		auth.PUT("/update-profile", cfg.AuthHandler.UpdateProfile)
		if cfg.AuthMiddleware != nil {
			auth.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Me)
		}
	}

	v1 := r.Group("/api/v1")
	if cfg.MaxUploadBytes > 0 {
		v1.Use(httpMW.MaxBodyBytes(cfg.MaxUploadBytes))
	}
	if cfg.RateLimiter != nil && cfg.Log != nil {
		v1.Use(httpMW.RateLimit(cfg.Log, cfg.RateLimiter))
	}
	{
		if cfg.DocumentHandler != nil {
			doc := v1.Group("/document")
			doc.POST("/generate-nda", cfg.DocumentHandler.GenerateNDA)
			doc.POST("/generate-affidavit", cfg.DocumentHandler.GenerateAffidavit)
			doc.POST("/generate-rent-agreement", cfg.DocumentHandler.GenerateRentAgreement)
			doc.POST("/generate-sale-deed", cfg.DocumentHandler.GenerateSaleDeed)
			doc.POST("/generate-lease-deed", cfg.DocumentHandler.GenerateLeaseDeed)

			notice := v1.Group("/notice")
			notice.POST("/generate-unpaid-salary-notice", cfg.DocumentHandler.GenerateUnpaidSalaryNotice)
			notice.POST("/generate-loan-repayment-notice", cfg.DocumentHandler.GenerateLoanRepaymentNotice)
		}

		if cfg.SummarizerHandler != nil {
			v1.POST("/summarizer/upload-and-summarize", cfg.SummarizerHandler.UploadAndSummarize)
		}

		if cfg.AnalyzerHandler != nil {
			v1.POST("/analyzer/analyze-fir", cfg.AnalyzerHandler.AnalyzeFIR)
		}

		if cfg.FAQHandler != nil {
			faq := v1.Group("/faq")
			faq.POST("/generate-from-topic", cfg.FAQHandler.GenerateFromTopic)
			faq.POST("/download-pdf", cfg.FAQHandler.DownloadPDF)
			faq.GET("/download/:file_id", cfg.FAQHandler.Download)
		}

		if cfg.LearningHandler != nil {
			learning := v1.Group("/learning")
			learning.POST("/simplify-bare-act", cfg.LearningHandler.SimplifyBareAct)
			learning.POST("/evaluate-answer", cfg.LearningHandler.EvaluateAnswer)
			learning.POST("/research-topic", cfg.LearningHandler.ResearchTopic)
		}

		if cfg.ChatbotHandler != nil {
			v1.POST("/chatbot/query", cfg.ChatbotHandler.Query)
		}
	}

	return r
}

// registerBindingValidators makes gin's binding validator report JSON field
// names and understand notblank, matching documents.Validate.
func registerBindingValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(documents.JSONFieldName)
	_ = v.RegisterValidation("notblank", validators.NotBlank)
}
