package routes

import (
	"time"

	"github.com/facturio/facturio-api/internal/config"
	domainRepo "github.com/facturio/facturio-api/internal/domain/repository"
	"github.com/facturio/facturio-api/internal/presentation/http/handler"
	"github.com/facturio/facturio-api/internal/presentation/http/middleware"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Client       *handler.ClientHandler
	PaymentTerms *handler.PaymentTermsHandler
	Quote        *handler.QuoteHandler
	Invoice      *handler.InvoiceHandler
	Dashboard    *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		// Replay protection for retried mutations
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/google", h.Auth.GoogleRedirect)
		auth.GET("/google/callback", h.Auth.GoogleLogin)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	// Clients
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}

	// Payment terms templates
	terms := protected.Group("/payment-terms")
	{
		terms.GET("", h.PaymentTerms.List)
		terms.POST("", h.PaymentTerms.Create)
		terms.GET("/suggest", h.PaymentTerms.Suggest)
		terms.GET("/:id", h.PaymentTerms.Get)
		terms.PUT("/:id", h.PaymentTerms.Update)
		terms.DELETE("/:id", h.PaymentTerms.Delete)
	}

	// Quotes and their lifecycle
	quotes := protected.Group("/quotes")
	{
		quotes.GET("", h.Quote.List)
		quotes.POST("", h.Quote.Create)
		quotes.GET("/:id", h.Quote.Get)
		quotes.PUT("/:id", h.Quote.Update)
		quotes.DELETE("/:id", h.Quote.Delete)
		quotes.POST("/:id/send", h.Quote.Send)
		quotes.POST("/:id/accept", h.Quote.Accept)
		quotes.POST("/:id/refuse", h.Quote.Refuse)
		quotes.GET("/:id/history", h.Quote.History)
		quotes.GET("/:id/plan", h.Quote.Plan)
		quotes.POST("/:id/installments", h.Quote.CreateInstallment)
	}

	// Invoices and their lifecycle
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.POST("/:id/finalize", h.Invoice.Finalize)
		invoices.POST("/:id/send", h.Invoice.Send)
		invoices.POST("/:id/pay", h.Invoice.MarkPaid)
	}
}
