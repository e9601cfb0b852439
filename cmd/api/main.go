package main

import (
	"log"
	"os"

	"github.com/facturio/facturio-api/internal/application/service"
	"github.com/facturio/facturio-api/internal/config"
	"github.com/facturio/facturio-api/internal/infrastructure/database"
	"github.com/facturio/facturio-api/internal/infrastructure/repository"
	"github.com/facturio/facturio-api/internal/presentation/http/handler"
	"github.com/facturio/facturio-api/internal/presentation/http/routes"
	"github.com/facturio/facturio-api/pkg/email"
	"github.com/facturio/facturio-api/pkg/notify"
	"github.com/facturio/facturio-api/pkg/oauth"
	"github.com/facturio/facturio-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default installment templates
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	clientRepo := repository.NewClientRepository(db)
	termsRepo := repository.NewPaymentTermsRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	quoteLineRepo := repository.NewQuoteLineRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invoiceLineRepo := repository.NewInvoiceLineRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize email service and notification dispatcher
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})
	dispatcher := notify.NewDispatcher(emailService)

	// Initialize the Google sign-in verifier
	googleVerifier := oauth.NewGoogleVerifier(oauth.GoogleConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, tenantRepo, jwtManager, googleVerifier)
	clientService := service.NewClientService(clientRepo)
	termsService := service.NewPaymentTermsService(termsRepo)
	quoteService := service.NewQuoteService(quoteRepo, quoteLineRepo, invoiceRepo, clientRepo, termsRepo)
	installmentService := service.NewInstallmentService(quoteRepo, invoiceRepo, invoiceLineRepo, termsRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, invoiceLineRepo, quoteRepo, clientRepo, dispatcher)
	historyService := service.NewHistoryService(quoteRepo)
	dashboardService := service.NewDashboardService(analyticsRepo)

	// Initialize handlers
	h := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Client:       handler.NewClientHandler(clientService),
		PaymentTerms: handler.NewPaymentTermsHandler(termsService),
		Quote:        handler.NewQuoteHandler(quoteService, installmentService, historyService),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}

	router := routes.Setup(h, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	log.Printf("Starting %s on port %s", cfg.App.Name, port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
