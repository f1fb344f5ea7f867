package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/application/tax"
	"github.com/sangkips/billing-api/internal/config"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/database"
	"github.com/sangkips/billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/billing-api/internal/infrastructure/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/internal/presentation/http/routes"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/metrics"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "billing-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger.Set(log)
	defer func() { _ = log.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Open(&cfg.Database, log, cfg.App.Debug)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := database.SeedDefaultData(db, database.SeedOptions{
		CompanyName:   cfg.Seed.CompanyName,
		CompanyState:  cfg.Seed.CompanyState,
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
	}, log); err != nil {
		log.Warn("failed to seed default data", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("billing", registry)

	jwtManager := utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.ExpiryHours)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	companyRepo := repository.NewCompanyRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sequenceRepo := repository.NewInvoiceSequenceRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	paymentRepo := repository.NewPaymentHistoryRepository(db)
	reminderRepo := repository.NewReminderLogRepository(db)
	settingsRepo := repository.NewMessagingSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)
	userRepo := repository.NewUserRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	providers := messaging.NewFactory(messaging.Options{
		Timeout:       cfg.Messaging.Timeout,
		TwilioBaseURL: cfg.Messaging.TwilioBaseURL,
		MetaBaseURL:   cfg.Messaging.MetaBaseURL,
	}, log)

	// Initialize services
	authService := service.NewAuthService(userRepo, companyRepo, jwtManager)
	companyService := service.NewCompanyService(companyRepo)
	productService := service.NewProductService(productRepo, companyRepo)
	customerService := service.NewCustomerService(customerRepo, companyRepo)
	invoiceService := service.NewInvoiceService(txManager, invoiceRepo, sequenceRepo, companyRepo, customerRepo, productRepo, balanceRepo,
		service.InvoiceConfig{
			RateMode:  tax.ParseRateMode(cfg.Billing.TaxRateMode),
			Prefix:    cfg.Billing.InvoicePrefix,
			ListLimit: cfg.Billing.InvoiceLimit,
		}, m)
	ledgerService := service.NewLedgerService(txManager, balanceRepo, paymentRepo, customerRepo, companyRepo, m)
	reminderService := service.NewReminderService(txManager, balanceRepo, reminderRepo, settingsRepo, providers, cfg.Messaging.SendsPerSecond, m)
	importService := service.NewImportService(txManager, invoiceRepo, sequenceRepo, companyRepo, customerRepo, balanceRepo,
		service.ImportConfig{
			TaxRate: decimal.NewFromFloat(cfg.Billing.ImportTaxRate),
			Prefix:  cfg.Billing.InvoicePrefix,
		}, m)
	settingsService := service.NewSettingsService(settingsRepo, companyRepo)
	dashboardService := service.NewDashboardService(reportRepo, productRepo, customerRepo, companyRepo)

	handlers := &routes.Handlers{
		Health:    handler.NewHealthHandler(db, cfg.Database.DriverName()),
		Auth:      handler.NewAuthHandler(authService),
		Company:   handler.NewCompanyHandler(companyService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Balance:   handler.NewBalanceHandler(ledgerService, reminderService),
		Import:    handler.NewImportHandler(importService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	rateLimiter := middleware.NewCompanyRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer rateLimiter.Close()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
		Metrics:         m,
		Gatherer:        registry,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
			zap.String("database", cfg.Database.DriverName()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// purgeIdempotencyKeys drops expired replay records once an hour.
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn("failed to purge idempotency keys", zap.Error(err))
			}
		}
	}
}
