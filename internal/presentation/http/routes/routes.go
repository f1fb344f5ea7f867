package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/billing-api/internal/config"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/pkg/metrics"
	"github.com/sangkips/billing-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Company   *handler.CompanyHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Invoice   *handler.InvoiceHandler
	Balance   *handler.BalanceHandler
	Import    *handler.ImportHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	Gatherer        prometheus.Gatherer
	RateLimiter     *middleware.CompanyRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/health", h.Health.Check)

		// Public routes, plus operator registration
		registerAuthRoutes(api, h, deps)

		protected := api.Group("")
		if deps.Cfg.Auth.Enabled {
			protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		} else {
			protected.Use(middleware.OptionalAuthMiddleware(deps.JWTManager))
		}
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(api *gin.RouterGroup, h *Handlers, deps *Deps) {
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		if deps.Cfg.Auth.Enabled {
			auth.POST("/register", middleware.AuthMiddleware(deps.JWTManager), middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)
		} else {
			auth.POST("/register", middleware.OptionalAuthMiddleware(deps.JWTManager), h.Auth.Register)
		}
		auth.GET("/me", middleware.AuthMiddleware(deps.JWTManager), h.Auth.Me)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Companies
	companies := protected.Group("/companies")
	{
		companies.GET("", h.Company.List)
		companies.POST("", h.Company.Create)
		companies.GET("/:id", h.Company.Get)
		companies.PUT("/:id", h.Company.Update)
	}

	// Products
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
	}

	// Balances, payments and reminders
	balances := protected.Group("/balances")
	{
		balances.GET("", h.Balance.List)
		balances.POST("", h.Balance.Create)
		balances.GET("/pending/count", h.Balance.PendingCount)
		balances.GET("/customer/:customerId", h.Balance.ListByCustomer)
		balances.POST("/send-auto-reminders", h.Balance.SendAutoReminders)
		balances.POST("/import", h.Import.ImportBalances)
		balances.POST("/import/upload", h.Import.UploadStatement)
		balances.GET("/:id", h.Balance.Get)
		balances.POST("/:id/payment", h.Balance.RecordPayment)
		balances.POST("/:id/send-reminder", h.Balance.SendReminder)
	}

	// Messaging settings
	protected.GET("/messaging-settings", h.Settings.GetSettings)
	protected.POST("/messaging-settings", h.Settings.SaveSettings)

	// Dashboard and reports
	protected.GET("/dashboard/stats", h.Dashboard.GetStats)
	protected.GET("/reports/gst", h.Dashboard.GSTReport)
}
