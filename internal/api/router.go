package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cabletrack/stb-billing/internal/api/handler"
	"github.com/cabletrack/stb-billing/internal/api/middleware"
	"github.com/cabletrack/stb-billing/internal/core/domain"
	"github.com/cabletrack/stb-billing/internal/core/ports"
)

// Dependencies carries everything the router needs. Services are constructed
// in main so the HTTP layer never reaches into repositories.
type Dependencies struct {
	Customers ports.CustomerService
	Ledger    ports.LedgerService
	Reports   ports.ReportService
	Auth      ports.AuthService
	Users     ports.UserService
	Settings  ports.SettingsService

	Mongo *mongo.Database
	Redis *redis.Client

	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("billing"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	customerHandler := handler.NewCustomerHandler(deps.Customers, deps.Ledger)
	stbHandler := handler.NewSTBHandler(deps.Ledger)
	transactionHandler := handler.NewTransactionHandler(deps.Ledger)
	reportHandler := handler.NewReportHandler(deps.Reports)
	settingsHandler := handler.NewSettingsHandler(deps.Settings)
	userHandler := handler.NewUserHandler(deps.Users)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	activeOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleEditor)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes ---
	e.POST("/auth/change-password", authHandler.ChangePassword, authMiddleware, activeOnly)

	// INACTIVE accounts authenticate fine but every /v1 route answers 403.
	v1 := e.Group("/v1", authMiddleware, activeOnly)

	v1.GET("/customers", customerHandler.List)
	v1.POST("/customers", customerHandler.Create)
	v1.GET("/customers/:id", customerHandler.Get)
	v1.PUT("/customers/:id", customerHandler.Update)
	v1.DELETE("/customers/:id", customerHandler.Delete)
	v1.POST("/customers/:id/funds", customerHandler.AddFunds)
	v1.POST("/customers/:id/stbs", customerHandler.AssignSTB)

	v1.GET("/stbs", stbHandler.List)
	v1.PUT("/stbs/:id", stbHandler.Update)
	v1.DELETE("/stbs/:id", stbHandler.Delete)

	v1.GET("/transactions", transactionHandler.List)
	v1.PUT("/transactions/:id", transactionHandler.Update)
	v1.DELETE("/transactions/:id", transactionHandler.Delete)

	v1.GET("/reports", reportHandler.Get)

	v1.GET("/settings", settingsHandler.Get)
	v1.PUT("/settings", settingsHandler.Update, adminOnly)

	v1.GET("/users", userHandler.List, adminOnly)
	v1.POST("/users", userHandler.Create, adminOnly)
	v1.PUT("/users/:id", userHandler.Update, adminOnly)
	v1.DELETE("/users/:id", userHandler.Delete, adminOnly)

	return e
}
