package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/interfac/user-manager/docs"
	"github.com/interfac/user-manager/internal/api/handler"
	"github.com/interfac/user-manager/internal/api/middleware"
	"github.com/interfac/user-manager/internal/core/domain"
	"github.com/interfac/user-manager/internal/core/ports"
	"github.com/interfac/user-manager/internal/infrastructure/http/handlers"
)

// Deps carries the constructed services the router wires to routes.
type Deps struct {
	Users     ports.UserService
	Auth      ports.AuthService
	JWTSecret string
	Mongo     *mongo.Database
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("usermanager"))

	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)
	authed := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	anyRole := middleware.RequireRoles(domain.RoleAdmin, domain.RoleUser)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- User management (admin only, except self-service routes) ---
	users := e.Group("/users", authed)
	users.POST("", userHandler.Register, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/search", userHandler.Search, adminOnly)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PUT("/:id", userHandler.Edit, anyRole) // owner-or-admin enforced in the handler
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	e.GET("/profile", userHandler.Profile, authed, anyRole)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
