package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/shopstack/accounts-api/docs"
	"github.com/shopstack/accounts-api/internal/api/handler"
	"github.com/shopstack/accounts-api/internal/api/middleware"
	"github.com/shopstack/accounts-api/internal/core/ports"
)

// Deps carries everything the router needs, constructed in main so no
// handler reaches into ambient state.
type Deps struct {
	AuthService ports.AuthService
	Sessions    ports.SessionIssuer
	Limiter     middleware.Limiter
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title        Accounts API
// @version      1.0
// @description  Account registration, email verification, login, and password reset.
// @BasePath     /api/v1
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	requireSession := middleware.Auth(deps.Sessions)

	// --- Auth routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/register", authHandler.Register)
	v1.GET("/verify/:id/:token", authHandler.VerifyEmail)
	v1.POST("/login", authHandler.Login,
		middleware.RateLimit(deps.Limiter, "login", 10, time.Minute, deps.Log))
	v1.GET("/me", authHandler.Me, requireSession)
	v1.POST("/forgot-password", authHandler.ForgotPassword,
		middleware.RateLimit(deps.Limiter, "forgot_password", 5, 15*time.Minute, deps.Log))
	v1.POST("/reset-password/:id/:token", authHandler.ResetPassword)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
