package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plumon/roleplay-chat/internal/api/handler"
	"github.com/plumon/roleplay-chat/internal/api/middleware"
	"github.com/plumon/roleplay-chat/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	authService ports.AuthService,
	personaService ports.PersonaService,
	chatService ports.ChatService,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("roleplay"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService)
	personaHandler := handler.NewPersonaHandler(personaService)
	chatHandler := handler.NewChatHandler(chatService)
	authMiddleware := middleware.Auth(authService)

	// --- Open routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/token", authHandler.Token)

	// --- Authenticated routes ---
	e.GET("/users/me/", authHandler.Me, authMiddleware)

	roles := e.Group("/roles", authMiddleware)
	roles.POST("/", personaHandler.Create)
	roles.GET("/", personaHandler.List)
	roles.GET("/:id", personaHandler.Get)

	chats := e.Group("/chats", authMiddleware)
	chats.POST("/", chatHandler.Create)
	chats.GET("/", chatHandler.List)
	chats.GET("/:id/messages", chatHandler.Messages)
	chats.POST("/:id/message", chatHandler.SendMessage)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
