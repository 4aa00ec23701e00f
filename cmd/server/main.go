package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/plumon/roleplay-chat/internal/api"
	"github.com/plumon/roleplay-chat/internal/core/service"
	"github.com/plumon/roleplay-chat/internal/infrastructure/config"
	mongodb "github.com/plumon/roleplay-chat/internal/infrastructure/db/mongo"
	redisdb "github.com/plumon/roleplay-chat/internal/infrastructure/db/redis"
	"github.com/plumon/roleplay-chat/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	personaRepo := mongodb.NewPersonaRepository(db)
	chatRepo := mongodb.NewChatRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":    userRepo.EnsureIndexes,
		"personas": personaRepo.EnsureIndexes,
		"chats":    chatRepo.EnsureIndexes,
		"messages": messageRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Completion model ---
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("chat model initialization failed")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	personaService := service.NewPersonaService(personaRepo, cfg.PersonaCreateAdminOnly, logger.For("personas"))
	completionService := service.NewCompletionService(chatModel, service.CompletionOptions{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger.For("completion"))
	chatService := service.NewChatService(
		chatRepo,
		messageRepo,
		personaRepo,
		completionService,
		// Lock TTL must outlive a turn's worst case, which is dominated by
		// the completion timeout.
		redisdb.NewChatLocker(rdb, cfg.LLM.Timeout+30*time.Second),
		logger.For("chat"),
	)

	if err := personaService.SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("persona seeding failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, authService, personaService, chatService, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
