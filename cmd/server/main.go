package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genepreston69/uplift-frame/internal/config"
	"github.com/genepreston69/uplift-frame/internal/database"
	"github.com/genepreston69/uplift-frame/internal/handlers"
	"github.com/genepreston69/uplift-frame/internal/logging"
	"github.com/genepreston69/uplift-frame/internal/middleware"
	"github.com/genepreston69/uplift-frame/internal/repository"
	"github.com/genepreston69/uplift-frame/internal/router"
	"github.com/genepreston69/uplift-frame/internal/services"
	"github.com/genepreston69/uplift-frame/internal/session"
	"github.com/genepreston69/uplift-frame/internal/websocket"
	"github.com/genepreston69/uplift-frame/internal/whitelist"
	"github.com/genepreston69/uplift-frame/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Env)

	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, "migrations"); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClients.Close()

	sessionRepo := repository.NewSessionRepo(pool)
	submissionRepo := repository.NewSubmissionRepo(pool)
	surveyRepo := repository.NewSurveyRepo(pool)
	intakeRepo := repository.NewIntakeRepo(pool)
	resourceRepo := repository.NewResourceRepo(pool)
	linkRepo := repository.NewExternalLinkRepo(pool)

	store := worker.NewQueuedStore(sessionRepo, redisClients.Queue)
	publisher := websocket.NewPublisher(redisClients.PubSub, logger)
	clock := session.NewClock()
	timings := session.Timings{
		SessionDuration: cfg.SessionDuration,
		IdleTimeout:     cfg.IdleTimeout,
		TickInterval:    cfg.TickInterval,
	}
	registry := session.NewRegistry(func() *session.Manager {
		return session.NewManager(store, clock, publisher, logger, timings)
	})

	flushPool := worker.NewPool(redisClients.Queue, sessionRepo, cfg.FinalizeWorkers, logger)
	flushPool.Start()

	janitor := services.NewJanitor(sessionRepo, logger)
	janitor.Start()

	jwtAuth := middleware.NewJWTAuth(cfg.AdminJWTSecret, cfg.AdminTokenTTL)
	adminService := services.NewAdminService(cfg.AdminPassphraseHash, jwtAuth)
	checker := whitelist.NewChecker(redisClients.Queue)
	hub := websocket.NewHub(redisClients.PubSub, logger)

	handler := router.New(router.Deps{
		Config:      cfg,
		JWT:         jwtAuth,
		Session:     handlers.NewSessionHandler(registry),
		Submissions: handlers.NewSubmissionHandler(registry, submissionRepo, logger),
		Surveys:     handlers.NewSurveyHandler(registry, surveyRepo, logger),
		Intake:      handlers.NewIntakeHandler(registry, intakeRepo, logger),
		Resources:   handlers.NewResourceHandler(resourceRepo, logger),
		Links:       handlers.NewExternalLinkHandler(registry, linkRepo, checker, logger),
		Admin: handlers.NewAdminHandler(
			adminService, resourceRepo, linkRepo, checker,
			submissionRepo, surveyRepo, intakeRepo, sessionRepo, logger,
		),
		Hub: hub,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	// Finalize any running sessions so their logs reach the store, then
	// give the flush workers a moment to drain the queue.
	registry.EndAll(ctx)
	time.Sleep(500 * time.Millisecond)

	janitor.Stop()
	flushPool.Stop()

	logger.Info().Msg("server stopped")
}
