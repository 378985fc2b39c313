package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/fieldstack/fieldstack/internal/config"
	"github.com/fieldstack/fieldstack/internal/identity"
	"github.com/fieldstack/fieldstack/internal/notify"
	"github.com/fieldstack/fieldstack/internal/onboarding"
	"github.com/fieldstack/fieldstack/internal/provision"
	"github.com/fieldstack/fieldstack/internal/recommend"
	"github.com/fieldstack/fieldstack/internal/server"
	"github.com/fieldstack/fieldstack/internal/store/postgres"
	redisstore "github.com/fieldstack/fieldstack/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("FIELDSTACK_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("FIELDSTACK_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Admin principals live in this store; the local provider owns their
	// credentials until the hosted identity service takes over.
	provider := identity.NewLocalProvider(store.Principals())

	// Recommendation engine: remote generator when configured, rule-based
	// fallback always available.
	var generator recommend.Generator
	if cfg.Recommender.URL != "" {
		generator = recommend.NewHTTPGenerator(cfg.Recommender.URL, cfg.Recommender.Timeout)
		log.Info().Str("url", cfg.Recommender.URL).Msg("remote recommendation engine enabled")
	}
	engine := recommend.NewEngine(generator, cfg.Recommender.Timeout)

	provisioner := provision.NewService(store, provider, engine, cfg.App.BaseURL)

	// Ops announcements go to Slack when a bot token is configured.
	var ops onboarding.Announcer
	if cfg.Slack.BotToken != "" {
		ops = notify.NewOpsNotifier(slacklib.New(cfg.Slack.BotToken), cfg.Slack.OpsChannel)
		log.Info().Str("channel", cfg.Slack.OpsChannel).Msg("Slack ops announcements enabled")
	}

	workflow := onboarding.NewWorkflow(store, provisioner, engine, onboarding.Options{
		Ops:         ops,
		Publisher:   pubsub,
		StepTimeout: cfg.Onboarding.StepTimeout,
	})

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, provisioner, workflow, pubsub)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
