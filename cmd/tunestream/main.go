package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tunestream/tunestream/internal/api"
	"github.com/tunestream/tunestream/internal/config"
	"github.com/tunestream/tunestream/internal/database"
	"github.com/tunestream/tunestream/internal/history"
	"github.com/tunestream/tunestream/internal/logger"
	"github.com/tunestream/tunestream/internal/scheduler"
	"github.com/tunestream/tunestream/internal/scheduler/tasks"
	"github.com/tunestream/tunestream/internal/search"
	"github.com/tunestream/tunestream/internal/upstream"
	"github.com/tunestream/tunestream/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", config.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting TuneStream")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	log.Info().Msg("running database migrations")
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hub := websocket.NewHub()
	go hub.Run()

	historyService := history.NewService(db.Conn(), log.Logger)

	upstreamClient := upstream.NewClient(cfg.Upstream, log.Logger)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.TimeoutDuration())
	if err := upstreamClient.Connect(ctx); err != nil {
		// The keepalive task retries; searches fail with 503 until then.
		log.Warn().Err(err).Str("url", cfg.Upstream.URL).Msg("music server unreachable at startup")
	}
	cancel()
	defer upstreamClient.Close()

	searchService, err := search.NewService(upstreamClient, cfg.Search.Scoring, cfg.Upstream.FetchLimit, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid scoring configuration")
	}
	searchService.SetRecorder(historyService)
	searchService.SetBroadcaster(hub)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := tasks.RegisterHistoryCleanupTask(sched, historyService, cfg.History.RetentionDays); err != nil {
		log.Fatal().Err(err).Msg("failed to register history cleanup task")
	}
	if err := tasks.RegisterUpstreamPingTask(sched, upstreamClient); err != nil {
		log.Fatal().Err(err).Msg("failed to register upstream keepalive task")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(cfg, searchService, historyService, upstreamClient, hub, log.Logger)

	go func() {
		addr := cfg.Server.Address()
		log.Info().Str("address", addr).Msg("HTTP server listening")
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	if err := sched.Stop(); err != nil {
		log.Warn().Err(err).Msg("failed to stop scheduler")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to shut down HTTP server")
	}

	log.Info().Msg("shutdown complete")
}
