package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/internal/config"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/cache"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/download"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/scraper"
)

func main() {
	cfg, err := config.Load(os.Getenv("ECOURTS_CONFIG"))
	if err != nil {
		logging.Setup(logging.DefaultConfig())
		logger := logging.NewLogger("main")
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger := logging.NewLogger("main")

	// Redis is optional: without it the hierarchy lookups simply skip
	// the cache.
	var cacheManager *cache.Manager
	if cfg.EnableCaching {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).
				Msg("Redis unavailable, caching disabled")
			redisClient.Close()
		} else {
			cacheManager = cache.NewManager(redisClient, cfg.CacheTTL)
			logger.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
		}
		cancel()
	}

	portal, err := scraper.New(scraper.Config{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.RequestTimeout,
		DownloadsDir: cfg.DownloadsDir,
		MockMode:     cfg.MockMode,
		Retry: scraper.RetryConfig{
			MaxAttempts:    cfg.Retry.Attempts,
			InitialBackoff: cfg.Retry.Backoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
			Multiplier:     2.0,
		},
		Cache: cacheManager,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create scraper")
	}

	svc := download.NewService(portal, download.Config{
		MaxWorkers:   cfg.MaxWorkers,
		DownloadsDir: cfg.DownloadsDir,
	})
	manager := download.NewManager(svc)

	if err := os.MkdirAll(cfg.DownloadsDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.DownloadsDir).
			Msg("Failed to create downloads directory")
	}

	// Hourly housekeeping for old files and finished sessions.
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go runCleanup(cleanupCtx, svc, manager, cfg)
	defer stopCleanup()

	api := newAPIServer(portal, svc, manager)

	mux := http.NewServeMux()
	api.register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/downloads/", http.StripPrefix("/downloads/",
		http.FileServer(http.Dir(cfg.DownloadsDir))))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Bool("mock_mode", cfg.MockMode).
			Msg("Starting ecourts server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
}

// runCleanup periodically removes old download files and terminal
// sessions past the retention window.
func runCleanup(ctx context.Context, svc *download.Service, manager *download.Manager, cfg config.Config) {
	logger := logging.NewLogger("cleanup")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.CleanupOldFiles(cfg.FileMaxAge); err != nil {
				logger.Warn().Err(err).Msg("File cleanup failed")
			}
			manager.Cleanup(cfg.SessionRetention)
		}
	}
}
