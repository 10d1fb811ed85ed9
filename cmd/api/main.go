package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/voicerelay/internal/api"
	"github.com/nikhilbhutani/voicerelay/internal/api/handlers"
	"github.com/nikhilbhutani/voicerelay/internal/cache"
	"github.com/nikhilbhutani/voicerelay/internal/config"
	"github.com/nikhilbhutani/voicerelay/internal/credentials"
	"github.com/nikhilbhutani/voicerelay/internal/metrics"
	"github.com/nikhilbhutani/voicerelay/internal/multimodal/tts"
	"github.com/nikhilbhutani/voicerelay/internal/relay"
	"github.com/nikhilbhutani/voicerelay/web"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	creds := credentials.Load(ctx, cfg.Google.CredentialsFile, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	sttProvider := newSTTProvider(cfg.STT, creds, logger, m)
	ttsProvider := newTTSProvider(cfg.TTS, creds, m)

	// Redis synthesis cache (optional)
	var readiness handlers.Pinger
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, running without synthesis cache", "error", err)
			rdb.Close()
		} else {
			defer rdb.Close()
			c := cache.NewCache(rdb, "voicerelay:tts:")
			ttl := time.Duration(cfg.TTS.CacheTTLSeconds) * time.Second
			ttsProvider = tts.NewCachedProvider(ttsProvider, c, ttl, logger, m)
			readiness = c
			slog.Info("synthesis cache enabled", "addr", cfg.Redis.Addr, "ttl", ttl)
		}
	}
	defer closeProvider("stt", sttProvider)
	defer closeProvider("tts", ttsProvider)

	svc := relay.NewService(sttProvider, ttsProvider, cfg.TTS.DefaultVoice, logger)
	health := handlers.NewHealthHandler(readiness, creds.Source(), sttProvider.Name(), ttsProvider.Name())

	router := api.NewRouter(cfg, svc, health, web.FS, reg, m, logger)
	handler, err := router.Setup()
	if err != nil {
		slog.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(),
			"stt", sttProvider.Name(), "tts", ttsProvider.Name(), "credentials", creds.Source(), "project_id", creds.ProjectID())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func closeProvider(kind string, p any) {
	c, ok := p.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close provider", "kind", kind, "error", err)
	}
}
