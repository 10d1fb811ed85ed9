package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhilbhutani/voicerelay/internal/api/handlers"
	"github.com/nikhilbhutani/voicerelay/internal/api/middleware"
	"github.com/nikhilbhutani/voicerelay/internal/config"
	"github.com/nikhilbhutani/voicerelay/internal/metrics"
	"github.com/nikhilbhutani/voicerelay/internal/relay"
)

type Router struct {
	mux      *chi.Mux
	cfg      *config.Config
	relay    *relay.Service
	health   *handlers.HealthHandler
	assets   fs.FS
	gatherer prometheus.Gatherer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewRouter(cfg *config.Config, svc *relay.Service, health *handlers.HealthHandler, assets fs.FS, gatherer prometheus.Gatherer, m *metrics.Metrics, logger *slog.Logger) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		cfg:      cfg,
		relay:    svc,
		health:   health,
		assets:   assets,
		gatherer: gatherer,
		metrics:  m,
		logger:   logger,
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Metrics(rt.metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         3600,
	}))

	// Health and metrics
	r.Get("/healthz", rt.health.Healthz)
	r.Get("/readyz", rt.health.Readyz)
	r.Handle("/metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))

	// Landing page
	indexH, err := handlers.NewIndexHandler(rt.assets, handlers.DefaultVoices, rt.relay.DefaultVoice(), rt.logger)
	if err != nil {
		return nil, err
	}
	r.Get("/", indexH.Index)

	static, err := fs.Sub(rt.assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Speech relay
	audioH := handlers.NewAudioHandler(rt.relay, rt.cfg.Server.MaxUploadBytes, rt.logger)
	r.Post("/process_audio", audioH.ProcessAudio)

	return r, nil
}
