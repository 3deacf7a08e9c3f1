package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spacesedan/tunecast/internal/cache"
	"github.com/spacesedan/tunecast/internal/clients"
	"github.com/spacesedan/tunecast/internal/simulation"
)

// Handler wires the routing layer to the engine and its collaborators.
type Handler struct {
	engine   *simulation.Engine
	catalog  *clients.ITunesClient
	cache    cache.TrackCache
	validate *validator.Validate
}

func New(engine *simulation.Engine, catalog *clients.ITunesClient, trackCache cache.TrackCache) *Handler {
	return &Handler{
		engine:   engine,
		catalog:  catalog,
		cache:    trackCache,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router assembles the chi route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analysis", h.HandleAnalysis)
		r.Get("/search", h.HandleSearch)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("[HTTP] Request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}
