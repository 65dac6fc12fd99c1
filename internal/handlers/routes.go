package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	origins := h.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RedirectSlashes)

	r.Get("/healthz", h.handleHealth)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Tournaments and categories
		r.Get("/tournaments", h.handleListTournaments)
		r.Post("/tournaments", h.handleCreateTournament)
		r.Get("/tournaments/{id}", h.handleGetTournament)
		r.Get("/tournaments/{id}/categories", h.handleListCategories)
		r.Post("/tournaments/{id}/categories", h.handleCreateCategory)

		// Courts
		r.Get("/courts", h.handleListCourts)
		r.Post("/courts", h.handleCreateCourt)

		// Players and rosters
		r.Get("/players", h.handleListPlayers)
		r.Post("/players", h.handleCreatePlayer)
		r.Get("/players/{id}", h.handleGetPlayer)
		r.Get("/categories/{id}/roster", h.handleListRoster)
		r.Post("/categories/{id}/roster", h.handleRegisterPlayer)
		r.Delete("/categories/{id}/roster/{playerID}", h.handleUnregisterPlayer)
		r.Post("/categories/{id}/roster/sync", h.handleSyncRoster)

		// Pools
		r.Route("/tournaments/{tid}/categories/{cid}", func(r chi.Router) {
			r.Get("/pools", h.handleListPools)
			r.Post("/pools", h.handleGeneratePools)
			r.Get("/ranking", h.handleGetRanking)
			r.Post("/ranking/recalculate", h.handleRecalculateRanking)
			r.Get("/overview", h.handleGetOverview)
		})
		r.Get("/pools/{id}/standings", h.handleGetPoolStandings)
		r.Put("/pools/{id}/court", h.handleAssignCourt)
		r.Get("/pools/{id}/qr", h.handlePoolQRCode)

		// Matches
		r.Get("/matches/{id}", h.handleGetMatch)
		r.Post("/matches/{id}/result", h.handleRecordResult)
		r.Delete("/matches/{id}/result", h.handleRevertResult)
	})

	return r
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			respondError(w, NewAPIError(http.StatusServiceUnavailable, ErrCodeUnavailable, "database unavailable"))
			return
		}
	}
	respondOK(w, map[string]string{"status": "ok"})
}
