// Package httpapi exposes the read-only REST surface: health probes,
// the waiting-session listing, and aggregate stats. It never mutates
// match state.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"crossrealm/internal/match"
	"crossrealm/internal/storage"
)

// Presence reports lobby population; implemented by the ws server.
type Presence interface {
	LobbyCount() int
}

// Handler serves the REST endpoints.
type Handler struct {
	registry *match.Registry
	store    *storage.Store
	presence Presence
	version  string
	started  time.Time
	log      zerolog.Logger
}

// New builds the handler.
func New(registry *match.Registry, store *storage.Store, presence Presence, version string, log zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		store:    store,
		presence: presence,
		version:  version,
		started:  time.Now(),
		log:      log.With().Str("component", "httpapi").Logger(),
	}
}

// Routes mounts the endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", h.handleRoot)
	r.Get("/api/health", h.handleHealth)
	r.Get("/api/lobby", h.handleLobby)
	r.Get("/api/stats", h.handleStats)
	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "CrossRealm Multiplayer Server Running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	waiting, active := h.registry.Counts()
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"timestamp":      time.Now().UnixMilli(),
		"uptimeSeconds":  int64(time.Since(h.started).Seconds()),
		"activeSessions": h.presence.LobbyCount(),
		"activeGames":    active,
		"waitingGames":   waiting,
	})
}

func (h *Handler) handleLobby(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"games":       h.registry.ListWaiting(),
		"playerCount": h.presence.LobbyCount(),
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.FetchStats(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("stats query failed")
		WriteJSON(w, http.StatusInternalServerError, map[string]any{"error": "stats unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
