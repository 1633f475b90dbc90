package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Wavecrest/internal/domain"
)

// CompetitorLister reads tracked competitors.
type CompetitorLister interface {
	List(ctx context.Context) ([]domain.Competitor, error)
}

// SeedBuilder renders the portable competitor export.
type SeedBuilder interface {
	BuildSeed(ctx context.Context) (domain.Seed, error)
}

// Deps wires the router. Metrics and Health are optional.
type Deps struct {
	Logger      *slog.Logger
	Competitors CompetitorLister
	Seed        SeedBuilder
	Health      func(ctx context.Context) error
	Metrics     http.Handler
	// SyncKey protects the competitor endpoint when set.
	SyncKey string
}

// KeyHeader is the header the live sync client authenticates with.
const KeyHeader = "X-Sync-Key"

// NewRouter builds the HTTP surface served by `wavecrest serve`.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "http")

	mux := chi.NewRouter()
	mux.Use(RequestID)
	mux.Use(Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Route("/api", func(api chi.Router) {
		api.With(requireKey(deps.SyncKey)).Get("/competitors", func(w http.ResponseWriter, r *http.Request) {
			competitors, err := deps.Competitors.List(r.Context())
			if err != nil {
				log.Error("list competitors", "rid", RID(r.Context()), "error", err)
				writeError(w, http.StatusInternalServerError, "could not list competitors")
				return
			}
			writeJSON(w, http.StatusOK, competitors)
		})

		api.Get("/export", func(w http.ResponseWriter, r *http.Request) {
			seed, err := deps.Seed.BuildSeed(r.Context())
			if err != nil {
				log.Error("build seed", "rid", RID(r.Context()), "error", err)
				writeError(w, http.StatusInternalServerError, "could not build export")
				return
			}
			writeJSON(w, http.StatusOK, seed)
		})
	})

	if deps.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	return mux
}

func requireKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(KeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid sync key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
