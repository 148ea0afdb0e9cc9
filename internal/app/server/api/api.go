// GET     /api/health  # Состояние процесса и окружения (публичный, CORS)
// OPTIONS /api/health  # Preflight
// GET     /metrics     # Prometheus

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/exp/slog"

	healthAPI "grapetracker/internal/app/server/api/http/health"
	"grapetracker/internal/app/server/api/http/middleware"
	"grapetracker/internal/app/server/api/http/middleware/cors"
	"grapetracker/internal/app/server/api/http/middleware/logger"
	"grapetracker/internal/app/server/api/http/middleware/requestid"
	"grapetracker/internal/app/server/metrics"
)

// Deps - зависимости HTTP API. Pinger может быть nil.
type Deps struct {
	Log         *slog.Logger
	Clock       clockwork.Clock
	Metrics     *metrics.Metrics
	Pinger      healthAPI.Pinger
	Version     string
	Environment string
}

type Handlers struct {
	Health *healthAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(d Deps) *chi.Mux {
	mux := chi.NewMux()
	mux.Use(requestid.Middleware)
	mux.Use(cors.Middleware)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
		mux.Method("GET", "/metrics", d.Metrics.Handler())
	}

	config := huma.DefaultConfig("GrapeTracker API", d.Version)
	API := humachi.New(mux, config)

	h := handlers(d)
	h.Health.SetupRoutes(API)

	return mux
}

func handlers(d Deps) *Handlers {
	chain := middleware.NewChain(logger.New(d.Log, d.Clock).Middleware())

	var recorder healthAPI.Recorder
	if d.Metrics != nil {
		recorder = d.Metrics
	}

	// состояние на момент запроса, кэшировать нельзя
	healthHandler := healthAPI.NewHandler(
		d.Log,
		chain.For(middleware.NoStore),
		d.Clock,
		healthAPI.Info{Version: d.Version, Environment: d.Environment},
		d.Pinger,
		recorder,
	)

	return &Handlers{
		Health: healthHandler,
	}
}
