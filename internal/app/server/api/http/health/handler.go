package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jonboulle/clockwork"
	"golang.org/x/exp/slog"

	"grapetracker/internal/utils/logger"
)

const (
	defaultAppID    = "Unknown"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"

	manifestConnected    = "connected"
	manifestDisconnected = "disconnected"
)

// Pinger checks a dependency the health endpoint reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Recorder receives health check outcomes.
type Recorder interface {
	ObserveHealth(status string)
}

type Info struct {
	Version     string
	Environment string
}

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
	clock      clockwork.Clock
	startedAt  time.Time
	info       Info
	pinger     Pinger
	recorder   Recorder
}

// NewHandler creates the handler; pinger and recorder may be nil.
func NewHandler(log *slog.Logger, middleware huma.Middlewares, clock clockwork.Clock, info Info, pinger Pinger, recorder Recorder) *Handler {
	return &Handler{
		log:        log.With("component", "health"),
		middleware: middleware,
		clock:      clock,
		startedAt:  clock.Now(),
		info:       info,
		pinger:     pinger,
		recorder:   recorder,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, input *Input) (*Output, error) {
	now := h.clock.Now()
	timestamp := now.UTC().Format(timestampLayout)

	appID := input.AppID
	if appID == "" {
		appID = defaultAppID
	}

	h.log.Debug("health check requested", "timestamp", timestamp, "app_id", appID)

	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			h.log.Error("health check failed", "app_id", appID, logger.Err(err))
			h.observe("error")

			return &Output{
				Status: http.StatusInternalServerError,
				Body: Response{
					Status:    "error",
					Timestamp: timestamp,
					AppID:     appID,
					Manifest:  manifestDisconnected,
					Error:     err.Error(),
				},
			}, nil
		}
	}

	uptime := now.Sub(h.startedAt).Seconds()
	resp := Response{
		Status:      "ok",
		Timestamp:   timestamp,
		AppID:       appID,
		Manifest:    manifestConnected,
		Version:     h.info.Version,
		Environment: h.info.Environment,
		Uptime:      &uptime,
		Memory:      readMemoryStats(),
		Platform: &PlatformInfo{
			Go:       runtime.Version(),
			Arch:     runtime.GOARCH,
			Platform: runtime.GOOS,
		},
	}

	h.log.Info("health check successful", "app_id", appID, "uptime", uptime)
	h.observe("ok")

	return &Output{Status: http.StatusOK, Body: resp}, nil
}

func (h *Handler) observe(status string) {
	if h.recorder != nil {
		h.recorder.ObserveHealth(status)
	}
}

func readMemoryStats() *MemoryStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return &MemoryStats{
		RSS:        ms.Sys,
		HeapTotal:  ms.HeapSys,
		HeapUsed:   ms.HeapAlloc,
		StackInUse: ms.StackInuse,
		Goroutines: runtime.NumGoroutine(),
	}
}
