package logger

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jonboulle/clockwork"
	"golang.org/x/exp/slog"

	"grapetracker/internal/app/server/api/http/middleware/requestid"
)

const appIDHeader = "X-App-ID"

// Access пишет одну строку журнала на каждую операцию API
type Access struct {
	log   *slog.Logger
	clock clockwork.Clock
}

func New(log *slog.Logger, clock clockwork.Clock) *Access {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Access{
		log:   log.With(slog.String("component", "http_access")),
		clock: clock,
	}
}

// Middleware logs 5xx at Error and 4xx at Warn, everything else at Info.
func (a *Access) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := a.clock.Now()
		// путь и метод читаем до next: обработчик может их не сохранить
		method, path := ctx.Method(), ctx.URL().Path

		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = http.StatusOK
		}

		attrs := []any{
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("duration", a.clock.Since(start)),
			slog.String("remote_addr", ctx.RemoteAddr()),
			slog.String("request_id", requestid.FromContext(ctx.Context())),
		}
		if appID := ctx.Header(appIDHeader); appID != "" {
			attrs = append(attrs, slog.String("app_id", appID))
		}

		a.log.Log(ctx.Context(), levelFor(status), "request served", attrs...)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
