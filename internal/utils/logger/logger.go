package logger

import (
	"os"

	"golang.org/x/exp/slog"

	"grapetracker/internal/utils/logger/handlers/slogpretty"
)

const (
	EnvLocal       = "local"
	EnvDev         = "dev"
	EnvDevelopment = "development"
	EnvProd        = "prod"
	EnvProduction  = "production"
)

// New настраивает логгер в зависимости от окружения
func New(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case EnvLocal, "":
		log = setupPrettySlog()
	case EnvDev, EnvDevelopment:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case EnvProd, EnvProduction:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

// NewWithLevel is New with the level overridden, used by the client --debug flag.
func NewWithLevel(env string, level slog.Level) *slog.Logger {
	if env == EnvLocal || env == "" {
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: level},
		}
		return slog.New(opts.NewPrettyHandler(os.Stderr))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Err - атрибут для ошибки
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
