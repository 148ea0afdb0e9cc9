package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"

	"grapetracker/internal/app/server"
	"grapetracker/internal/app/server/api"
	"grapetracker/internal/app/server/config"
	"grapetracker/internal/app/server/metrics"
	"grapetracker/internal/infrastructure/storage/postgres"
	"grapetracker/internal/platform/version"
	"grapetracker/internal/utils/logger"
)

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env)

	os.Exit(run(context.Background(), conf, log))
}

// run возвращает код выхода, чтобы отложенные Close успели отработать
func run(ctx context.Context, conf *config.Config, log *slog.Logger) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := api.Deps{
		Log:         log,
		Clock:       clockwork.NewRealClock(),
		Metrics:     metrics.New(reg),
		Version:     version.Get().Version,
		Environment: conf.Env,
	}

	if conf.HasDatabase() {
		storage, err := postgres.New(ctx, conf.DB.DatabaseURI, conf.DB.PingTimeout, log)
		if err != nil {
			log.Error("failed to init storage", logger.Err(err))
			return 1
		}
		defer storage.Close()
		deps.Pinger = storage
	} else {
		log.Warn("DATABASE_URI is not set, health check reports process status only")
	}

	srv := server.New(conf.Server.RunAddress, api.New(deps), conf.Server.ShutdownTimeout, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped with error", logger.Err(err))
		return 1
	}
	return 0
}
