package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/refassign/internal/adapters/http/assignmentapi"
	"github.com/matchday/refassign/internal/adapters/repository"
	"github.com/matchday/refassign/internal/app"
	"github.com/matchday/refassign/internal/config"
	"github.com/matchday/refassign/internal/peers"
	"github.com/matchday/refassign/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	pool, err := repository.Connect(ctx, cfg.DatabaseDSN, time.Duration(cfg.DBConnectTimeoutMS)*time.Millisecond)
	if err != nil {
		log.Error(ctx, "failed to connect to database", logger.Error(err))
		return
	}
	defer pool.Close()

	store := repository.NewAssignmentStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Error(ctx, "failed to ensure schema", logger.Error(err))
		return
	}

	lookupTimeout := peers.WithLookupTimeout(time.Duration(cfg.PeerTimeoutMS) * time.Millisecond)
	probeTimeout := peers.WithProbeTimeout(time.Duration(cfg.ProbeTimeoutMS) * time.Millisecond)
	userClient := peers.NewClient(peers.PeerUserService, cfg.UserServiceBase, lookupTimeout, probeTimeout)
	gameClient := peers.NewClient(peers.PeerGameService, cfg.GameServiceBase, lookupTimeout, probeTimeout)

	router := chi.NewRouter()
	assignmentapi.NewServer(
		store,
		peers.NewValidator(gameClient, userClient),
		peers.NewEnricher(gameClient, userClient),
		peers.NewAggregator(assignmentapi.ServiceName, userClient, gameClient),
		log,
	).Register(router)

	a := app.New(
		app.WithAddr(cfg.Addr),
		app.WithHandler(router),
		app.WithShutdownTimeout(time.Duration(cfg.ShutdownTimeoutMS)*time.Millisecond),
		app.WithLogger(log),
	)
	if err := a.Run(ctx); err != nil {
		log.Error(ctx, "HTTP server failed", logger.Error(err))
	}
}
