package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/go-redis/redis/v8"

	"github.com/furnet-labs/furnet/config"
	"github.com/furnet-labs/furnet/internal/friends"
	"github.com/furnet-labs/furnet/internal/handler"
	"github.com/furnet-labs/furnet/internal/httpserver"
	"github.com/furnet-labs/furnet/internal/items"
	"github.com/furnet-labs/furnet/internal/linker"
	"github.com/furnet-labs/furnet/internal/metrics"
	"github.com/furnet-labs/furnet/internal/monitor"
	"github.com/furnet-labs/furnet/internal/peer"
	"github.com/furnet-labs/furnet/internal/probe"
	"github.com/furnet-labs/furnet/internal/profile"
	"github.com/furnet-labs/furnet/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	self := profile.New(profile.Identity{
		Name:        cfg.Animal.Name,
		Species:     cfg.Animal.Species,
		Description: cfg.Animal.Description,
		Habitat:     cfg.Animal.Habitat,
		Diet:        cfg.Animal.Diet,
		FunFact:     cfg.Animal.FunFact,
		Emoji:       cfg.Animal.Emoji,
		Color:       cfg.Animal.Color,
	}, cfg.Instance.URL)

	log.Info("Instance identity ready",
		slog.String("id", self.ID),
		slog.String("instance_url", self.InstanceURL))

	probeTimeout, err := cfg.ProbeTimeout()
	if err != nil {
		log.Error("Invalid probe timeout", slog.Any("err", err))
		os.Exit(1)
	}

	registry := friends.NewRegistry(newFriendStore(cfg, log))
	fetcher := peer.NewFetcher(probeTimeout)
	link := linker.New(log, fetcher, registry)

	collector := metrics.NewCollector(1024, log)
	collector.Start(ctx)

	engine := probe.NewEngine(log, probeTimeout).WithCollector(collector)

	session, err := newMonitorSession(cfg, log, engine)
	if err != nil {
		log.Error("Failed to create monitoring session", slog.Any("err", err))
		os.Exit(1)
	}
	session.Start(ctx)
	defer session.Stop()

	api := handler.NewAPI(log, self, registry, link, engine, session, items.NewStore()).
		WithMetrics(collector)

	srv, err := httpserver.New(cfg.Server.Address, newRouter(log, api))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Instance API listening", slog.String("address", cfg.Server.Address))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		session.Stop()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting instance API", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// newFriendStore picks the friend store from config: redis when an address
// is configured, in-memory otherwise.
func newFriendStore(cfg *config.Config, log *slog.Logger) friends.Store {
	if cfg.Store.RedisAddress == "" {
		log.Info("Using in-memory friend store")
		return friends.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddress})
	log.Info("Using redis friend store",
		slog.String("address", cfg.Store.RedisAddress),
		slog.String("prefix", cfg.Store.KeyPrefix))

	return friends.NewRedisStore(client, cfg.Store.KeyPrefix)
}

func newMonitorSession(cfg *config.Config, log *slog.Logger, prober monitor.Prober) (*monitor.Session, error) {
	interval, err := cfg.MonitorInterval()
	if err != nil {
		return nil, err
	}

	seed := make([]string, 0, len(cfg.Monitor.Instances))
	seed = append(seed, cfg.Monitor.Instances...)

	return monitor.NewSession(log, prober, interval, seed, clock.New()), nil
}
