// The stbridged command runs the set-top box bridge daemon: it tracks
// box state over the provider's MQTT broker and serves it over HTTP.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/broker"
	"github.com/settopbox/stbridge/internal/stbridged/catalog"
	"github.com/settopbox/stbridge/internal/stbridged/config"
	stbhttp "github.com/settopbox/stbridge/internal/stbridged/http"
	"github.com/settopbox/stbridge/internal/stbridged/metadata"
	"github.com/settopbox/stbridge/internal/stbridged/ratelimit"
	ratelimitredis "github.com/settopbox/stbridge/internal/stbridged/ratelimit/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Structured JSON logging for easier parsing
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Each daemon session uses a fresh client id unless one is pinned
	// in the configuration.
	clientID := cfg.Household.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	// Channel lineup must be in place before the first status arrives
	channels, err := catalog.NewLoader(cfg.Metadata.BaseURL, logger).Load(ctx)
	if err != nil {
		return err
	}

	metadataClient := metadata.NewClient(cfg.Metadata.BaseURL, logger,
		metadata.WithTimeout(cfg.Metadata.Timeout),
		metadata.WithCacheTTL(cfg.Metadata.CacheTTL),
	)
	resolver := box.NewResolver(metadataClient, logger)

	mqttBroker, err := broker.Connect(broker.Options{
		URL:                cfg.Broker.URL,
		ClientID:           clientID,
		Username:           cfg.Broker.Username,
		Password:           cfg.Broker.Password,
		InsecureSkipVerify: cfg.Broker.InsecureSkipVerify,
	}, logger)
	if err != nil {
		return err
	}
	defer mqttBroker.Close()

	// Event hub broadcasts every accepted box update to websocket clients
	hub := stbhttp.NewHub(logger)
	go hub.Run(ctx)

	manager := box.NewManager(logger)
	for _, bc := range cfg.Household.Boxes {
		sync := box.NewSynchronizer(&box.Box{
			ID:          bc.ID,
			Name:        bc.Name,
			HouseholdID: cfg.Household.ID,
			Channels:    channels,
		}, clientID, cfg.Household.FriendlyName, mqttBroker, resolver, logger)
		manager.Add(sync)
	}
	manager.SetSink(hub)

	if err := manager.Register(); err != nil {
		return err
	}

	var rlService ratelimit.Service
	if cfg.RateLimit.Enabled {
		redisClient := goredis.NewClient(&goredis.Options{
			Addr: cfg.RateLimit.RedisAddr,
			DB:   cfg.RateLimit.RedisDB,
		})
		defer redisClient.Close()

		rlService = ratelimit.NewService(ratelimitredis.NewStore(redisClient), logger)
		rlService.RegisterDefaultLimits()
	}

	handler := stbhttp.NewHandler(manager, hub, rlService, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine to allow for graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-shutdown:
	}
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
