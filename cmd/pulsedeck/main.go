package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pulsedeck/internal/config"
	"pulsedeck/internal/logger"
	"pulsedeck/internal/metrics"
	"pulsedeck/internal/sensor"
	"pulsedeck/internal/storage/snapshot"
	"pulsedeck/internal/temperature"
	"pulsedeck/internal/transport/rest"
	"pulsedeck/internal/transport/websocket"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	monitor := sensor.NewMonitor(sensor.NewSystemBackend(), cfg.HardwareInterval, log)
	store := snapshot.NewMetricsStore()
	provider := temperature.Select(cfg, monitor, log)
	loop := metrics.NewLoop(cfg, log, provider, monitor, store)

	hub := websocket.NewHub(log)
	hub.SetSource(loop)
	loop.Attach(hub.ClientCount, hub.Publish)

	wsHandler := websocket.NewHandler(hub, cfg, log)
	metricsHandler := rest.NewMetricsHandler(store, loop, monitor)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		WS:      wsHandler,
		Metrics: metricsHandler,
	})

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		log.Error("failed to bind listener", "address", cfg.Address, "error", err)
		os.Exit(1)
	}

	srv := &http.Server{Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return monitor.Run(gctx) })
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return loop.Run(gctx) })
	g.Go(func() error {
		log.Info("starting http server", "address", cfg.Address, "provider", string(cfg.Provider))
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err)
	}

	log.Info("server stopped")
}
