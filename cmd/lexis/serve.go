package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dreamware/lexis/internal/config"
	"github.com/dreamware/lexis/internal/httpapi"
	"github.com/dreamware/lexis/internal/monitor"
	"github.com/dreamware/lexis/internal/service"
	"github.com/dreamware/lexis/internal/shard"
)

// serveCommand loads configuration, binds the listener and serves until
// SIGINT or SIGTERM
func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("listen") {
		cfg.Server.Listen = c.String("listen")
	}
	if c.IsSet("shards") {
		cfg.Store.Shards = max(c.Int("shards"), 1)
	}

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, ln)
}

// run serves on ln until ctx is done, then drains the store and shuts the
// HTTP server down within the configured timeout
func run(ctx context.Context, cfg *config.AppConfig, ln net.Listener) error {
	set := shard.NewSet(cfg.Store.Shards)
	api := httpapi.New(service.New(set), set, cfg.Server.MaxBodyBytes)

	httpSrv := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout(),
	}

	if interval := cfg.Monitor.StatsInterval(); interval > 0 {
		reporter := monitor.NewStatsReporter(interval, set.Info)
		reporter.Start(ctx)
		defer reporter.Stop()
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("lexis listening on %s with %d shard(s)", ln.Addr(), set.NumShards())
		serveErr <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("lexis shutting down")
	set.Drain()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-serveErr

	log.Println("lexis stopped")
	return nil
}
