// tasklab-web is the local web shell: it serves the browser page on
// localhost while the engine holds the credential and polls the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tasklab/internal/config"
	"tasklab/internal/controller"
	"tasklab/internal/gateway"
	"tasklab/internal/logging"
	"tasklab/internal/metrics"
	"tasklab/internal/poll"
	"tasklab/internal/session"
	"tasklab/internal/task"
	"tasklab/internal/webui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr   = flag.String("addr", "", "listen address (overrides config)")
		server = flag.String("server", "", "backend base URL (overrides config)")
		debug  = flag.Bool("debug", false, "verbose debug log")
	)
	flag.Parse()

	cfg, err := config.Load(config.WithOverride(func(cfg *config.Config) {
		if *addr != "" {
			cfg.WebAddr = *addr
		}
		if *server != "" {
			cfg.ServerURL = *server
		}
		if *debug {
			cfg.Debug = true
		}
	}))
	if err != nil {
		return err
	}

	logger := logging.NewComponentLogger("web")
	if cfg.Debug {
		logger.SetLevel(logging.LevelDebug)
	} else {
		logger.SetLevel(logging.LevelInfo)
	}

	store := session.NewStore()
	cache := task.NewCache()
	m := metrics.New()

	gw := gateway.New(cfg.ServerURL, store,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gateway.WithBodyLimit(cfg.BodyLimit),
		gateway.WithLogger(logging.NewComponentLogger("gateway")),
	)

	scheduler := poll.New(gw, cache, cfg.PollInterval,
		poll.WithLogger(logging.NewComponentLogger("poll")),
		poll.WithMetrics(m),
	)
	defer scheduler.Stop()

	ctrl := controller.New(store, cache, gw, scheduler,
		controller.WithLogger(logging.NewComponentLogger("controller")),
		controller.WithAlertDuration(cfg.AlertDuration),
	)

	srv := webui.NewServer(ctrl, m, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(srv.Start)
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("tasklab web shell started, backend %s", cfg.ServerURL)
	return group.Wait()
}
