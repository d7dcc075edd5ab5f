package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/contactform/internal/config"
	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/live"
	"github.com/vango-dev/contactform/pkg/metrics"
)

func serveCmd(g *globalOptions) *cobra.Command {
	var (
		flags   endpointFlags
		address string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the contact form for browsers",
		Long: `Start an HTTP server hosting live contact form sessions.

Routes:
  GET /ws        WebSocket form session
  GET /healthz   liveness check
  GET /metrics   Prometheus metrics (serve.metricsPath, "-" disables)

Examples:
  contactform serve
  contactform serve --address 0.0.0.0:8080 --endpoint https://example.com/contact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, &flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("address") {
				cfg.Serve.Address = address
			}
			return runServe(cmd, g, cfg)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (default from contact.json)")
	flags.register(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, g *globalOptions, cfg *config.Config) error {
	logger := g.logger(slog.LevelInfo)
	out := cmd.OutOrStdout()

	handler, _, err := newServeHandler(cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Serve.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printBanner(out)
	success(out, "Serving contact form on http://%s", cfg.Serve.Address)
	info(out, "Posting to %s", cfg.Endpoint)
	if cfg.MetricsEnabled() {
		info(out, "Metrics at http://%s%s", cfg.Serve.Address, cfg.Serve.MetricsPath)
	}
	fmt.Fprintln(out)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServeHandler wires the live host, health check, and metrics endpoint.
func newServeHandler(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) (http.Handler, *live.Host, error) {
	tr, err := newTransport(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	collector := metrics.New(metrics.WithRegistry(registry))
	opts := append(controllerOptions(cfg, logger), contact.WithObserver(collector))

	host := live.NewHost(live.Config{
		Transport:         tr,
		ControllerOptions: opts,
		AllowedOrigins:    cfg.Serve.AllowedOrigins,
		Logger:            logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.MetricsEnabled() {
		r.Handle(cfg.Serve.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}
	r.Mount("/", host.Routes())

	return r, host, nil
}
