package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/councilforge/deliberate/config"
	"github.com/councilforge/deliberate/internal/httpapi"
	"github.com/councilforge/deliberate/pkg/dispatch"
	"github.com/councilforge/deliberate/pkg/observability"
)

// ServeCmd starts the HTTP transport, wiring config, observability, and the
// dispatcher into a single process. Addr/MetricsAddr override the loaded
// config's server settings when set.
type ServeCmd struct {
	Addr        string `help:"Override server.addr from config."`
	MetricsAddr string `name:"metrics-addr" help:"Override server.metrics_addr from config."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.MetricsAddr != "" {
		cfg.Server.MetricsAddr = c.MetricsAddr
	}

	gw, err := loadGateway(cli.Fixtures)
	if err != nil {
		return err
	}
	if cli.Fixtures == "" && config.GatewayCredential(cfg) == "" {
		slog.Warn("no fixtures file and no gateway credential in env; all deliberations will fail",
			"credential_env_var", cfg.Gateway.CredentialEnvVar)
	}

	tracerProvider, err := observability.InitTracer(ctx, observability.TracingConfig{
		Enabled:      cfg.Global.Tracing,
		ServiceName:  "deliberate",
		SamplingRate: 1.0,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	if shutdowner, ok := tracerProvider.(interface {
		Shutdown(context.Context) error
	}); ok {
		defer func() { _ = shutdowner.Shutdown(context.Background()) }()
	}

	metrics := observability.NewMetrics(observability.MetricsConfig{Enabled: true})

	d := dispatch.New(gw, cfg.Gateway.TitleModel, cfg.Gateway.DefaultTimeout).
		WithObservability(metrics, observability.GetTracer("deliberate"))

	router := httpapi.NewRouter(d, d.Definitions())

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	metricsSrv := &http.Server{Addr: cfg.Server.MetricsAddr, Handler: metrics.Handler()}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("serving deliberation API", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		slog.Info("serving metrics", "addr", cfg.Server.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	return nil
}
