package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cameron-headspace/graphql-inspector/pkg/api"
	"github.com/cameron-headspace/graphql-inspector/pkg/observability"
)

// NewServeCommand creates the serve command
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diff HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, addr string) error {
	cfg, logger, err := rootOpts.load(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
		if err := cfg.Validate(); err != nil {
			return commandError("%w", err)
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	providers, err := observability.InitOTel(ctx, cfg.OTel(), logger)
	if err != nil {
		return commandError("%w", err)
	}

	serverOpts := []api.ServerOption{api.WithLogger(logger), api.WithVersion(Version)}
	if cfg.Observability.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		serverOpts = append(serverOpts, api.WithMetrics(registry))
	}

	server, err := api.NewServer(cfg, serverOpts...)
	if err != nil {
		return commandError("%w", err)
	}
	httpServer := server.HTTPServer()

	manager := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})

	listenErr := make(chan error, 1)
	go func() {
		defer observability.RecoverPanic(logger, "http server")
		logger.Infof("Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			cancel()
		}
	}()

	shutdownErr := manager.WaitForShutdown(ctx)
	select {
	case err := <-listenErr:
		return commandError("server failed: %w", err)
	default:
	}
	if shutdownErr != nil {
		return commandError("%w", shutdownErr)
	}
	return nil
}
