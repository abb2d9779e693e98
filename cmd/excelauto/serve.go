package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/internal/presentation/tui"
	httpAdapter "github.com/aretw0/excelauto/pkg/adapters/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the workbook operations as a JSON API described by /openapi.yaml.
Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, globalFlagsOf(cmd), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("port") {
			a.cfg.HTTPPort, _ = cmd.Flags().GetInt("port")
		}
		if tui.IsTerminal(os.Stderr) && !a.cfg.LogJSON {
			tui.PrintBanner(os.Stderr, excelauto.Version)
		}

		handler, err := httpAdapter.NewHandler(a.svc,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})),
		)
		if err != nil {
			return err
		}

		a.logger.Info(a.catalog.T("log.info.server_start", a.cfg.HTTPPort), "transport", "http")
		a.logger.Info(a.catalog.T("log.info.server_stop_prompt"))
		if err := httpAdapter.ListenAndServe(ctx, a.cfg.HTTPPort, handler, a.logger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		a.logger.Info("HTTP server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
