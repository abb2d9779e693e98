package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/excelauto"
	"github.com/aretw0/excelauto/internal/config"
	"github.com/aretw0/excelauto/internal/presentation/tui"
	"github.com/aretw0/excelauto/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the workbook tools to MCP clients.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Stdout carries JSON-RPC in stdio mode, so logs always go to stderr.
		a, err := newApp(ctx, globalFlagsOf(cmd), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()

		if cmd.Flags().Changed("transport") {
			a.cfg.Transport, _ = cmd.Flags().GetString("transport")
		}
		if cmd.Flags().Changed("port") {
			a.cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if tui.IsTerminal(os.Stderr) && !a.cfg.LogJSON {
			tui.PrintBanner(os.Stderr, excelauto.Version)
		}

		srv := mcp.NewServer(a.svc, mcp.WithMessages(a.catalog), mcp.WithLogger(a.logger))
		switch a.cfg.Transport {
		case config.TransportStdio:
			a.logger.Info(a.catalog.T("log.info.stdio_start"))
			return srv.ServeStdio()
		case config.TransportSSE:
			a.logger.Info(a.catalog.T("log.info.server_start", a.cfg.Port), "transport", "sse")
			if err := srv.ServeSSE(ctx, a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
				return err
			}
			a.logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q (supported: stdio, sse)", a.cfg.Transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", config.TransportStdio, "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().IntP("port", "p", config.DefaultPort, "Port to listen on (only for SSE)")
}
