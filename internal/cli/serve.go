package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aeocheck/internal/engine"
	"aeocheck/internal/flags"
	"aeocheck/internal/logging"
	"aeocheck/internal/metrics"
	"aeocheck/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit and quote API over HTTP",
	Long: `Serve the audit and quote flow as JSON endpoints for a web front end.

Endpoints:
	POST /api/audit    {"url": "..."} -> {report, quote, contact}
	POST /api/quote    audit report JSON -> {quote, contact}
	GET  /api/catalog  catalog entries sorted by title
	GET  /healthz      liveness
	GET  /metrics      Prometheus metrics

Concurrent audits of the same URL share one backend call. The server shuts
down gracefully on SIGINT or SIGTERM.

Examples:
	aeocheck serve --addr :8080 --base-url http://localhost:8001
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateOrExit()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := metrics.New()
		eng, err := engine.Wire(ctx, cfg, m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(3)
			return
		}

		logger := logging.NewJSON(os.Stderr, cfg.Runtime.Verbose)
		api := server.NewWebAPI(logger, server.Config{
			Addr:            cfg.Server.Addr,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			Dependencies: server.Dependencies{
				Auditor:   eng.Guard,
				Pricer:    eng,
				Catalog:   eng.Catalog,
				Recipient: cfg.Catalog.Recipient,
				Metrics:   m,
			},
		})
		if err := api.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			exit(3)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addBackendFlags(serveCmd)
	addCatalogFlags(serveCmd)
	serveCmd.Flags().StringVar(&cfg.Server.Addr, flags.FlagAddr, cfg.Server.Addr, "Listen address")
	serveCmd.Flags().DurationVar(&cfg.Server.ShutdownTimeout, flags.FlagShutdownTimeout, cfg.Server.ShutdownTimeout, "Graceful shutdown timeout")
}
