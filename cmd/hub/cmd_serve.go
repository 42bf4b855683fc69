package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"schoolhub/internal/alerts"
	"schoolhub/internal/assistant"
	"schoolhub/internal/logging"
	"schoolhub/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

// serveCmd runs the HTTP surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the hub API",
	Long: `Serves alerts, links, contacts and Hub AI over HTTP.

The alert sheet is fetched once at startup. Admins can refetch it with
POST /api/admin/refresh after editing the sheet.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	fetcher := alerts.NewFetcher(&http.Client{Timeout: 30 * time.Second}, alerts.NewMetrics("", reg))

	ai := buildAssistant(ctx)
	if ai != nil {
		ai.SetUsage(assistant.NewUsage(reg))
	}

	srv, err := server.New(server.Options{
		Config:     cfg,
		Board:      alerts.NewBoard(),
		Source:     fetcher,
		Assistant:  ai,
		Registerer: reg,
		Gatherer:   reg,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting hub server",
		zap.String("addr", cfg.Server.Addr),
		zap.Bool("assistant", ai != nil),
		zap.Bool("alerts_configured", alerts.IsConfiguredURL(cfg.Alerts.CSVURL)))

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Hub server stopped")
	return nil
}

// buildAssistant returns nil when Hub AI is unavailable; the surfaces
// then show the "not configured" message.
func buildAssistant(ctx context.Context) *assistant.Client {
	ai, err := assistant.New(ctx, cfg)
	if err != nil {
		if !errors.Is(err, assistant.ErrNotConfigured) {
			logging.AssistantError("Hub AI disabled: %v", err)
		}
		return nil
	}
	return ai
}
