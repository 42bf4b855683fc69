package main

import (
	"net/http"
	"time"

	"schoolhub/internal/alerts"
	"schoolhub/internal/tui"

	"github.com/spf13/cobra"
)

// tuiCmd opens the terminal hub
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal hub (default)",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ai := buildAssistant(ctx)
	return tui.Run(tui.Options{
		Context:   ctx,
		Board:     alerts.NewBoard(),
		Source:    alerts.NewFetcher(&http.Client{Timeout: 30 * time.Second}, nil),
		FeedURL:   cfg.Alerts.CSVURL,
		Assistant: ai,
	})
}
