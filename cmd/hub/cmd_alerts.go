package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"schoolhub/internal/alerts"

	"github.com/spf13/cobra"
)

var (
	alertsURL    string
	alertsBanner bool
	alertsJSON   bool
)

// alertsCmd fetches the sheet once and prints what the hub would show
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Fetch the alert sheet and print the alert list",
	Long: `Fetches the published alert sheet once and prints the alerts in
display order (Critical, then Warning, then Info).

Examples:
  hub alerts
  hub alerts --banner
  hub alerts --url https://docs.google.com/.../pub?output=csv --json`,
	RunE: runAlerts,
}

func init() {
	alertsCmd.Flags().StringVar(&alertsURL, "url", "", "Sheet CSV URL (overrides alerts.csv_url)")
	alertsCmd.Flags().BoolVar(&alertsBanner, "banner", false, "Print only the banner alert")
	alertsCmd.Flags().BoolVar(&alertsJSON, "json", false, "Print JSON")
}

func runAlerts(cmd *cobra.Command, args []string) error {
	url := cfg.Alerts.CSVURL
	if alertsURL != "" {
		url = alertsURL
	}

	board := alerts.NewBoard()
	fetcher := alerts.NewFetcher(&http.Client{Timeout: 30 * time.Second}, nil)
	feed := board.Refresh(cmd.Context(), fetcher, url)
	if feed.State == alerts.FeedFailed {
		fmt.Fprintln(cmd.ErrOrStderr(), alerts.UserMessage)
	}

	out := cmd.OutOrStdout()
	if alertsBanner {
		return printBanner(out, board.Banner(""))
	}
	return printList(out, board.List())
}

func printBanner(w io.Writer, st alerts.BannerState) error {
	if alertsJSON {
		return json.NewEncoder(w).Encode(st)
	}
	if !st.Visible {
		fmt.Fprintln(w, "No critical alert.")
		return nil
	}
	fmt.Fprintf(w, "CRITICAL: %s\n  %s\n", st.Alert.Title, st.Alert.Message)
	return nil
}

func printList(w io.Writer, list alerts.ListState) error {
	if alertsJSON {
		return json.NewEncoder(w).Encode(list)
	}
	if list.Kind != alerts.ListAlerts {
		fmt.Fprintln(w, list.Message)
		return nil
	}
	for _, a := range list.Alerts {
		fmt.Fprintf(w, "[%s] #%d %s", a.Severity, a.ID, a.Title)
		if a.Date != "" {
			fmt.Fprintf(w, " (%s)", a.Date)
		}
		fmt.Fprintf(w, "\n  %s\n", a.Message)
	}
	return nil
}
