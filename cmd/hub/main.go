package main

import (
	"fmt"
	"os"

	"schoolhub/internal/alerts"
	"schoolhub/internal/config"
	"schoolhub/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "HCSS Hub - school alerts, links and Hub AI",
	Long: `hub serves the Hampden Charter School of Science student hub.

Alerts are read from a Google Sheet published as CSV. Critical alerts
appear as a banner, everything else in the alert list.

Run without arguments to open the terminal hub.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runTUI,
}

func init() {
	// Assigned here: setup reads rootCmd, so a literal field would be an initialization cycle.
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "hub.yaml", "Path to the hub config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and installs the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	// The terminal hub owns the screen, so it only logs to a file.
	if interactive(cmd) && cfg.Logging.File == "" {
		logger = zap.NewNop()
	} else {
		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	logging.Initialize(logger, cfg.Logging.Categories)
	logging.Boot("hub %s starting with config %s", cmd.Name(), configPath)
	if env := cfg.EnvFile(); env != "" {
		logging.Config("loaded environment from %s", env)
	}
	if !alerts.IsConfiguredURL(cfg.Alerts.CSVURL) {
		logging.ConfigWarn("alerts.csv_url is not set; no alerts will be shown")
	}
	if cfg.Admin.Password == "" {
		logging.BootWarn("admin.password is empty; the admin panel is open to anyone")
	}
	return nil
}

func interactive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == tuiCmd
}
