package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/adapters/observability"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/pkg/datadisplay"
)

var (
	// Global flags
	configPath string
	baseURL    string
	username   string
	password   string
	logLevel   string

	obsOnce   sync.Once
	sharedObs *observability.PromObs
)

var rootCmd = &cobra.Command{
	Use:   "data-display",
	Short: "Sensor session dashboard",
	Long: `A terminal dashboard for sensor acquisition sessions. It logs into the
backend API, follows a recording session live and pages through its rows.

Examples:
  data-display mock-backend --user demo --password demo     # Local backend with live data
  data-display watch --user demo --password demo            # Follow the newest session
  data-display sessions list --user demo --password demo    # List recorded sessions
  data-display export --session 1 --out session1.csv        # Download a session as CSV`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "username (overrides api.username)")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "password (overrides api.password)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// loadConfig reads --config when given, otherwise starts from defaults, then applies
// the global flag overrides.
func loadConfig() (*datadisplay.Config, error) {
	var (
		cfg *datadisplay.Config
		err error
	)
	if configPath != "" {
		cfg, err = datadisplay.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = datadisplay.DefaultConfig()
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if username != "" {
		cfg.API.Username = username
	}
	if password != "" {
		cfg.API.Password = password
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// obs returns the process-wide observability backend. Logs go to stderr in console form.
func obs() *observability.PromObs {
	obsOnce.Do(func() {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			level = zerolog.WarnLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			Level(level).
			With().Timestamp().Logger()
		sharedObs = observability.NewPromObsWith(prometheus.DefaultRegisterer, logger)
	})
	return sharedObs
}
