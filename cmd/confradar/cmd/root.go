// Package cmd implements the confradar command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/logging"
)

var (
	configFile string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "confradar",
	Short: "Tech events & CFP tracker",
	Long: `Confradar collects tech conference and meetup records from multiple
sources (confs.tech open data, PaperCall CFP listings, and AI-assisted web
search), reconciles them into a single deduplicated catalog, and tracks
upcoming CFP deadlines.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is config.yaml)")
}

// initEnv loads .env files and binds environment variables before any
// command runs.
func initEnv() {
	// A missing .env file is fine; explicit settings win over it.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// loadConfig builds the immutable run configuration from the --config flag
// (or default location) plus environment credentials bound through viper.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		logging.Err(err).Msg("Failed to load configuration")
		return nil, err
	}

	if v := viper.GetString("gemini_api_key"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := viper.GetString("slack_webhook_url"); v != "" {
		cfg.SlackWebhookURL = v
	}
	if v := viper.GetString("confradar_events_file"); v != "" {
		cfg.EventsFile = v
	}

	return cfg, nil
}
