package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confradar/confradar"
	"github.com/confradar/confradar/internal/notify"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
)

var notifyDays int

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send Slack notifications for upcoming CFPs",
	Long: `Notify finds events whose CFP deadline falls within the given
number of days and posts a notification per event to the configured Slack
webhook. Without a webhook the upcoming CFPs are logged instead.`,
	RunE: runNotify,
}

func init() {
	notifyCmd.Flags().IntVar(&notifyDays, "days", 14,
		"notify for CFPs closing within this many days")
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Info().Int("days", notifyDays).Msg("Checking for CFPs closing soon")

	radar, err := confradar.New(cfg, confradar.WithAI(false))
	if err != nil {
		return err
	}
	today := events.Today()

	upcoming, err := radar.UpcomingCFPs(notifyDays)
	if err != nil {
		return err
	}

	if len(upcoming) == 0 {
		logging.Info().Msg("No CFPs closing soon")
		return nil
	}

	logging.Info().
		Int("count", len(upcoming)).
		Int("days", notifyDays).
		Msg("Found CFPs closing soon")

	slack := notify.NewSlack(cfg.SlackWebhookURL)
	if !slack.Configured() {
		logging.Warn().Msg("SLACK_WEBHOOK_URL not set, skipping Slack notifications")
		for _, e := range upcoming {
			logging.Info().
				Str("name", e.Name).
				Str("city", e.City).
				Int("days_left", today.DaysUntil(e.CFPDeadline)).
				Msg("Upcoming CFP")
		}
		return nil
	}

	slack.NotifyUpcoming(cmd.Context(), upcoming, today)
	return nil
}
