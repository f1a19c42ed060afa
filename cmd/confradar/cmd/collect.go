package cmd

import (
	"github.com/spf13/cobra"

	"github.com/confradar/confradar"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
)

var (
	noAI       bool
	enrichCFPs bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect events from all sources",
	Long: `Collect fetches event records from every configured source
concurrently, deduplicates them, drops past events, and merges the rest
into the event catalog. One failing source does not abort the run.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().BoolVar(&noAI, "no-ai", false,
		"skip AI-powered web search (faster, but fewer results)")
	collectCmd.Flags().BoolVar(&enrichCFPs, "enrich", false,
		"look up missing CFP details on event websites (requires GEMINI_API_KEY)")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if noAI {
		logging.Info().Msg("AI search disabled")
	}

	radar, err := confradar.New(cfg, confradar.WithAI(!noAI))
	if err != nil {
		return err
	}

	result, err := radar.Collect(cmd.Context())
	if err != nil {
		logging.Err(err).Msg("Collection run failed")
		return err
	}

	for _, failed := range result.Failed() {
		logging.Warn().
			Str("source", failed.Source.String()).
			Err(failed.Err).
			Msg("Source contributed no events")
	}

	if enrichCFPs {
		var missing []events.Event
		for _, e := range result.Events {
			if e.CFPDeadline.IsZero() && e.Website != "" {
				missing = append(missing, e)
			}
		}
		if len(missing) > 0 {
			logging.Info().Int("events", len(missing)).Msg("Enriching events with missing CFP details")
			if _, err := radar.Enrich(cmd.Context(), missing); err != nil {
				logging.Err(err).Msg("Error saving enriched events")
				return err
			}
		}
	}

	// Summarize the whole catalog, previously collected events included.
	today := events.Today()
	evts, err := radar.List()
	if err != nil {
		return err
	}

	withCFP := 0
	openCFP := 0
	for _, e := range evts {
		if !e.CFPDeadline.IsZero() {
			withCFP++
		}
		if e.HasOpenCFP(today) {
			openCFP++
		}
	}

	logging.Info().
		Int("total", len(evts)).
		Int("with_cfp", withCFP).
		Int("open_cfp", openCFP).
		Msg("Collection complete")

	return nil
}
