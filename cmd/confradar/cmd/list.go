package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/confradar/confradar"
	"github.com/confradar/confradar/pkg/catalog"
	"github.com/confradar/confradar/pkg/events"
)

var (
	listCity  string
	listTopic string
	listCFP   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collected events",
	Long: `List prints upcoming events from the catalog, optionally filtered
by city, topic, or open CFP, sorted by CFP deadline (events without a
deadline last).`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCity, "city", "", "filter by city (substring match)")
	listCmd.Flags().StringVar(&listTopic, "topic", "", "filter by topic")
	listCmd.Flags().BoolVar(&listCFP, "cfp", false, "show only events with an open CFP")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	radar, err := confradar.New(cfg, confradar.WithAI(false))
	if err != nil {
		return err
	}
	today := events.Today()

	var opts []catalog.FilterOption
	if listCity != "" {
		opts = append(opts, catalog.WithCity(listCity))
	}
	if listTopic != "" {
		opts = append(opts, catalog.WithTopic(listTopic))
	}
	if listCFP {
		opts = append(opts, catalog.WithOpenCFP())
	}

	evts, err := radar.List(opts...)
	if err != nil {
		return err
	}

	if len(evts) == 0 {
		fmt.Println("No events found matching the criteria.")
		return nil
	}

	// Deadline-less events sort to the end.
	sort.SliceStable(evts, func(i, j int) bool {
		di, dj := evts[i].CFPDeadline, evts[j].CFPDeadline
		switch {
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		default:
			return di.Before(dj)
		}
	})

	for _, e := range evts {
		cfpInfo := ""
		if !e.CFPDeadline.IsZero() {
			cfpInfo = fmt.Sprintf(" [CFP: %s (%dd)]", e.CFPDeadline, today.DaysUntil(e.CFPDeadline))
		}
		fmt.Printf("%s | %s | %s%s\n", e.StartDate, e.Name, e.City, cfpInfo)
	}

	return nil
}
