package confradar

import (
	"context"

	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
	"github.com/confradar/confradar/pkg/reconcile"
	"github.com/confradar/confradar/pkg/sources"
)

// Result summarizes one collection run.
type Result struct {
	// Events is the deduplicated, future-filtered, date-sorted batch that
	// was merged into the catalog.
	Events []events.Event

	// Sources carries one entry per source, including failures.
	Sources []sources.Result
}

// Failed returns the results of sources that errored.
func (r *Result) Failed() []sources.Result {
	var failed []sources.Result
	for _, sr := range r.Sources {
		if !sr.OK() {
			failed = append(failed, sr)
		}
	}
	return failed
}

// Collect runs all sources concurrently, reconciles their output, and
// merges it into the catalog. Individual source failures are contained and
// reported in the result; a store failure fails the run and leaves the
// persisted catalog intact.
func (c *Client) Collect(ctx context.Context) (*Result, error) {
	logging.Ctx(ctx).Info().Int("sources", len(c.srcs)).Msg("Starting event collection")

	all, results := sources.Collect(ctx, c.srcs...)

	unique := reconcile.Deduplicate(all)
	logging.Ctx(ctx).Info().
		Int("collected", len(all)).
		Int("unique", len(unique)).
		Msg("Deduplicated events")

	future := reconcile.FutureOnly(unique, c.today())
	logging.Ctx(ctx).Info().Int("future", len(future)).Msg("Applied future cutoff")

	reconcile.SortByStart(future)

	if err := c.store.Merge(future); err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("path", c.store.Path()).Msg("Events saved")

	return &Result{Events: future, Sources: results}, nil
}
