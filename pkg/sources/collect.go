package sources

import (
	"context"
	"sync"

	"github.com/confradar/confradar/pkg/errors"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
)

// Result reports one source's contribution to a collection run.
type Result struct {
	Source ID
	Count  int
	Err    error
}

// OK reports whether the source completed without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// Collect runs every source concurrently and waits for all of them.
// Failures are captured per source and never cancel siblings: the returned
// events are the union of all successful batches, and the results slice
// carries one entry per source in input order.
func Collect(ctx context.Context, srcs ...Source) ([]events.Event, []Result) {
	type indexed struct {
		idx    int
		result Result
		events []events.Event
	}

	var wg sync.WaitGroup
	resultChan := make(chan indexed, len(srcs))

	for i, src := range srcs {
		wg.Add(1)
		go func(idx int, src Source) {
			defer wg.Done()

			srcCtx := logging.WithSource(ctx, src.ID().String())
			evts, err := src.Events(srcCtx)
			if err != nil {
				err = errors.WrapSource(src.ID().String(), err)
			}
			resultChan <- indexed{
				idx:    idx,
				result: Result{Source: src.ID(), Count: len(evts), Err: err},
				events: evts,
			}
		}(i, src)
	}

	wg.Wait()
	close(resultChan)

	results := make([]Result, len(srcs))
	batches := make([][]events.Event, len(srcs))
	for r := range resultChan {
		results[r.idx] = r.result
		batches[r.idx] = r.events
	}

	var all []events.Event
	for i, batch := range batches {
		r := results[i]
		if r.Err != nil {
			logging.Error().
				Err(r.Err).
				Str("source", r.Source.String()).
				Msg("Error collecting from source")
			continue
		}
		all = append(all, batch...)
		logging.Info().
			Str("source", r.Source.String()).
			Int("events", r.Count).
			Msg("Collected events from source")
	}

	return all, results
}
