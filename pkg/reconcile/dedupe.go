package reconcile

import (
	"sort"

	"github.com/confradar/confradar/pkg/events"
)

// Completeness scores how much useful information a record carries. It is
// the tie-breaker between records sharing an identity key: the more
// complete record survives.
func Completeness(e events.Event) int {
	score := 0
	if e.Description != "" {
		score++
	}
	if !e.CFPDeadline.IsZero() {
		score += 2
	}
	if e.CFPURL != "" {
		score += 2
	}
	if e.Website != "" {
		score++
	}
	score += len(e.Topics)
	if !e.EndDate.IsZero() {
		score++
	}
	return score
}

// Deduplicate collapses records sharing an identity key into one winner per
// key. The first-seen record holds the slot; a later record replaces it
// only when its completeness score is strictly greater. Output order is the
// order in which keys were first introduced.
func Deduplicate(evts []events.Event) []events.Event {
	if len(evts) == 0 {
		return nil
	}

	slot := make(map[string]int, len(evts))
	unique := make([]events.Event, 0, len(evts))

	for _, e := range evts {
		key := Key(e)
		i, seen := slot[key]
		if !seen {
			slot[key] = len(unique)
			unique = append(unique, e)
			continue
		}
		if Completeness(e) > Completeness(unique[i]) {
			unique[i] = e
		}
	}

	return unique
}

// FutureOnly drops events that started before the first day of today's
// month. Events already underway this month are retained, accommodating
// multi-day events.
func FutureOnly(evts []events.Event, today events.Date) []events.Event {
	cutoff := today.MonthStart()
	out := make([]events.Event, 0, len(evts))
	for _, e := range evts {
		if !e.StartDate.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// SortByStart sorts events ascending by start date, in place.
func SortByStart(evts []events.Event) {
	sort.SliceStable(evts, func(i, j int) bool {
		return evts[i].StartDate.Before(evts[j].StartDate)
	})
}
