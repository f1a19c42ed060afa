package catalog

import (
	"sort"
	"strings"

	"github.com/confradar/confradar/pkg/events"
)

// filterOptions holds the query criteria. The zero value matches every
// event.
type filterOptions struct {
	city       string
	topic      string
	openCFP    bool
	startAfter events.Date
	today      events.Date
}

// FilterOption narrows a catalog query.
type FilterOption func(*filterOptions)

// WithCity matches events whose city contains the given value,
// case-insensitively.
func WithCity(city string) FilterOption {
	return func(o *filterOptions) { o.city = city }
}

// WithTopic matches events carrying the given topic (case-insensitive
// equality against attached topics).
func WithTopic(topic string) FilterOption {
	return func(o *filterOptions) { o.topic = topic }
}

// WithOpenCFP matches events whose CFP deadline is today or later.
func WithOpenCFP() FilterOption {
	return func(o *filterOptions) { o.openCFP = true }
}

// StartingAfter matches events whose start date is on or after d.
func StartingAfter(d events.Date) FilterOption {
	return func(o *filterOptions) { o.startAfter = d }
}

// AsOf fixes the reference date used by WithOpenCFP. Defaults to today.
func AsOf(d events.Date) FilterOption {
	return func(o *filterOptions) { o.today = d }
}

// Filter loads the collection and returns the events matching all given
// criteria, in stored order. Callers sort as needed.
func (s *Store) Filter(opts ...FilterOption) ([]events.Event, error) {
	options := filterOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.today.IsZero() {
		options.today = events.Today()
	}

	evts, err := s.Load()
	if err != nil {
		return nil, err
	}

	matched := make([]events.Event, 0, len(evts))
	for _, e := range evts {
		if options.city != "" && !strings.Contains(strings.ToLower(e.City), strings.ToLower(options.city)) {
			continue
		}
		if options.topic != "" && !e.HasTopic(options.topic) {
			continue
		}
		if options.openCFP && !e.HasOpenCFP(options.today) {
			continue
		}
		if !options.startAfter.IsZero() && e.StartDate.Before(options.startAfter) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

// UpcomingCFPs returns events whose CFP deadline falls within
// [today, today+days] inclusive, ascending by deadline.
func (s *Store) UpcomingCFPs(today events.Date, days int) ([]events.Event, error) {
	evts, err := s.Load()
	if err != nil {
		return nil, err
	}

	upcoming := make([]events.Event, 0)
	for _, e := range evts {
		if e.CFPDeadline.IsZero() {
			continue
		}
		left := today.DaysUntil(e.CFPDeadline)
		if left >= 0 && left <= days {
			upcoming = append(upcoming, e)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].CFPDeadline.Before(upcoming[j].CFPDeadline)
	})
	return upcoming, nil
}
