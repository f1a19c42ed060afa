// Package papercall fetches open calls for proposals from the PaperCall
// event listing, one query per tracked topic keyword.
package papercall

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/confradar/confradar/internal/transport"
	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
	"github.com/confradar/confradar/pkg/reconcile"
	"github.com/confradar/confradar/pkg/sources"
)

// DefaultBaseURL is the PaperCall events API root.
const DefaultBaseURL = "https://www.papercall.io/api/v1/events"

// maxKeywordQueries bounds the number of per-keyword requests per run.
const maxKeywordQueries = 5

// cfpEvent is the loosely-typed PaperCall record shape.
type cfpEvent struct {
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	EventStartDate string   `json:"event_start_date"`
	EventEndDate   string   `json:"event_end_date"`
	CFPEndDate     string   `json:"cfp_end_date"`
	EventURL       string   `json:"event_url"`
	CFPURL         string   `json:"cfp_url"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
}

// Source fetches open CFPs matching the configured topic vocabulary.
type Source struct {
	cfg     *config.Config
	baseURL string
	client  *transport.Client
}

// Option configures a PaperCall source.
type Option func(*Source)

// WithBaseURL overrides the upstream API URL.
func WithBaseURL(u string) Option {
	return func(s *Source) { s.baseURL = strings.TrimSuffix(u, "/") }
}

// New creates a PaperCall source.
func New(cfg *config.Config, opts ...Option) *Source {
	s := &Source{
		cfg:     cfg,
		baseURL: DefaultBaseURL,
		client:  transport.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.PapercallID
}

// Events queries the listing once per topic keyword. A failed keyword query
// degrades to zero records for that keyword; records lacking a parseable
// event date are skipped individually.
func (s *Source) Events(ctx context.Context) ([]events.Event, error) {
	keywords := s.cfg.Topics
	if len(keywords) > maxKeywordQueries {
		keywords = keywords[:maxKeywordQueries]
	}

	var evts []events.Event
	for _, keyword := range keywords {
		u := fmt.Sprintf("%s?keywords=%s", s.baseURL, url.QueryEscape(keyword))

		resp, err := s.client.Get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return evts, ctx.Err()
			}
			logging.Ctx(ctx).Debug().
				Err(err).
				Str("keyword", keyword).
				Msg("Error fetching PaperCall listing")
			continue
		}

		var records []cfpEvent
		if err := transport.DecodeResponse(resp, &records); err != nil {
			logging.Ctx(ctx).Debug().
				Err(err).
				Str("keyword", keyword).
				Msg("No usable PaperCall data for keyword")
			continue
		}

		evts = append(evts, s.convert(records)...)
	}

	return evts, nil
}

func (s *Source) convert(records []cfpEvent) []events.Event {
	today := events.Today()

	var evts []events.Event
	for _, rec := range records {
		startDate, err := events.ParseDate(rec.EventStartDate)
		if err != nil {
			logging.Debug().
				Str("name", rec.Name).
				Str("event_start_date", rec.EventStartDate).
				Msg("Skipping CFP record without parseable event date")
			continue
		}

		endDate, _ := events.ParseDate(rec.EventEndDate)
		cfpDeadline, _ := events.ParseDate(rec.CFPEndDate)
		city, country := splitLocation(rec.Location)

		e := events.Event{
			Name:        rec.Name,
			City:        city,
			Country:     country,
			StartDate:   startDate,
			EndDate:     endDate,
			EventType:   events.TypeConference,
			Topics:      rec.Tags,
			CFPDeadline: cfpDeadline,
			CFPURL:      rec.CFPURL,
			Website:     rec.EventURL,
			Description: rec.Description,
			LastUpdated: time.Now(),
		}
		e.Normalize()
		e.RelevanceScore = reconcile.Relevance(e, s.cfg.Topics, today)
		evts = append(evts, e)
	}

	return evts
}

// splitLocation splits a "City, Country" location string. Single-part
// locations are treated as a city.
func splitLocation(location string) (city, country string) {
	parts := strings.SplitN(location, ",", 2)
	city = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		country = strings.TrimSpace(parts[1])
	}
	return city, country
}
