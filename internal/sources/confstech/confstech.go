// Package confstech fetches conference records from the confs.tech open
// data repository, one JSON file per (year, category) pair.
package confstech

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/confradar/confradar/internal/transport"
	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
	"github.com/confradar/confradar/pkg/sources"
)

// DefaultBaseURL is the raw conference-data repository root.
const DefaultBaseURL = "https://raw.githubusercontent.com/tech-conferences/conference-data/main/conferences"

// categories are the confs.tech category files relevant to the tracked
// topic domain.
var categories = []string{"devops", "cloud", "general"}

// conference is the loosely-typed confs.tech record shape. Fields are
// validated during conversion; records failing required-field checks are
// skipped, not propagated.
type conference struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	CFPEndDate  string `json:"cfpEndDate"`
	CFPURL      string `json:"cfpUrl"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Twitter     string `json:"twitter"`
}

// Source fetches one year of confs.tech data across all categories.
type Source struct {
	cfg     *config.Config
	year    int
	baseURL string
	client  *transport.Client
}

// Option configures a confs.tech source.
type Option func(*Source)

// WithBaseURL overrides the upstream repository URL.
func WithBaseURL(url string) Option {
	return func(s *Source) { s.baseURL = strings.TrimSuffix(url, "/") }
}

// New creates a confs.tech source for the given year.
func New(cfg *config.Config, year int, opts ...Option) *Source {
	s := &Source{
		cfg:     cfg,
		year:    year,
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
	return sources.ConfsTechID
}

// Events fetches every category file for the source's year. A missing or
// malformed category slice contributes zero records; it is not an adapter
// failure, since category files do not exist for all years.
func (s *Source) Events(ctx context.Context) ([]events.Event, error) {
	var evts []events.Event

	for _, category := range categories {
		url := fmt.Sprintf("%s/%d/%s.json", s.baseURL, s.year, category)

		resp, err := s.client.Get(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return evts, ctx.Err()
			}
			logging.Ctx(ctx).Debug().
				Err(err).
				Str("category", category).
				Int("year", s.year).
				Msg("Error fetching confs.tech slice")
			continue
		}

		var records []conference
		if err := transport.DecodeResponse(resp, &records); err != nil {
			logging.Ctx(ctx).Debug().
				Err(err).
				Str("category", category).
				Int("year", s.year).
				Msg("No usable confs.tech data for slice")
			continue
		}

		evts = append(evts, s.convert(records, category)...)
	}

	return evts, nil
}

// convert filters raw records down to the configured countries and topics
// and maps survivors onto canonical events.
func (s *Source) convert(records []conference, category string) []events.Event {
	targetCountries := make(map[string]struct{}, len(s.cfg.Countries))
	for _, c := range s.cfg.Countries {
		targetCountries[strings.ToLower(c)] = struct{}{}
	}

	var evts []events.Event
	for _, conf := range records {
		nameLower := strings.ToLower(conf.Name)

		_, countryMatch := targetCountries[strings.ToLower(conf.Country)]
		globalMatch := false
		for _, gc := range s.cfg.GlobalConferences {
			if strings.Contains(nameLower, strings.ToLower(gc)) {
				globalMatch = true
				break
			}
		}
		if !countryMatch && !globalMatch {
			continue
		}

		topics := matchTopics(nameLower, s.cfg.Topics)
		switch category {
		case "devops":
			topics = addTopic(topics, "devops")
		case "cloud":
			topics = addTopic(topics, "cloud native")
		default:
			// General conferences without a vocabulary hit are noise.
			if len(topics) == 0 {
				continue
			}
		}

		startDate, err := events.ParseDate(conf.StartDate)
		if err != nil {
			logging.Debug().
				Str("name", conf.Name).
				Str("start_date", conf.StartDate).
				Msg("Skipping record without parseable start date")
			continue
		}

		endDate, _ := events.ParseDate(conf.EndDate)
		cfpDeadline, _ := events.ParseDate(conf.CFPEndDate)

		e := events.Event{
			Name:           conf.Name,
			City:           conf.City,
			Country:        conf.Country,
			StartDate:      startDate,
			EndDate:        endDate,
			EventType:      events.TypeConference,
			Topics:         topics,
			CFPDeadline:    cfpDeadline,
			CFPURL:         conf.CFPURL,
			Website:        conf.URL,
			Description:    conf.Description,
			RelevanceScore: relevance(conf, topics),
			LastUpdated:    time.Now(),
		}
		e.Normalize()
		evts = append(evts, e)
	}

	return evts
}

// addTopic appends topic unless an equivalent entry is already present, so
// category-derived topics do not double-count title matches in scoring.
func addTopic(topics []string, topic string) []string {
	for _, t := range topics {
		if strings.EqualFold(t, topic) {
			return topics
		}
	}
	return append(topics, topic)
}

// matchTopics returns the vocabulary keywords found in the event name.
func matchTopics(nameLower string, vocabulary []string) []string {
	var topics []string
	for _, t := range vocabulary {
		if strings.Contains(nameLower, strings.ToLower(t)) {
			topics = append(topics, t)
		}
	}
	return topics
}

// relevance is the structured-source scoring variant: topic keywords are
// inferred from the title, and a social handle counts as a community
// presence signal.
func relevance(conf conference, topics []string) float64 {
	score := 0.3 // Base score for being in a target location
	score += min(0.5, float64(len(topics))*0.15)
	if conf.CFPURL != "" {
		score += 0.1
	}
	if conf.Twitter != "" {
		score += 0.1
	}
	return events.ClampScore(score)
}
