// Package confradar aggregates tech-conference and meetup records from
// heterogeneous sources into a single deduplicated, persisted catalog with
// a relevance signal for downstream listing and notification.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	radar, err := confradar.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := radar.Collect(ctx)
package confradar

import (
	"context"
	"time"

	"github.com/confradar/confradar/internal/sources/confstech"
	"github.com/confradar/confradar/internal/sources/papercall"
	"github.com/confradar/confradar/internal/sources/websearch"
	"github.com/confradar/confradar/pkg/catalog"
	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/enrich"
	"github.com/confradar/confradar/pkg/errors"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/sources"
)

// Client ties the source adapters, the reconciliation engine, and the
// event store into one collection pipeline.
type Client struct {
	cfg      *config.Config
	store    *catalog.Store
	srcs     []sources.Source
	enricher *enrich.Enricher
	today    func() events.Date
}

// New creates a client for the given configuration. By default it collects
// from confs.tech (current and next year), PaperCall, and, when a Gemini
// API key is configured, AI web search.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, &errors.ConfigError{Component: "client", Message: "config is required"}
	}

	c := &Client{
		cfg:   cfg,
		store: catalog.New(cfg.EventsFile),
		today: events.Today,
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.store != nil {
		c.store = options.store
	}
	if options.today != nil {
		c.today = options.today
	}

	extractor := options.extractor
	if extractor == nil {
		extractor = websearch.NewExtractor(cfg.GeminiAPIKey)
	}
	c.enricher = enrich.New(extractor)

	if options.sources != nil {
		c.srcs = options.sources
	} else {
		year := time.Now().Year()
		c.srcs = []sources.Source{
			confstech.New(cfg, year),
			confstech.New(cfg, year+1),
			papercall.New(cfg),
		}
		if options.useAI {
			c.srcs = append(c.srcs, websearch.New(cfg))
		}
	}

	return c, nil
}

// Store exposes the underlying event store for read-path consumers.
func (c *Client) Store() *catalog.Store {
	return c.store
}

// List queries the catalog for upcoming events matching the given criteria.
func (c *Client) List(opts ...catalog.FilterOption) ([]events.Event, error) {
	query := append([]catalog.FilterOption{
		catalog.AsOf(c.today()),
		catalog.StartingAfter(c.today()),
	}, opts...)
	return c.store.Filter(query...)
}

// UpcomingCFPs returns catalog events whose CFP deadline closes within the
// given number of days, ascending by deadline.
func (c *Client) UpcomingCFPs(days int) ([]events.Event, error) {
	return c.store.UpcomingCFPs(c.today(), days)
}

// Enrich fills missing CFP details on the given events via the configured
// extractor and persists the updates. Enrichment is best-effort per event;
// only the store write can fail the call.
func (c *Client) Enrich(ctx context.Context, evts []events.Event) ([]events.Event, error) {
	enriched := make([]events.Event, len(evts))
	for i, e := range evts {
		enriched[i] = c.enricher.Enrich(ctx, e)
	}
	if err := c.store.Merge(enriched); err != nil {
		return nil, err
	}
	return enriched, nil
}
