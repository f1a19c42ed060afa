package confradar

import (
	"github.com/confradar/confradar/pkg/catalog"
	"github.com/confradar/confradar/pkg/enrich"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/sources"
)

// options holds the client construction settings.
type options struct {
	store     *catalog.Store
	sources   []sources.Source
	extractor enrich.Extractor
	today     func() events.Date
	useAI     bool
}

func defaultOptions() *options {
	return &options{useAI: true}
}

// Option configures a Client.
type Option func(*options)

// WithStore overrides the event store.
func WithStore(store *catalog.Store) Option {
	return func(o *options) { o.store = store }
}

// WithSources replaces the default source set.
func WithSources(srcs ...sources.Source) Option {
	return func(o *options) { o.sources = srcs }
}

// WithExtractor overrides the CFP detail extractor used by Enrich.
func WithExtractor(ext enrich.Extractor) Option {
	return func(o *options) { o.extractor = ext }
}

// WithAI enables or disables the AI web-search source. Enabled by default;
// the source skips itself when no API key is configured.
func WithAI(enabled bool) Option {
	return func(o *options) { o.useAI = enabled }
}

// WithClock overrides the date used for the future cutoff and CFP windows.
// Intended for tests.
func WithClock(today func() events.Date) Option {
	return func(o *options) { o.today = today }
}
