// Package enrich augments single events with CFP details discovered from
// their websites. Enrichment is strictly best-effort: any failure degrades
// to leaving the field absent, and events not missing the target field are
// returned untouched to avoid redundant external calls.
package enrich

import (
	"context"
	"time"

	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
)

// CFPDetails is what an extractor can learn from an event website. Absent
// fields stay empty.
type CFPDetails struct {
	CFPDeadline string   `json:"cfp_deadline"`
	CFPURL      string   `json:"cfp_url"`
	CFPOpen     bool     `json:"cfp_open"`
	Topics      []string `json:"topics"`
}

// Extractor looks up CFP details for an event website.
type Extractor interface {
	ExtractCFP(ctx context.Context, url string) (CFPDetails, error)
}

// Enricher fills missing CFP fields on events.
type Enricher struct {
	extractor Extractor
}

// New creates an enricher backed by the given extractor.
func New(extractor Extractor) *Enricher {
	return &Enricher{extractor: extractor}
}

// Enrich returns the event with missing CFP fields filled in where the
// extractor found them. Events that already have a CFP deadline, or that
// have no website to look at, come back unmodified. Extraction errors are
// logged and the event comes back as it was.
func (en *Enricher) Enrich(ctx context.Context, e events.Event) events.Event {
	if e.Website == "" || !e.CFPDeadline.IsZero() {
		return e
	}

	details, err := en.extractor.ExtractCFP(ctx, e.Website)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("name", e.Name).
			Str("website", e.Website).
			Msg("CFP enrichment failed, leaving fields absent")
		return e
	}

	if details.CFPDeadline != "" {
		if deadline, err := events.ParseDate(details.CFPDeadline); err == nil {
			e.CFPDeadline = deadline
		}
	}
	if details.CFPURL != "" {
		e.CFPURL = details.CFPURL
	}
	if len(details.Topics) > 0 {
		e.Topics = append(e.Topics, details.Topics...)
		e.Normalize() // collapses duplicate topics from the union
	}
	e.LastUpdated = time.Now()

	return e
}
