// Package sources defines the adapter contract for upstream event feeds
// and the concurrent fan-out that collects from all of them. Adapters are
// pure producers: they never touch the catalog, and one adapter's failure
// cannot affect the others.
package sources

import (
	"context"

	"github.com/confradar/confradar/pkg/events"
)

// ID identifies a data source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Known source IDs.
const (
	ConfsTechID ID = "confs_tech"
	PapercallID ID = "papercall"
	WebSearchID ID = "web_search"
)

// Source is one upstream event feed. Events returns the adapter's full
// record batch or a source-specific error. Partial upstream unavailability
// (a missing year or category slice) degrades to fewer records, not an
// error.
type Source interface {
	// ID returns the identifier of this source
	ID() ID

	// Events fetches and converts this source's records
	Events(ctx context.Context) ([]events.Event, error)
}
