package confradar

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confradar/confradar/pkg/catalog"
	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/errors"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/sources"
)

type staticSource struct {
	id   sources.ID
	evts []events.Event
	err  error
}

func (s staticSource) ID() sources.ID { return s.id }

func (s staticSource) Events(ctx context.Context) ([]events.Event, error) {
	return s.evts, s.err
}

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	cfg := &config.Config{EventsFile: filepath.Join(t.TempDir(), "events.json")}
	opts = append(opts,
		WithClock(func() events.Date { return events.NewDate(2025, time.June, 15) }),
	)
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestCollect(t *testing.T) {
	date := events.NewDate(2025, time.September, 3)

	// The same conference reported by two sources under different spellings,
	// plus a distinct event and an already-finished one.
	confstechBatch := []events.Event{
		{Name: "DevOps Days Berlin 2025", StartDate: date, City: "Berlin"},
		{Name: "Legacy Conf", StartDate: events.NewDate(2025, time.April, 1)},
	}
	papercallBatch := []events.Event{
		{Name: "devops days berlin", StartDate: date, CFPURL: "https://cfp.example.com"},
		{Name: "GitOps Con", StartDate: events.NewDate(2025, time.October, 10)},
	}

	c := newTestClient(t, WithSources(
		staticSource{id: sources.ConfsTechID, evts: confstechBatch},
		staticSource{id: sources.PapercallID, evts: papercallBatch},
	))

	result, err := c.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Events, 2)
	// The richer PaperCall record won the duplicate outright.
	berlin := result.Events[0]
	assert.Equal(t, "devops days berlin", berlin.Name)
	assert.Equal(t, "https://cfp.example.com", berlin.CFPURL)
	assert.Equal(t, "GitOps Con", result.Events[1].Name)

	assert.Empty(t, result.Failed())

	// The merged batch is what the store now holds.
	stored, err := c.Store().Load()
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestCollectPartialSourceFailure(t *testing.T) {
	c := newTestClient(t, WithSources(
		staticSource{id: sources.ConfsTechID, err: context.DeadlineExceeded},
		staticSource{id: sources.PapercallID, evts: []events.Event{
			{Name: "GitOps Con", StartDate: events.NewDate(2025, time.October, 10)},
		}},
	))

	result, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Events, 1)

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, sources.ConfsTechID, failed[0].Source)
}

func TestCollectRepeatedRunsAreIdempotent(t *testing.T) {
	src := staticSource{id: sources.ConfsTechID, evts: []events.Event{
		{Name: "KubeCon EU", StartDate: events.NewDate(2025, time.November, 12)},
	}}
	c := newTestClient(t, WithSources(src))

	_, err := c.Collect(context.Background())
	require.NoError(t, err)
	_, err = c.Collect(context.Background())
	require.NoError(t, err)

	stored, err := c.Store().Load()
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCollectStoreFailure(t *testing.T) {
	// A regular file in the directory position makes every write fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := &config.Config{}
	c, err := New(cfg,
		WithSources(staticSource{id: sources.ConfsTechID, evts: []events.Event{
			{Name: "KubeCon EU", StartDate: events.NewDate(2025, time.November, 12)},
		}}),
		WithStore(catalog.New(filepath.Join(blocker, "events.json"))),
	)
	require.NoError(t, err)

	_, err = c.Collect(context.Background())
	assert.Error(t, err)
}
