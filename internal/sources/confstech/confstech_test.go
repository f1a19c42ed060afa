package confstech

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/events"
)

func testConfig() *config.Config {
	return &config.Config{
		Countries:         []string{"Germany", "Netherlands"},
		GlobalConferences: []string{"KubeCon"},
		Topics:            []string{"devops", "kubernetes", "platform"},
	}
}

func TestEvents(t *testing.T) {
	devopsSlice := `[
		{"name": "DevOps Days Berlin", "city": "Berlin", "country": "Germany",
		 "startDate": "2025-09-03", "endDate": "2025-09-04",
		 "cfpEndDate": "2025-06-01", "cfpUrl": "https://cfp.example.com",
		 "url": "https://devopsdays.example.com", "twitter": "@devopsdays"},
		{"name": "DevOps Meetup Lyon", "city": "Lyon", "country": "France",
		 "startDate": "2025-09-10"},
		{"name": "KubeCon North America", "city": "Atlanta", "country": "U.S.A.",
		 "startDate": "2025-11-12"},
		{"name": "Broken Record", "city": "Berlin", "country": "Germany",
		 "startDate": "TBA"}
	]`
	generalSlice := `[
		{"name": "Platform Engineering Day", "city": "Amsterdam", "country": "Netherlands",
		 "startDate": "2025-10-01"},
		{"name": "Generic Tech Expo", "city": "Amsterdam", "country": "Netherlands",
		 "startDate": "2025-10-05"}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2025/devops.json":
			fmt.Fprint(w, devopsSlice)
		case "/2025/general.json":
			fmt.Fprint(w, generalSlice)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	src := New(testConfig(), 2025, WithBaseURL(server.URL))
	evts, err := src.Events(context.Background())
	require.NoError(t, err)

	// Berlin and the global KubeCon from devops, the platform day from
	// general. France, the topic-less expo, and the dateless record drop out.
	// The missing cloud.json slice is tolerated.
	require.Len(t, evts, 3)

	berlin := evts[0]
	assert.Equal(t, "DevOps Days Berlin", berlin.Name)
	assert.Equal(t, events.NewDate(2025, time.September, 3), berlin.StartDate)
	assert.Equal(t, events.NewDate(2025, time.June, 1), berlin.CFPDeadline)
	assert.Contains(t, berlin.Topics, "devops")
	// 0.3 base + 0.15 one topic + 0.1 CFP URL + 0.1 twitter
	assert.InDelta(t, 0.65, berlin.RelevanceScore, 1e-9)

	kubecon := evts[1]
	assert.Equal(t, "KubeCon North America", kubecon.Name)
	assert.Equal(t, "U.S.A.", kubecon.Country)

	platform := evts[2]
	assert.Equal(t, "Platform Engineering Day", platform.Name)
	assert.Equal(t, []string{"platform"}, platform.Topics)
}

func TestEventsAllSlicesMissing(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := New(testConfig(), 2031, WithBaseURL(server.URL))
	evts, err := src.Events(context.Background())
	require.NoError(t, err)
	assert.Empty(t, evts)
}

func TestEventsContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := New(testConfig(), 2025, WithBaseURL(server.URL))
	_, err := src.Events(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
