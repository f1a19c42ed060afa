package papercall

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/events"
)

func TestEvents(t *testing.T) {
	listings := map[string]string{
		"devops": `[
			{"name": "DevOps Days Tokyo", "location": "Tokyo, Japan",
			 "event_start_date": "2026-04-15", "event_end_date": "2026-04-16",
			 "cfp_end_date": "2026-01-31", "cfp_url": "https://papercall.example.com/cfps/1",
			 "event_url": "https://devopsdays.example.com", "tags": ["devops", "sre"]},
			{"name": "Undated Meetup", "location": "Online"}
		]`,
		"gitops": `[
			{"name": "GitOps Con", "location": "Virtual",
			 "event_start_date": "2026-05-01", "tags": ["gitops"]}
		]`,
	}

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		body, ok := listings[r.URL.Query().Get("keywords")]
		if !ok {
			body = "[]"
		}
		fmt.Fprint(w, body)
	}))
	defer server.Close()

	cfg := &config.Config{Topics: []string{"devops", "gitops", "kubernetes"}}
	src := New(cfg, WithBaseURL(server.URL))

	evts, err := src.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())

	require.Len(t, evts, 2)

	tokyo := evts[0]
	assert.Equal(t, "DevOps Days Tokyo", tokyo.Name)
	assert.Equal(t, "Tokyo", tokyo.City)
	assert.Equal(t, "Japan", tokyo.Country)
	assert.Equal(t, events.NewDate(2026, time.January, 31), tokyo.CFPDeadline)
	assert.Equal(t, "https://papercall.example.com/cfps/1", tokyo.CFPURL)
	assert.Greater(t, tokyo.RelevanceScore, 0.3)

	virtual := evts[1]
	assert.Equal(t, "GitOps Con", virtual.Name)
	assert.Equal(t, "Virtual", virtual.City)
	assert.Empty(t, virtual.Country)
}

func TestEventsKeywordCap(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, "[]")
	}))
	defer server.Close()

	cfg := &config.Config{Topics: []string{"a", "b", "c", "d", "e", "f", "g"}}
	src := New(cfg, WithBaseURL(server.URL))

	_, err := src.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(maxKeywordQueries), requests.Load())
}

func TestEventsUpstreamFailureTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "over capacity", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := &config.Config{Topics: []string{"devops"}}
	src := New(cfg, WithBaseURL(server.URL))

	evts, err := src.Events(context.Background())
	require.NoError(t, err)
	assert.Empty(t, evts)
}

func TestSplitLocation(t *testing.T) {
	city, country := splitLocation("Berlin, Germany")
	assert.Equal(t, "Berlin", city)
	assert.Equal(t, "Germany", country)

	city, country = splitLocation("Online")
	assert.Equal(t, "Online", city)
	assert.Empty(t, country)

	city, country = splitLocation("Austin, TX, USA")
	assert.Equal(t, "Austin", city)
	assert.Equal(t, "TX, USA", country)
}
