package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confradar/confradar/pkg/events"
)

func TestCompleteness(t *testing.T) {
	assert.Equal(t, 0, Completeness(events.Event{Name: "bare"}))

	full := events.Event{
		Name:        "full",
		Description: "a conference",
		CFPDeadline: events.NewDate(2025, time.April, 1),
		CFPURL:      "https://cfp.example.com",
		Website:     "https://example.com",
		Topics:      []string{"devops", "gitops"},
		EndDate:     events.NewDate(2025, time.June, 17),
	}
	// 1 + 2 + 2 + 1 + 2 + 1
	assert.Equal(t, 9, Completeness(full))
}

func TestDeduplicate(t *testing.T) {
	date := events.NewDate(2025, time.November, 12)

	t.Run("MoreCompleteWins", func(t *testing.T) {
		sparse := events.Event{Name: "KubeCon 2024", StartDate: date}
		rich := events.Event{Name: "kubecon", StartDate: date, CFPURL: "https://cfp.example.com"}

		out := Deduplicate([]events.Event{sparse, rich})
		require.Len(t, out, 1)
		assert.Equal(t, "https://cfp.example.com", out[0].CFPURL)

		// Same outcome regardless of arrival order.
		out = Deduplicate([]events.Event{rich, sparse})
		require.Len(t, out, 1)
		assert.Equal(t, "https://cfp.example.com", out[0].CFPURL)
	})

	t.Run("TieKeepsIncumbent", func(t *testing.T) {
		first := events.Event{Name: "DevOps Days", StartDate: date, City: "Berlin"}
		second := events.Event{Name: "devops days", StartDate: date, City: "Hamburg"}

		out := Deduplicate([]events.Event{first, second})
		require.Len(t, out, 1)
		assert.Equal(t, "Berlin", out[0].City)
	})

	t.Run("DateGrainSeparates", func(t *testing.T) {
		a := events.Event{Name: "KubeCon", StartDate: date}
		b := events.Event{Name: "KubeCon", StartDate: date.AddDays(1)}

		out := Deduplicate([]events.Event{a, b})
		assert.Len(t, out, 2)
	})

	t.Run("FirstSeenOrderPreserved", func(t *testing.T) {
		evts := []events.Event{
			{Name: "Zeta Conf", StartDate: date},
			{Name: "Alpha Conf", StartDate: date},
			{Name: "zeta", StartDate: date, Website: "https://zeta.example.com"},
		}

		out := Deduplicate(evts)
		require.Len(t, out, 2)
		// The replacement keeps Zeta's original slot.
		assert.Equal(t, "https://zeta.example.com", out[0].Website)
		assert.Equal(t, "Alpha Conf", out[1].Name)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, Deduplicate(nil))
	})
}

func TestFutureOnly(t *testing.T) {
	today := events.NewDate(2025, time.June, 15)

	past := events.Event{Name: "past", StartDate: events.NewDate(2025, time.May, 1)}
	underway := events.Event{Name: "underway", StartDate: events.NewDate(2025, time.June, 1)}
	future := events.Event{Name: "future", StartDate: events.NewDate(2025, time.July, 20)}

	out := FutureOnly([]events.Event{past, underway, future}, today)
	require.Len(t, out, 2)
	assert.Equal(t, "underway", out[0].Name)
	assert.Equal(t, "future", out[1].Name)
}

func TestSortByStart(t *testing.T) {
	evts := []events.Event{
		{Name: "c", StartDate: events.NewDate(2025, time.September, 1)},
		{Name: "a", StartDate: events.NewDate(2025, time.July, 1)},
		{Name: "b", StartDate: events.NewDate(2025, time.August, 1)},
	}
	SortByStart(evts)
	assert.Equal(t, "a", evts[0].Name)
	assert.Equal(t, "b", evts[1].Name)
	assert.Equal(t, "c", evts[2].Name)
}
