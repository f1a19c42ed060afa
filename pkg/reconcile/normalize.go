// Package reconcile implements the reconciliation engine: event name
// normalization, identity-key deduplication with completeness-based
// conflict resolution, relevance scoring, and the future-cutoff filter.
package reconcile

import (
	"regexp"
	"strings"

	"github.com/confradar/confradar/pkg/events"
)

var (
	// Year tokens (20xx) and generic event words are stripped so that
	// "KubeCon 2024" and "kubecon" normalize to the same name.
	fillerWords = regexp.MustCompile(`\s*\b(20\d{2}|conference|conf|summit|meetup)\b\s*`)
	punctuation = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeName normalizes an event name for identity comparison:
// lowercase, year and filler tokens removed, punctuation stripped,
// whitespace collapsed.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = fillerWords.ReplaceAllString(name, " ")
	name = punctuation.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// Key derives the deduplication identity of an event. Two records denote
// the same real-world event iff their keys match exactly: same normalized
// name and same start date, no fuzzy matching and no cross-date tolerance.
func Key(e events.Event) string {
	return NormalizeName(e.Name) + "|" + e.StartDate.String()
}
