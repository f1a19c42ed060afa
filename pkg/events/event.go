// Package events defines the canonical Event record produced by source
// adapters, reconciled by the dedup engine, and persisted in the catalog.
package events

import (
	"strings"
	"time"

	"github.com/confradar/confradar/pkg/errors"
)

// Type classifies an event occurrence.
type Type string

// Known event types. Unrecognized upstream values fall back to
// TypeConference.
const (
	TypeConference Type = "conference"
	TypeMeetup     Type = "meetup"
	TypeWorkshop   Type = "workshop"
)

// ParseType maps an upstream event-type string onto a known Type.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeMeetup:
		return TypeMeetup
	case TypeWorkshop:
		return TypeWorkshop
	default:
		return TypeConference
	}
}

// Event is one conference, meetup, or workshop occurrence. Identity for
// deduplication is not stored on the record; it is derived at merge time
// from the normalized name and the start date.
type Event struct {
	Name           string    `json:"name"`
	City           string    `json:"city,omitempty"`
	Country        string    `json:"country,omitempty"`
	StartDate      Date      `json:"start_date"`
	EndDate        Date      `json:"end_date,omitempty"`
	EventType      Type      `json:"event_type"`
	Topics         []string  `json:"topics,omitempty"`
	CFPDeadline    Date      `json:"cfp_deadline,omitempty"`
	CFPURL         string    `json:"cfp_url,omitempty"`
	Website        string    `json:"website,omitempty"`
	Description    string    `json:"description,omitempty"`
	RelevanceScore float64   `json:"relevance_score"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Validate checks the required-field invariants.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return &errors.ValidationError{Field: "name", Message: "event name is required"}
	}
	if e.StartDate.IsZero() {
		return &errors.ValidationError{Field: "start_date", Message: "start date is required"}
	}
	return nil
}

// Normalize enforces the record invariants in place: the relevance score is
// clamped to [0,1], the event type is defaulted, and case-insensitive
// duplicate topics collapse to their first spelling.
func (e *Event) Normalize() {
	e.RelevanceScore = ClampScore(e.RelevanceScore)
	if e.EventType == "" {
		e.EventType = TypeConference
	}
	e.Topics = dedupeTopics(e.Topics)
}

// HasOpenCFP reports whether the event has a CFP deadline of today or later.
func (e *Event) HasOpenCFP(today Date) bool {
	return !e.CFPDeadline.IsZero() && !e.CFPDeadline.Before(today)
}

// HasTopic reports whether topic is attached to the event, ignoring case.
func (e *Event) HasTopic(topic string) bool {
	for _, t := range e.Topics {
		if strings.EqualFold(t, topic) {
			return true
		}
	}
	return false
}

// ClampScore clamps a relevance score into [0.0, 1.0].
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func dedupeTopics(topics []string) []string {
	if len(topics) < 2 {
		return topics
	}
	seen := make(map[string]struct{}, len(topics))
	out := topics[:0]
	for _, t := range topics {
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
