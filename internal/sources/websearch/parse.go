package websearch

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
)

// searchResponse mirrors the JSON object requested from the model.
type searchResponse struct {
	Events []searchEvent `json:"events"`
}

// searchEvent is one loosely-typed item from the model's reply. String
// fields may hold "null" or be absent; dates are validated individually.
type searchEvent struct {
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	EventType   string   `json:"event_type"`
	Topics      []string `json:"topics"`
	CFPDeadline string   `json:"cfp_deadline"`
	CFPURL      string   `json:"cfp_url"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
}

// ParseEvents converts a model reply into events. The JSON object is
// located by brace matching, so leading and trailing prose around the
// payload is tolerated. Items without a parseable start date are skipped
// with a warning; a reply without any JSON object yields no events.
func ParseEvents(content, country string) []events.Event {
	payload, ok := ExtractJSON(content)
	if !ok {
		return nil
	}

	var resp searchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		logging.Warn().Err(err).Msg("Error parsing JSON response")
		return nil
	}

	var evts []events.Event
	for _, item := range resp.Events {
		startDate, err := events.ParseDate(item.StartDate)
		if err != nil {
			logging.Warn().
				Str("name", item.Name).
				Str("start_date", item.StartDate).
				Msg("Skipping AI result without parseable start date")
			continue
		}
		if strings.TrimSpace(item.Name) == "" {
			continue
		}

		endDate, _ := events.ParseDate(item.EndDate)
		cfpDeadline, _ := events.ParseDate(item.CFPDeadline)

		itemCountry := item.Country
		if itemCountry == "" {
			itemCountry = country
		}

		e := events.Event{
			Name:           item.Name,
			City:           item.City,
			Country:        itemCountry,
			StartDate:      startDate,
			EndDate:        endDate,
			EventType:      events.ParseType(item.EventType),
			Topics:         item.Topics,
			CFPDeadline:    cfpDeadline,
			CFPURL:         stripNull(item.CFPURL),
			Website:        stripNull(item.Website),
			Description:    item.Description,
			RelevanceScore: aiRelevance,
			LastUpdated:    time.Now(),
		}
		e.Normalize()
		evts = append(evts, e)
	}

	return evts
}

// ExtractJSON locates the first complete JSON object in free-form text by
// matching braces, skipping brace characters inside string literals. The
// second return value is false when no balanced object is present.
func ExtractJSON(content string) (string, bool) {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}

// stripNull drops literal "null" strings the model sometimes emits in
// place of absent values.
func stripNull(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "null") {
		return ""
	}
	return strings.TrimSpace(s)
}
