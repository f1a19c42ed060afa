// Package notify sends Slack notifications for upcoming CFP deadlines via
// an incoming webhook. Per-message failures are logged, never fatal: one
// undeliverable notification must not block the rest.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/confradar/confradar/internal/transport"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
)

// dateFormat is the human-readable date layout used in messages.
const dateFormat = "January 2, 2006"

// block is one Slack Block Kit element.
type block struct {
	Type     string `json:"type"`
	Text     *text  `json:"text,omitempty"`
	Fields   []text `json:"fields,omitempty"`
	Elements []text `json:"elements,omitempty"`
}

type text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func mrkdwn(s string) *text {
	return &text{Type: "mrkdwn", Text: s}
}

// Slack posts CFP notifications to an incoming webhook.
type Slack struct {
	webhookURL string
	client     *transport.Client
}

// NewSlack creates a notifier for the given webhook URL.
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     transport.New(),
	}
}

// Configured reports whether a webhook URL is set.
func (s *Slack) Configured() bool {
	return s.webhookURL != ""
}

// NotifyUpcoming sends one message per event whose CFP is closing soon.
// Events are expected to carry a CFP deadline; others are skipped.
func (s *Slack) NotifyUpcoming(ctx context.Context, evts []events.Event, today events.Date) {
	for _, e := range evts {
		if e.CFPDeadline.IsZero() {
			continue
		}
		daysLeft := today.DaysUntil(e.CFPDeadline)

		urgency := ""
		switch {
		case daysLeft <= 3:
			urgency = ":rotating_light: URGENT: "
		case daysLeft <= 7:
			urgency = ":warning: "
		}

		cfpLink := fmt.Sprintf("<%s|Event website>", e.Website)
		if e.CFPURL != "" {
			cfpLink = fmt.Sprintf("<%s|Submit your talk>", e.CFPURL)
		}

		plural := "s"
		if daysLeft == 1 {
			plural = ""
		}

		blocks := []block{
			{Type: "section", Text: mrkdwn(fmt.Sprintf("%s*CFP closing soon: %s*", urgency, e.Name))},
			{Type: "section", Fields: []text{
				*mrkdwn(fmt.Sprintf("*Location:*\n%s, %s", e.City, e.Country)),
				*mrkdwn(fmt.Sprintf("*Event Date:*\n%s", e.StartDate.Time().Format(dateFormat))),
				*mrkdwn(fmt.Sprintf("*CFP Deadline:*\n%s", e.CFPDeadline.Time().Format(dateFormat))),
				*mrkdwn(fmt.Sprintf("*Days Left:*\n%d day%s", daysLeft, plural)),
			}},
			{Type: "section", Text: mrkdwn(cfpLink)},
			{Type: "divider"},
		}

		if err := s.post(ctx, blocks); err != nil {
			logging.Ctx(ctx).Error().
				Err(err).
				Str("name", e.Name).
				Msg("Failed to send notification")
			continue
		}
		logging.Ctx(ctx).Info().Str("name", e.Name).Msg("Sent notification")
	}
}

// NotifyDigest sends one digest message grouping upcoming CFPs by urgency.
func (s *Slack) NotifyDigest(ctx context.Context, evts []events.Event, today events.Date) {
	if !s.Configured() || len(evts) == 0 {
		return
	}

	type entry struct {
		event    events.Event
		daysLeft int
	}
	var urgent, soon, upcoming []entry

	for _, e := range evts {
		if e.CFPDeadline.IsZero() {
			continue
		}
		daysLeft := today.DaysUntil(e.CFPDeadline)
		switch {
		case daysLeft < 0:
			continue
		case daysLeft <= 3:
			urgent = append(urgent, entry{e, daysLeft})
		case daysLeft <= 7:
			soon = append(soon, entry{e, daysLeft})
		case daysLeft <= 14:
			upcoming = append(upcoming, entry{e, daysLeft})
		}
	}

	blocks := []block{
		{Type: "header", Text: &text{Type: "plain_text", Text: "Daily CFP Digest"}},
		{Type: "context", Elements: []text{
			*mrkdwn(fmt.Sprintf("*%s*", today.Time().Format("Monday, January 2, 2006"))),
		}},
	}

	section := func(entries []entry, header, emoji string) {
		if len(entries) == 0 {
			return
		}
		body := fmt.Sprintf("%s *%s*\n", emoji, header)
		for _, en := range entries {
			body += fmt.Sprintf("• %s (%s) - %dd left\n", en.event.Name, en.event.City, en.daysLeft)
		}
		blocks = append(blocks, block{Type: "section", Text: mrkdwn(body)})
	}

	section(urgent, "Closing in 3 days or less!", ":rotating_light:")
	section(soon, "Closing this week", ":warning:")
	section(upcoming, "Closing in 2 weeks", ":calendar:")

	if len(blocks) == 2 {
		blocks = append(blocks, block{Type: "section",
			Text: mrkdwn("No CFPs closing in the next 2 weeks.")})
	}

	if err := s.post(ctx, blocks); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to send digest")
		return
	}
	logging.Ctx(ctx).Info().Msg("Daily digest sent to Slack")
}

func (s *Slack) post(ctx context.Context, blocks []block) error {
	payload, err := json.Marshal(map[string][]block{"blocks": blocks})
	if err != nil {
		return err
	}

	resp, err := s.client.PostJSON(ctx, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
