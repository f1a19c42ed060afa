// Package websearch discovers events through Gemini-backed web search.
// Responses are free-form text with a JSON payload located by brace
// matching; individual malformed items are dropped, never the batch.
package websearch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/confradar/confradar/pkg/config"
	"github.com/confradar/confradar/pkg/events"
	"github.com/confradar/confradar/pkg/logging"
	"github.com/confradar/confradar/pkg/sources"
)

// Model is the Gemini model used for search and extraction.
const Model = "gemini-3-flash-preview"

// aiRelevance is the fixed score for AI-discovered events, reflecting
// unverified provenance.
const aiRelevance = 0.7

// maxPromptTopics bounds how many vocabulary entries go into the prompt.
const maxPromptTopics = 5

// generator abstracts the Gemini call so parsing can be tested without the
// live API.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Source discovers events per configured country via AI web search.
type Source struct {
	cfg *config.Config
	gen generator
}

// New creates a web-search source. When no API key is configured the
// source contributes zero records with a warning instead of failing.
func New(cfg *config.Config) *Source {
	return &Source{
		cfg: cfg,
		gen: &geminiGenerator{apiKey: cfg.GeminiAPIKey},
	}
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID {
	return sources.WebSearchID
}

// Events queries Gemini once per configured country. A failed country
// query is logged and the remaining countries still run.
func (s *Source) Events(ctx context.Context) ([]events.Event, error) {
	if s.cfg.GeminiAPIKey == "" {
		logging.Ctx(ctx).Warn().Msg("GEMINI_API_KEY not set, skipping AI search")
		return nil, nil
	}

	logging.Ctx(ctx).Info().Msg("Starting Gemini AI search")

	var evts []events.Event
	for _, country := range s.cfg.Countries {
		prompt := s.prompt(country)

		logging.Ctx(ctx).Debug().Str("country", country).Msg("Querying Gemini")
		content, err := s.gen.generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return evts, ctx.Err()
			}
			logging.Ctx(ctx).Error().
				Err(err).
				Str("country", country).
				Msg("Error searching events for country")
			continue
		}

		parsed := ParseEvents(content, country)
		logging.Ctx(ctx).Info().
			Str("country", country).
			Int("events", len(parsed)).
			Msg("Parsed AI search results")
		evts = append(evts, parsed...)
	}

	return evts, nil
}

// prompt builds the retrieval request for one country.
func (s *Source) prompt(country string) string {
	topics := s.cfg.Topics
	if len(topics) > maxPromptTopics {
		topics = topics[:maxPromptTopics]
	}
	year := time.Now().Year()

	return fmt.Sprintf(`Search for upcoming tech conferences and meetups in %[1]s for %[2]d and %[3]d.

Focus on events related to: %[4]s

For each event you find, provide the following information in JSON format:
{
  "events": [
    {
      "name": "Event Name",
      "city": "City Name",
      "country": "%[1]s",
      "start_date": "YYYY-MM-DD",
      "end_date": "YYYY-MM-DD or null",
      "event_type": "conference or meetup or workshop",
      "topics": ["topic1", "topic2"],
      "cfp_deadline": "YYYY-MM-DD or null",
      "cfp_url": "https://... or null",
      "website": "https://...",
      "description": "Brief description"
    }
  ]
}

Only include events that:
1. Are actually in %[1]s
2. Are related to DevOps, CI/CD, Cloud Native, Kubernetes, or Platform Engineering
3. Have dates in the future or within the last month
4. You are reasonably confident about

Return ONLY the JSON, no other text.`, country, year, year+1, strings.Join(topics, ", "))
}

// geminiGenerator is the live Gemini backend with Google Search grounding.
type geminiGenerator struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.getOrCreateClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.Models.GenerateContent(ctx, Model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
		})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *geminiGenerator) getOrCreateClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  g.apiKey,
	})
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}
