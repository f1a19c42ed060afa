package websearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confradar/confradar/internal/transport"
	"github.com/confradar/confradar/pkg/enrich"
	"github.com/confradar/confradar/pkg/errors"
)

// Page-size caps: fetch at most maxFetchBytes, prompt with at most
// maxPromptBytes of it.
const (
	maxFetchBytes  = 50000
	maxPromptBytes = 30000
)

// Extractor asks Gemini to pull CFP details out of an event website. It
// implements enrich.Extractor.
type Extractor struct {
	gen    generator
	client *transport.Client
}

// NewExtractor creates a CFP detail extractor.
func NewExtractor(apiKey string) *Extractor {
	return &Extractor{
		gen:    &geminiGenerator{apiKey: apiKey},
		client: transport.New(),
	}
}

// ExtractCFP fetches the page at url and extracts CFP information from it.
func (x *Extractor) ExtractCFP(ctx context.Context, url string) (enrich.CFPDetails, error) {
	resp, err := x.client.Get(ctx, url)
	if err != nil {
		return enrich.CFPDetails{}, err
	}
	html, err := transport.ReadBody(resp, maxFetchBytes)
	if err != nil {
		return enrich.CFPDetails{}, err
	}
	if len(html) > maxPromptBytes {
		html = html[:maxPromptBytes]
	}

	prompt := fmt.Sprintf(`Analyze this event website HTML and extract CFP (Call for Papers/Proposals) information.

HTML content:
%s

Return JSON with:
{
  "cfp_deadline": "YYYY-MM-DD or null",
  "cfp_url": "https://... or null",
  "cfp_open": true/false,
  "topics": ["topic1", "topic2"]
}

Return ONLY the JSON, no other text.`, html)

	content, err := x.gen.generate(ctx, prompt)
	if err != nil {
		return enrich.CFPDetails{}, err
	}

	payload, ok := ExtractJSON(content)
	if !ok {
		return enrich.CFPDetails{}, errors.WrapParse("json", "cfp extraction response",
			errors.New("no JSON object in response"))
	}

	var details enrich.CFPDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return enrich.CFPDetails{}, errors.WrapParse("json", "cfp extraction response", err)
	}

	details.CFPDeadline = stripNull(details.CFPDeadline)
	details.CFPURL = stripNull(details.CFPURL)
	return details, nil
}
