package reconcile

import (
	"strings"

	"github.com/confradar/confradar/pkg/events"
)

// pipelineKeywords earn a small bonus when they appear in an event name,
// independent of the configured topic vocabulary.
var pipelineKeywords = []string{"tekton", "ci/cd", "cicd", "pipeline"}

// Relevance computes the topic-relevance score for an event whose topics
// are already attached. Events with no topics score the 0.3 base outright.
// Otherwise the score is 0.3 plus up to 0.5 for vocabulary matches, 0.15
// for an open CFP, and 0.1 for a pipeline keyword in the name, clamped
// to [0, 1].
func Relevance(e events.Event, vocabulary []string, today events.Date) float64 {
	if len(e.Topics) == 0 {
		return 0.3
	}

	topicsLower := make([]string, len(e.Topics))
	for i, t := range e.Topics {
		topicsLower[i] = strings.ToLower(t)
	}

	matches := 0
	for _, kw := range vocabulary {
		kwLower := strings.ToLower(kw)
		for _, topic := range topicsLower {
			if strings.Contains(topic, kwLower) {
				matches++
				break
			}
		}
	}

	score := 0.3
	score += min(0.5, float64(matches)*0.1)

	if e.HasOpenCFP(today) {
		score += 0.15
	}

	nameLower := strings.ToLower(e.Name)
	for _, kw := range pipelineKeywords {
		if strings.Contains(nameLower, kw) {
			score += 0.1
			break
		}
	}

	return events.ClampScore(score)
}
