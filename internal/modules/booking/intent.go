// README: Booking-intent detection over lemmas and temporal entities, with a keyword fallback.
package booking

import (
	"strings"

	"chatbook/internal/nlp"
)

var bookingKeywords = []string{
	"book",
	"schedule",
	"appointment",
	"interview",
	"meeting",
	"slot",
	"time",
	"date",
	"available",
	"reserve",
	"set up",
	"arrange",
}

var bookingKeywordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(bookingKeywords))
	for _, k := range bookingKeywords {
		m[k] = struct{}{}
	}
	return m
}()

// temporalWeight is added to the keyword score per DATE, TIME or CARDINAL entity.
const temporalWeight = 0.5

// IntentDetector decides whether a message asks to schedule something.
type IntentDetector struct {
	analyzer analyzer
}

// Detect reports booking intent. Without an analyzer it falls back to
// substring keyword matching over the lowercased text.
func (d IntentDetector) Detect(text string) bool {
	lower := strings.ToLower(text)
	return d.detect(lower, d.analyzer.analyze(lower))
}

func (d IntentDetector) detect(lower string, a *nlp.Analysis) bool {
	if a == nil {
		for _, k := range bookingKeywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}

	score := 0.0
	for _, t := range a.Tokens {
		if _, hit := bookingKeywordSet[t.Lemma]; hit {
			score++
		}
	}
	temporal := a.EntitiesByLabel(nlp.LabelDate, nlp.LabelTime, nlp.LabelCardinal)
	score += temporalWeight * float64(len(temporal))

	return score >= 1 || (len(temporal) > 0 && score > 0)
}
