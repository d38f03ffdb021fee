// README: Rule-based resolver; turns one message into a scored record without any LLM help.
package booking

import (
	"strings"
)

const (
	confidenceNoIntent = 0.1

	ruleConfidenceComplete = 0.9
	ruleConfidenceFew      = 0.7
	ruleConfidenceMany     = 0.5
)

// Resolver runs intent detection and entity extraction.
type Resolver struct {
	analyzer  analyzer
	intent    IntentDetector
	extractor Extractor
}

// Resolve builds a record from text alone. Without booking intent it returns
// an INCOMPLETE record with no fields and skips extraction entirely.
func (r Resolver) Resolve(text string) Record {
	lower := strings.ToLower(text)
	lowerA := r.analyzer.analyze(lower)
	if !r.intent.detect(lower, lowerA) {
		return newRecord(text, Fields{InterviewType: InterviewGeneral}, func(int) (Status, float64) {
			return StatusIncomplete, confidenceNoIntent
		})
	}

	a := r.analyzer.analyze(text)
	f := Fields{
		Name:          first(r.extractor.Names(text, a)),
		Email:         r.extractor.Email(text),
		Date:          first(r.extractor.Dates(text, a)),
		Time:          first(r.extractor.Times(text, a)),
		InterviewType: r.extractor.InterviewType(lower, lowerA),
	}
	return newRecord(text, f, ruleScore)
}

func ruleScore(missing int) (Status, float64) {
	switch {
	case missing == 0:
		return StatusValid, ruleConfidenceComplete
	case missing <= 2:
		return StatusIncomplete, ruleConfidenceFew
	default:
		return StatusIncomplete, ruleConfidenceMany
	}
}
