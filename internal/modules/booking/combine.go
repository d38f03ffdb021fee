// README: Merges the rule-based and LLM records; rule-based values win field by field.
package booking

const (
	combinedConfidenceCompleteStrong = 0.95
	combinedConfidenceComplete       = 0.85
	combinedConfidenceFewStrong      = 0.75
	combinedConfidenceFew            = 0.65
	combinedConfidenceMany           = 0.55

	// ruleConfidenceOverride replaces the rule confidence when no LLM pass was needed.
	ruleConfidenceOverride = 0.95
)

// Combine merges rule and llm, then rescores the result. Confidence depends on
// how many required fields the rule-based pass found on its own.
func Combine(rule, llm Record) Record {
	f := Fields{
		Name:          pick(rule.Name, llm.Name),
		Email:         pick(rule.Email, llm.Email),
		Date:          pick(rule.Date, llm.Date),
		Time:          pick(rule.Time, llm.Time),
		InterviewType: InterviewType(pick(string(rule.InterviewType), string(llm.InterviewType), string(InterviewGeneral))),
	}
	ruleFound := rule.Fields().populated()

	return newRecord(rule.ExtractedText, f, func(missing int) (Status, float64) {
		switch {
		case missing == 0:
			if ruleFound >= 3 {
				return StatusValid, combinedConfidenceCompleteStrong
			}
			return StatusValid, combinedConfidenceComplete
		case missing <= 2:
			if ruleFound >= 2 {
				return StatusIncomplete, combinedConfidenceFewStrong
			}
			return StatusIncomplete, combinedConfidenceFew
		default:
			return StatusIncomplete, combinedConfidenceMany
		}
	})
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
