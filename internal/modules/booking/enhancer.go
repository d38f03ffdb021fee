// README: LLM enhancer; asks a completion backend to fill the fields the rule pass missed.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Completer sends a prompt to a text-generation backend.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	llmConfidenceComplete = 0.85
	llmConfidencePartial  = 0.65
	llmConfidenceNoIntent = 0.3

	notFound = "not_found"
)

var ErrEmptyCompletion = errors.New("empty completion")

// Enhancer wraps a Completer with the booking prompt and response parser.
type Enhancer struct {
	completer Completer
	timeout   time.Duration
}

// Enhance asks the backend about text, telling it which fields are already known.
// Any backend failure is returned; the caller decides how to degrade.
func (e Enhancer) Enhance(ctx context.Context, text string, known Record) (Record, error) {
	if e.completer == nil {
		return Record{}, errors.New("booking: no completer configured")
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	resp, err := e.completer.Complete(ctx, BuildPrompt(text, known))
	if err != nil {
		return Record{}, fmt.Errorf("booking: completion: %w", err)
	}
	if strings.TrimSpace(resp) == "" {
		return Record{}, ErrEmptyCompletion
	}
	return ParseCompletion(resp, text), nil
}

// BuildPrompt renders the extraction instruction for text. Fields absent from
// known are labelled "missing".
func BuildPrompt(text string, known Record) string {
	orMissing := func(v string) string {
		if v == "" {
			return "missing"
		}
		return v
	}

	var b strings.Builder
	b.WriteString("Extract booking/interview information from this message. Focus on missing details.\n\n")
	fmt.Fprintf(&b, "user_message: %s\n\n", text)
	b.WriteString("Current extracted info:\n")
	fmt.Fprintf(&b, "- Name: %s\n", orMissing(known.Name))
	fmt.Fprintf(&b, "- Email: %s\n", orMissing(known.Email))
	fmt.Fprintf(&b, "- Date: %s\n", orMissing(known.Date))
	fmt.Fprintf(&b, "- Time: %s\n\n", orMissing(known.Time))
	b.WriteString("Extract and return in this format:\n")
	fmt.Fprintf(&b, "name: [full person name or '%s']\n", notFound)
	fmt.Fprintf(&b, "email: [email address or '%s']\n", notFound)
	fmt.Fprintf(&b, "date: [date in YYYY-MM-DD format or '%s']\n", notFound)
	fmt.Fprintf(&b, "time: [time in HH:MM format or '%s']\n", notFound)
	b.WriteString("type: [technical/hr/phone/video/onsite/general]\n")
	b.WriteString("intent: [booking/scheduling or 'none']\n\n")
	b.WriteString("response:")
	return b.String()
}

// ParseCompletion reads "key: value" lines from a completion. Values
// not_found, missing and "" count as unset; unknown interview types become general.
func ParseCompletion(resp, text string) Record {
	values := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(resp), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		switch strings.ToLower(value) {
		case notFound, "missing", "":
			continue
		}
		values[key] = value
	}

	kind := InterviewGeneral
	if t, ok := ParseInterviewType(values["type"]); ok {
		kind = t
	}
	f := Fields{
		Name:          values["name"],
		Email:         values["email"],
		Date:          values["date"],
		Time:          values["time"],
		InterviewType: kind,
	}

	switch strings.ToLower(values["intent"]) {
	case "booking", "scheduling":
		return newRecord(text, f, llmScore)
	default:
		return newRecord(text, f, func(int) (Status, float64) {
			return StatusIncomplete, llmConfidenceNoIntent
		})
	}
}

func llmScore(missing int) (Status, float64) {
	if missing == 0 {
		return StatusValid, llmConfidenceComplete
	}
	return StatusIncomplete, llmConfidencePartial
}
