// README: Default TextAnalyzer backed by prose (tokens, PERSON), golem (lemmas) and a temporal tagger.
package nlp

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

const monthNames = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
const weekdays = `(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)`

var dateSpanREs = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`),
	regexp.MustCompile(`(?i)\b` + monthNames + `\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`(?i)\b(?:(?:the\s+)?day after tomorrow|today|tomorrow|(?:next|this|coming)\s+(?:week|` + weekdays + `)|` + weekdays + `)\b`),
}

var timeSpanREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?:\s*(?:am|pm)\b)?`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:am|pm)\b`),
	regexp.MustCompile(`(?i)\b(?:noon|midnight)\b`),
}

// ProseAnalyzer implements TextAnalyzer.
// The tagger/NER model and the lemma dictionary are loaded once; Analyze only reads shared state.
type ProseAnalyzer struct {
	model      *prose.Model
	lemmatizer *golem.Lemmatizer
}

// NewProseAnalyzer loads the prose model and the English lemma dictionary.
func NewProseAnalyzer() (*ProseAnalyzer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("nlp: load lemmatizer: %w", err)
	}
	seed, err := prose.NewDocument("Loading the tagger.", prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("nlp: load model: %w", err)
	}
	return &ProseAnalyzer{model: seed.Model, lemmatizer: l}, nil
}

func (a *ProseAnalyzer) Analyze(text string) (Analysis, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(a.model))
	if err != nil {
		return Analysis{}, fmt.Errorf("nlp: analyze: %w", err)
	}

	var out Analysis
	for _, ent := range doc.Entities() {
		if ent.Label == string(LabelPerson) {
			out.Entities = append(out.Entities, Entity{Text: ent.Text, Label: LabelPerson})
		}
	}

	spans := temporalSpans(text)
	for _, s := range spans {
		out.Entities = append(out.Entities, Entity{Text: text[s.start:s.end], Label: s.label})
	}

	cursor := 0
	for _, tok := range doc.Tokens() {
		start := -1
		if idx := strings.Index(text[cursor:], tok.Text); idx >= 0 {
			start = cursor + idx
			cursor = start + len(tok.Text)
		}
		lower := strings.ToLower(tok.Text)
		lemma := a.lemmatizer.Lemma(lower)
		if lemma == "" {
			lemma = lower
		}
		out.Tokens = append(out.Tokens, Token{Text: tok.Text, Lemma: lemma})

		if tok.Tag == "CD" && (start < 0 || !insideAny(spans, start, start+len(tok.Text))) {
			out.Entities = append(out.Entities, Entity{Text: tok.Text, Label: LabelCardinal})
		}
	}
	return out, nil
}

type span struct {
	start, end int
	label      Label
}

// temporalSpans tags DATE and TIME expressions. Overlaps keep the earliest, longest match.
func temporalSpans(text string) []span {
	var all []span
	collect := func(res []*regexp.Regexp, label Label) {
		for _, re := range res {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				all = append(all, span{start: loc[0], end: loc[1], label: label})
			}
		}
	}
	collect(dateSpanREs, LabelDate)
	collect(timeSpanREs, LabelTime)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end > all[j].end
	})

	out := make([]span, 0, len(all))
	end := -1
	for _, s := range all {
		if s.start < end {
			continue
		}
		out = append(out, s)
		end = s.end
	}
	return out
}

func insideAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}
