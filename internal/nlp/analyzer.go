// README: Text-analysis and date-parsing contracts consumed by the booking engine.
package nlp

import (
	"errors"
	"time"
)

// Label is a named-entity category.
type Label string

const (
	LabelPerson   Label = "PERSON"
	LabelDate     Label = "DATE"
	LabelTime     Label = "TIME"
	LabelCardinal Label = "CARDINAL"
)

// Token is a single word with its dictionary form.
type Token struct {
	Text  string
	Lemma string
}

// Entity is a tagged span of the analyzed text.
type Entity struct {
	Text  string
	Label Label
}

// Analysis is the result of running a TextAnalyzer over one text.
type Analysis struct {
	Tokens   []Token
	Entities []Entity
}

// Lemmas returns the lemma of every token, in order.
func (a Analysis) Lemmas() []string {
	out := make([]string, len(a.Tokens))
	for i, t := range a.Tokens {
		out[i] = t.Lemma
	}
	return out
}

// EntitiesByLabel returns the spans carrying any of the given labels, in text order.
func (a Analysis) EntitiesByLabel(labels ...Label) []Entity {
	var out []Entity
	for _, e := range a.Entities {
		for _, l := range labels {
			if e.Label == l {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// TextAnalyzer tokenizes, lemmatizes and tags entities.
// Implementations must be safe for concurrent use once constructed.
type TextAnalyzer interface {
	Analyze(text string) (Analysis, error)
}

// DateParser turns a date expression into a calendar date.
// With fuzzy set, surrounding words are ignored and natural-language dates are accepted.
type DateParser interface {
	Parse(text string, fuzzy bool) (time.Time, error)
}

var ErrUnparseableDate = errors.New("unparseable date")
