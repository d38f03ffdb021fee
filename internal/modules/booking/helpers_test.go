package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"chatbook/internal/nlp"
)

// fixedNow is the reference "today" for every test in this package.
var fixedNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// stubAnalyzer tokenizes on whitespace and reports the configured entities
// whenever their text occurs in the input.
type stubAnalyzer struct {
	entities []nlp.Entity
	lemmas   map[string]string
	err      error
}

func (s stubAnalyzer) Analyze(text string) (nlp.Analysis, error) {
	if s.err != nil {
		return nlp.Analysis{}, s.err
	}
	var a nlp.Analysis
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ",.!?")
		lemma := strings.ToLower(w)
		if l, ok := s.lemmas[lemma]; ok {
			lemma = l
		}
		a.Tokens = append(a.Tokens, nlp.Token{Text: w, Lemma: lemma})
	}
	lower := strings.ToLower(text)
	for _, e := range s.entities {
		if strings.Contains(lower, strings.ToLower(e.Text)) {
			a.Entities = append(a.Entities, e)
		}
	}
	return a, nil
}

// stubDates resolves only the expressions it knows about.
type stubDates map[string]time.Time

func (s stubDates) Parse(text string, _ bool) (time.Time, error) {
	if d, ok := s[text]; ok {
		return d, nil
	}
	if d, err := time.Parse(dateLayout, text); err == nil {
		return d, nil
	}
	return time.Time{}, nlp.ErrUnparseableDate
}

// stubCompleter records prompts and replies with a canned response.
type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	prompts []string
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
