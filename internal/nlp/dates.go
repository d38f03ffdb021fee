// README: Default DateParser: strict layouts, dateparse, then natural-language dates via when.
package nlp

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// strictLayouts are tried before any heuristic parser. Slash and dash dates are month-first.
var strictLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
}

// FuzzyDateParser implements DateParser. Relative expressions ("tomorrow",
// "next friday") resolve against the injected clock.
type FuzzyDateParser struct {
	now  func() time.Time
	when *when.Parser
}

// NewFuzzyDateParser builds a parser; a nil clock means time.Now.
func NewFuzzyDateParser(now func() time.Time) *FuzzyDateParser {
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &FuzzyDateParser{now: now, when: w}
}

func (p *FuzzyDateParser) Parse(text string, fuzzy bool) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrUnparseableDate
	}
	loc := p.now().Location()

	for _, layout := range strictLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return truncateDay(t), nil
		}
	}
	if t, err := dateparse.ParseIn(text, loc); err == nil {
		// "December 5" parses with year 0; a missing year means the current one.
		if t.Year() == 0 {
			t = time.Date(p.now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		}
		return truncateDay(t), nil
	}
	if !fuzzy {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
	}

	res, err := p.when.Parse(text, p.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableDate, text, err)
	}
	if res == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
	}
	return truncateDay(res.Time.In(loc)), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
