// README: Entity extraction (name, email, date, time, interview type) from NER spans and regex patterns.
package booking

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatbook/internal/nlp"
)

var (
	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// validEmailRE is emailRE anchored to the whole value.
	validEmailRE = regexp.MustCompile(`^` + emailRE.String() + `$`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm|call me|this is)\s+([A-Z][a-zA-Z\s]+)`),
		regexp.MustCompile(`(?i)\b(?:from|signed)\s+([A-Z][a-zA-Z\s]+)`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)?\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:AM|PM)\b`),
		regexp.MustCompile(`(?i)\b(?:noon|midnight)\b`),
	}
)

const maxNameWords = 5

// interviewTypeKeywords is checked in order; the first group with a hit wins.
var interviewTypeKeywords = []struct {
	kind     InterviewType
	keywords []string
}{
	{InterviewTechnical, []string{"technical", "coding", "programming", "development", "engineer", "software", "algorithm"}},
	{InterviewHR, []string{"hr", "human resources", "behavioral", "culture", "recruiter", "hiring"}},
	{InterviewPhone, []string{"phone", "call", "voice", "telephone", "ring"}},
	{InterviewVideo, []string{"video", "zoom", "teams", "meet", "online", "virtual", "skype"}},
	{InterviewOnsite, []string{"onsite", "in-person", "office", "visit", "face-to-face"}},
}

// analyzer adapts an optional nlp.TextAnalyzer. A nil result selects the fallback branches.
type analyzer struct {
	backend nlp.TextAnalyzer
	logger  *zap.Logger
}

func (a analyzer) analyze(text string) *nlp.Analysis {
	if a.backend == nil {
		return nil
	}
	res, err := a.backend.Analyze(text)
	if err != nil {
		a.logger.Debug("text analyzer failed, using fallback", zap.Error(err))
		return nil
	}
	return &res
}

// Extractor pulls candidate field values out of a message.
// Methods take the analysis of the original-case text; nil means no analyzer.
type Extractor struct {
	dates nlp.DateParser
	now   func() time.Time
}

// Names returns person-name candidates: NER spans first, then phrase patterns.
func (e Extractor) Names(text string, a *nlp.Analysis) []string {
	var names []string
	if a != nil {
		for _, ent := range a.EntitiesByLabel(nlp.LabelPerson) {
			name := strings.TrimSpace(ent.Text)
			if len(name) > 1 && len(strings.Fields(name)) <= maxNameWords {
				names = appendUnique(names, name)
			}
		}
	}
	for _, re := range namePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) > 1 {
				names = appendUnique(names, name)
			}
		}
	}
	return names
}

// Email returns the first email address in text, or "".
func (e Extractor) Email(text string) string {
	return emailRE.FindString(text)
}

// Dates returns canonical YYYY-MM-DD candidates. NER spans are fuzzy-parsed and may
// be up to one day old; pattern matches must fall on or after today.
func (e Extractor) Dates(text string, a *nlp.Analysis) []string {
	today := truncateDay(e.now())
	var dates []string

	if a != nil && e.dates != nil {
		cutoff := today.AddDate(0, 0, -1)
		for _, ent := range a.EntitiesByLabel(nlp.LabelDate) {
			d, err := e.dates.Parse(ent.Text, true)
			if err != nil || truncateDay(d).Before(cutoff) {
				continue
			}
			dates = appendUnique(dates, d.Format(dateLayout))
		}
	}

	for _, re := range datePatterns {
		for _, m := range re.FindAllString(text, -1) {
			d, ok := e.parseStrict(m)
			if !ok || truncateDay(d).Before(today) {
				continue
			}
			dates = appendUnique(dates, d.Format(dateLayout))
		}
	}
	return dates
}

func (e Extractor) parseStrict(s string) (time.Time, bool) {
	if e.dates != nil {
		d, err := e.dates.Parse(s, false)
		return d, err == nil
	}
	loc := e.now().Location()
	for _, layout := range []string{dateLayout, "1/2/2006", "1-2-2006"} {
		if d, err := time.ParseInLocation(layout, s, loc); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Times returns canonical HH:MM candidates from NER TIME spans and clock patterns.
func (e Extractor) Times(text string, a *nlp.Analysis) []string {
	var times []string
	if a != nil {
		for _, ent := range a.EntitiesByLabel(nlp.LabelTime) {
			if t, ok := NormalizeTime(ent.Text); ok {
				times = appendUnique(times, t)
			}
		}
	}
	for _, re := range timePatterns {
		for _, m := range re.FindAllString(text, -1) {
			if t, ok := NormalizeTime(m); ok {
				times = appendUnique(times, t)
			}
		}
	}
	return times
}

// InterviewType classifies the interview; lower is the lowercased text and
// la its analysis. Defaults to general.
func (e Extractor) InterviewType(lower string, la *nlp.Analysis) InterviewType {
	var lemmas map[string]struct{}
	if la != nil {
		lemmas = make(map[string]struct{}, len(la.Tokens))
		for _, l := range la.Lemmas() {
			lemmas[l] = struct{}{}
		}
	}
	for _, group := range interviewTypeKeywords {
		for _, k := range group.keywords {
			if lemmas != nil {
				if _, ok := lemmas[k]; ok {
					return group.kind
				}
			} else if strings.Contains(lower, k) {
				return group.kind
			}
		}
	}
	return InterviewGeneral
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
