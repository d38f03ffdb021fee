// README: Record validation; reports format errors and prompts for missing fields.
package booking

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minNameLen = 2
	maxNameLen = 100
)

var fieldPrompts = map[Field]string{
	FieldName:  "Please provide your full name",
	FieldEmail: "Please provide your email address",
	FieldDate:  "Please specify the date (e.g., 2024-02-15 or 'tomorrow')",
	FieldTime:  "Please specify the time (e.g., 2:30 PM or 14:30)",
}

// Validator checks field formats. It never changes the record's status.
type Validator struct {
	now func() time.Time
}

func (v Validator) Validate(r Record) Report {
	rep := Report{Errors: []string{}, Suggestions: []string{}}

	if r.Email != "" && !validEmailRE.MatchString(r.Email) {
		rep.Errors = append(rep.Errors, "Invalid email format")
	}

	if r.Date != "" {
		now := v.now()
		d, err := time.ParseInLocation(dateLayout, r.Date, now.Location())
		switch {
		case err != nil:
			rep.Errors = append(rep.Errors, "Invalid date format (use YYYY-MM-DD)")
		case d.Before(truncateDay(now)):
			rep.Errors = append(rep.Errors, "Date cannot be in the past")
		}
	}

	if r.Time != "" {
		if _, _, ok := parseClock(r.Time); !ok {
			rep.Errors = append(rep.Errors, "Invalid time format (use HH:MM)")
		}
	}

	if r.Name != "" {
		switch {
		case utf8.RuneCountInString(strings.TrimSpace(r.Name)) < minNameLen:
			rep.Errors = append(rep.Errors, "Name too short")
		case utf8.RuneCountInString(r.Name) > maxNameLen:
			rep.Errors = append(rep.Errors, "Name too long")
		}
	}

	for _, f := range r.MissingFields {
		if p, ok := fieldPrompts[f]; ok {
			rep.Suggestions = append(rep.Suggestions, p)
		}
	}

	rep.IsValid = len(rep.Errors) == 0 && len(r.MissingFields) == 0
	return rep
}
