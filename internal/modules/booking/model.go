// README: Booking record, status and field definitions shared by every extraction stage.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusDetected   Status = "detected"
	StatusIncomplete Status = "incomplete"
	StatusValid      Status = "valid"
	// StatusInvalid is part of the vocabulary but nothing in the engine assigns it.
	// Validation findings are reported alongside the record instead.
	StatusInvalid Status = "invalid"
)

// Field names a required booking field.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldDate  Field = "date"
	FieldTime  Field = "time"
)

// RequiredFields lists the fields tracked in Record.MissingFields, in reporting order.
var RequiredFields = []Field{FieldName, FieldEmail, FieldDate, FieldTime}

type InterviewType string

const (
	InterviewTechnical InterviewType = "technical"
	InterviewHR        InterviewType = "hr"
	InterviewPhone     InterviewType = "phone"
	InterviewVideo     InterviewType = "video"
	InterviewOnsite    InterviewType = "onsite"
	InterviewGeneral   InterviewType = "general"
)

var ErrUnknownField = errors.New("unknown booking field")

// ParseInterviewType maps free text onto the interview-type vocabulary.
// Unknown values report ok=false.
func ParseInterviewType(s string) (InterviewType, bool) {
	switch t := InterviewType(strings.ToLower(strings.TrimSpace(s))); t {
	case InterviewTechnical, InterviewHR, InterviewPhone, InterviewVideo, InterviewOnsite, InterviewGeneral:
		return t, true
	}
	return "", false
}

// Fields carries candidate values before status and confidence are assigned.
// An empty string means the value is unset.
type Fields struct {
	Name          string
	Email         string
	Date          string // YYYY-MM-DD
	Time          string // HH:MM, 24-hour
	InterviewType InterviewType
}

func (f Fields) value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldDate:
		return f.Date
	case FieldTime:
		return f.Time
	}
	panic(fmt.Errorf("%w: %q", ErrUnknownField, field))
}

// missing returns the required fields that are unset.
func (f Fields) missing() []Field {
	out := make([]Field, 0, len(RequiredFields))
	for _, field := range RequiredFields {
		if f.value(field) == "" {
			out = append(out, field)
		}
	}
	return out
}

// populated counts the required fields that are set.
func (f Fields) populated() int {
	return len(RequiredFields) - len(f.missing())
}

// Record is the structured outcome of one extraction cycle.
// Records are values: every stage builds a new one instead of mutating its input.
type Record struct {
	Name          string        `json:"name,omitempty"`
	Email         string        `json:"email,omitempty"`
	Date          string        `json:"date,omitempty"`
	Time          string        `json:"time,omitempty"`
	InterviewType InterviewType `json:"interview_type,omitempty"`
	Status        Status        `json:"status"`
	Confidence    float64       `json:"confidence"`
	MissingFields []Field       `json:"missing_fields"`
	ExtractedText string        `json:"extracted_text"`
}

// scoreFunc maps the number of missing required fields to a status and confidence.
type scoreFunc func(missing int) (Status, float64)

// newRecord builds a Record whose MissingFields and Status agree with f.
// A VALID status with missing fields is a programming error.
func newRecord(text string, f Fields, score scoreFunc) Record {
	missing := f.missing()
	status, confidence := score(len(missing))
	if status == StatusValid && len(missing) > 0 {
		panic(fmt.Sprintf("booking: valid status with missing fields %v", missing))
	}
	return Record{
		Name:          f.Name,
		Email:         f.Email,
		Date:          f.Date,
		Time:          f.Time,
		InterviewType: f.InterviewType,
		Status:        status,
		Confidence:    confidence,
		MissingFields: missing,
		ExtractedText: text,
	}
}

// Fields returns the candidate values held by r.
func (r Record) Fields() Fields {
	return Fields{
		Name:          r.Name,
		Email:         r.Email,
		Date:          r.Date,
		Time:          r.Time,
		InterviewType: r.InterviewType,
	}
}

// IsMissing reports whether field is listed in r.MissingFields.
func (r Record) IsMissing(field Field) bool {
	for _, f := range r.MissingFields {
		if f == field {
			return true
		}
	}
	return false
}

// withConfidence returns a copy of r with a new confidence and its own MissingFields slice.
func (r Record) withConfidence(c float64) Record {
	out := r
	out.MissingFields = append([]Field(nil), r.MissingFields...)
	out.Confidence = c
	return out
}

// Report is the validator's verdict on a record.
type Report struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Suggestions []string `json:"suggestions"`
}
