package booking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	known := rec(Fields{Name: "Jane", Time: "14:00"})
	p := BuildPrompt("book me in", known)

	assert.Contains(t, p, "user_message: book me in\n")
	assert.Contains(t, p, "- Name: Jane\n")
	assert.Contains(t, p, "- Email: missing\n")
	assert.Contains(t, p, "- Date: missing\n")
	assert.Contains(t, p, "- Time: 14:00\n")
	for _, key := range []string{"name:", "email:", "date:", "time:", "type:", "intent:"} {
		assert.Contains(t, p, "\n"+key)
	}
	assert.Contains(t, p, "'not_found'")
	assert.True(t, strings.HasSuffix(p, "response:"))
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name       string
		resp       string
		want       Fields
		wantStatus Status
		wantConf   float64
	}{
		{
			name:       "complete booking",
			resp:       "name: Sam Roe\nemail: sam@roe.dev\ndate: 2030-02-01\ntime: 09:30\ntype: Technical\nintent: booking",
			want:       Fields{Name: "Sam Roe", Email: "sam@roe.dev", Date: "2030-02-01", Time: "09:30", InterviewType: InterviewTechnical},
			wantStatus: StatusValid,
			wantConf:   0.85,
		},
		{
			name:       "partial scheduling",
			resp:       "  Name:  Sam  \nemail: NOT_FOUND\ndate: missing\ntime:\ntype: onsite\nintent: Scheduling\n",
			want:       Fields{Name: "Sam", InterviewType: InterviewOnsite},
			wantStatus: StatusIncomplete,
			wantConf:   0.65,
		},
		{
			name:       "no intent",
			resp:       "name: Sam\nemail: sam@roe.dev\ndate: 2030-02-01\ntime: 09:30\ntype: hr\nintent: none",
			want:       Fields{Name: "Sam", Email: "sam@roe.dev", Date: "2030-02-01", Time: "09:30", InterviewType: InterviewHR},
			wantStatus: StatusIncomplete,
			wantConf:   0.3,
		},
		{
			name:       "prose without keys",
			resp:       "I could not find anything useful here",
			want:       Fields{InterviewType: InterviewGeneral},
			wantStatus: StatusIncomplete,
			wantConf:   0.3,
		},
		{
			name:       "unknown type",
			resp:       "type: panel\nintent: booking",
			want:       Fields{InterviewType: InterviewGeneral},
			wantStatus: StatusIncomplete,
			wantConf:   0.65,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCompletion(tt.resp, "orig")
			assert.Equal(t, tt.want, got.Fields())
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Equal(t, tt.want.missing(), got.MissingFields)
			assert.Equal(t, "orig", got.ExtractedText)
		})
	}
}

func TestEnhancer_Errors(t *testing.T) {
	_, err := Enhancer{}.Enhance(context.Background(), "x", Record{})
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = Enhancer{completer: &stubCompleter{err: boom}}.Enhance(context.Background(), "x", Record{})
	assert.ErrorIs(t, err, boom)

	_, err = Enhancer{completer: &stubCompleter{reply: ""}}.Enhance(context.Background(), "x", Record{})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
