package llmusage

import (
	"errors"
	"time"
)

// ErrInsufficientTokens is returned when a subject has no completion calls left for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of completion calls granted per month.
const DefaultTokens = 100

// counterTTL keeps a month's counter around slightly longer than the longest month.
const counterTTL = 32 * 24 * time.Hour

func monthOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func counterKey(subject, month string) string {
	return "llmusage:" + subject + ":" + month
}
