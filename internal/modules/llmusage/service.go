package llmusage

import (
	"context"
	"time"
)

type counter interface {
	UseToken(ctx context.Context, subject, month string, quota int) error
	Used(ctx context.Context, subject, month string) (int, error)
}

// Service orchestrates monthly LLM-call quota logic.
type Service struct {
	store counter
	quota int
	now   func() time.Time
}

// NewService creates a Service granting quota calls per subject and month.
// A quota of 0 disables the limit.
func NewService(store *Store, quota int) *Service {
	return newService(store, quota, time.Now)
}

func newService(store counter, quota int, now func() time.Time) *Service {
	return &Service{store: store, quota: quota, now: now}
}

// Enabled reports whether calls are counted at all.
func (s *Service) Enabled() bool {
	return s != nil && s.quota > 0
}

func (s *Service) Quota() int {
	return s.quota
}

// UseToken deducts one call from subject's allowance for the current month.
// Returns ErrInsufficientTokens when the allowance is exhausted.
func (s *Service) UseToken(ctx context.Context, subject string) error {
	if !s.Enabled() {
		return nil
	}
	return s.store.UseToken(ctx, subject, monthOf(s.now()), s.quota)
}

// Remaining returns the calls left for subject this month; -1 when unlimited.
func (s *Service) Remaining(ctx context.Context, subject string) (int, error) {
	if !s.Enabled() {
		return -1, nil
	}
	used, err := s.store.Used(ctx, subject, monthOf(s.now()))
	if err != nil {
		return 0, err
	}
	if used >= s.quota {
		return 0, nil
	}
	return s.quota - used, nil
}
