package llmusage

import (
	"context"
	"fmt"
)

// Completer matches ai.Completer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type subjectKey struct{}

// WithSubject attaches the subject whose allowance pays for completions made with ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFrom returns the subject set by WithSubject, or "anonymous".
func SubjectFrom(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey{}).(string); ok && s != "" {
		return s
	}
	return "anonymous"
}

// GuardedCompleter charges one call per completion to the subject in the context.
type GuardedCompleter struct {
	next  Completer
	usage *Service
}

func NewGuardedCompleter(next Completer, usage *Service) *GuardedCompleter {
	return &GuardedCompleter{next: next, usage: usage}
}

func (g *GuardedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	subject := SubjectFrom(ctx)
	if err := g.usage.UseToken(ctx, subject); err != nil {
		return "", fmt.Errorf("llmusage: subject %q: %w", subject, err)
	}
	return g.next.Complete(ctx, prompt)
}
