// README: Completion backend contract and provider selection.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatbook/internal/config"
)

// Completer sends a prompt to an LLM and returns the generated text.
// This interface allows for swapping providers (Gemini, Ollama, OpenAI) without touching callers.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	ErrNoCandidates    = errors.New("ai: no response candidates")
	ErrUnknownProvider = errors.New("ai: unknown provider")
)

// NewCompleter builds the completer named by cfg.Provider.
// Provider "none" returns a nil Completer and a nil error.
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	var (
		c   Completer
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "gemini":
		c, err = asCompleter(NewGeminiCompleter(ctx, cfg.GeminiKey, cfg.Model))
	case "ollama":
		c, err = asCompleter(NewOllamaCompleter(cfg.OllamaURL, cfg.Model))
	case "openai":
		c, err = asCompleter(NewOpenAICompleter(cfg.OpenAIKey, cfg.Model))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	return c, err
}

// asCompleter keeps a failed constructor from leaking a typed nil into the interface.
func asCompleter[T Completer](c T, err error) (Completer, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
