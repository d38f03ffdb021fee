// README: Ollama and OpenAI Completers built on langchaingo.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultOllamaModel = "llama3.2:1b"
	defaultOpenAIModel = "gpt-4o-mini"

	completionTemperature = 0.7
	completionMaxTokens   = 512
)

// LangChainCompleter implements Completer over any langchaingo model.
type LangChainCompleter struct {
	name  string
	model llms.Model
}

// NewLangChainCompleter wraps an existing langchaingo model; name is used in error messages.
func NewLangChainCompleter(name string, model llms.Model) *LangChainCompleter {
	return &LangChainCompleter{name: name, model: model}
}

// NewOllamaCompleter talks to an Ollama server at serverURL.
func NewOllamaCompleter(serverURL, model string) (*LangChainCompleter, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama: create client: %w", err)
	}
	return NewLangChainCompleter("ollama", llm), nil
}

// NewOpenAICompleter uses the OpenAI chat completions API.
func NewOpenAICompleter(apiKey, model string) (*LangChainCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: missing api key")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("openai: create client: %w", err)
	}
	return NewLangChainCompleter("openai", llm), nil
}

func (c *LangChainCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(completionTemperature),
		llms.WithMaxTokens(completionMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%s: generate: %w", c.name, err)
	}
	return cleanCompletion(out), nil
}
