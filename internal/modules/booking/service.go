// README: Booking engine; rule pass, optional LLM pass, merge and validation.
package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chatbook/internal/nlp"
)

// DefaultLLMTimeout bounds a single completion call.
const DefaultLLMTimeout = 30 * time.Second

// Deps lists the collaborators of an Engine. Everything is optional: without an
// Analyzer the keyword/regex fallbacks run, without a Completer no LLM pass is made.
type Deps struct {
	Analyzer   nlp.TextAnalyzer
	Dates      nlp.DateParser
	Completer  Completer
	LLMTimeout time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// Engine is safe for concurrent use; each call works on its own records.
type Engine struct {
	resolver  Resolver
	enhancer  Enhancer
	validator Validator
	logger    *zap.Logger
}

func NewEngine(deps Deps) *Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	timeout := deps.LLMTimeout
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}

	an := analyzer{backend: deps.Analyzer, logger: logger}
	return &Engine{
		resolver: Resolver{
			analyzer:  an,
			intent:    IntentDetector{analyzer: an},
			extractor: Extractor{dates: deps.Dates, now: now},
		},
		enhancer:  Enhancer{completer: deps.Completer, timeout: timeout},
		validator: Validator{now: now},
		logger:    logger,
	}
}

// Extract turns text into a booking record. It never fails: when the LLM pass
// is unavailable or errors, the rule-based record is returned.
func (e *Engine) Extract(ctx context.Context, text string) Record {
	rule := e.resolver.Resolve(text)
	if rule.Status == StatusValid {
		return rule.withConfidence(ruleConfidenceOverride)
	}
	if e.enhancer.completer == nil {
		return rule
	}

	llm, err := e.enhancer.Enhance(ctx, text, rule)
	if err != nil {
		e.logger.Warn("llm enhancement failed, using rule-based record",
			zap.Error(err),
			zap.Strings("missing_fields", fieldNames(rule.MissingFields)))
		return rule
	}
	merged := Combine(rule, llm)
	e.logger.Debug("booking record merged",
		zap.String("status", string(merged.Status)),
		zap.Float64("confidence", merged.Confidence))
	return merged
}

// Resolve runs the rule-based pass only.
func (e *Engine) Resolve(text string) Record {
	return e.resolver.Resolve(text)
}

// DetectIntent reports whether text expresses a booking request.
func (e *Engine) DetectIntent(text string) bool {
	return e.resolver.intent.Detect(text)
}

func (e *Engine) Validate(r Record) Report {
	return e.validator.Validate(r)
}

// HasAnalyzer reports whether NER-backed extraction is active.
func (e *Engine) HasAnalyzer() bool {
	return e.resolver.analyzer.backend != nil
}

// HasCompleter reports whether an LLM pass can run.
func (e *Engine) HasCompleter() bool {
	return e.enhancer.completer != nil
}

func fieldNames(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
