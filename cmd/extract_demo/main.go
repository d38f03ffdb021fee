// README: Command-line demo; runs the booking engine over messages from flags or stdin.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"chatbook/internal/ai"
	"chatbook/internal/config"
	"chatbook/internal/modules/booking"
	"chatbook/internal/nlp"
)

func main() {
	useLLM := flag.Bool("llm", false, "enable the LLM pass using LLM_PROVIDER settings")
	useNLP := flag.Bool("nlp", true, "enable the prose/golem analyzer")
	flag.Parse()

	ctx := context.Background()
	deps := booking.Deps{Dates: nlp.NewFuzzyDateParser(time.Now)}

	if *useNLP {
		analyzer, err := nlp.NewProseAnalyzer()
		if err != nil {
			log.Fatalf("Failed to initialize analyzer: %v", err)
		}
		deps.Analyzer = analyzer
	}
	if *useLLM {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal(err)
		}
		completer, err := ai.NewCompleter(ctx, cfg.LLM)
		if err != nil {
			log.Fatalf("Failed to initialize LLM provider: %v", err)
		}
		deps.Completer = completer
		deps.LLMTimeout = cfg.LLM.Timeout
	}
	engine := booking.NewEngine(deps)

	messages := flag.Args()
	if len(messages) == 0 {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				messages = append(messages, line)
			}
		}
		if err := sc.Err(); err != nil {
			log.Fatalf("read stdin: %v", err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, msg := range messages {
		fmt.Printf("User: %s\n", msg)
		rec := engine.Extract(ctx, msg)
		_ = enc.Encode(map[string]any{
			"booking":    rec,
			"validation": engine.Validate(rec),
		})
	}
}
