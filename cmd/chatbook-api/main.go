// README: Entry point; loads config, wires the booking engine, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chatbook/internal/ai"
	"chatbook/internal/config"
	httptransport "chatbook/internal/http"
	"chatbook/internal/infra"
	"chatbook/internal/modules/booking"
	"chatbook/internal/modules/llmusage"
	"chatbook/internal/nlp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()
	if err := infra.PingRedis(ctx, redisClient, 3*time.Second); err != nil {
		logger.Warn("redis unreachable; llm quota checks will fail until it recovers", zap.Error(err))
	}
	usage := llmusage.NewService(llmusage.NewStore(redisClient), cfg.LLM.MonthlyQuota)

	deps := booking.Deps{
		Dates:      nlp.NewFuzzyDateParser(time.Now),
		LLMTimeout: cfg.LLM.Timeout,
		Logger:     logger.Named("booking"),
	}

	if cfg.NLP.Enabled {
		analyzer, err := nlp.NewProseAnalyzer()
		if err != nil {
			logger.Warn("nlp analyzer unavailable; using keyword and regex fallbacks", zap.Error(err))
		} else {
			deps.Analyzer = analyzer
		}
	}

	completer, err := ai.NewCompleter(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("llm init", zap.Error(err))
	}
	if completer != nil {
		if c, ok := completer.(io.Closer); ok {
			defer func() { _ = c.Close() }()
		}
		deps.Completer = llmusage.NewGuardedCompleter(completer, usage)
	}
	logger.Info("booking engine configured",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("nlp", deps.Analyzer != nil),
		zap.Int("llm_monthly_quota", cfg.LLM.MonthlyQuota))

	engine := booking.NewEngine(deps)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Engine: engine,
		Usage:  usage,
		Redis: func(ctx context.Context) error {
			return infra.PingRedis(ctx, redisClient, 2*time.Second)
		},
		Logger:          logger.Named("http"),
		APIKey:          cfg.HTTP.APIKey,
		RateLimitPerMin: cfg.HTTP.RateLimitPerMin,
		RateLimitBurst:  cfg.HTTP.RateLimitBurst,
		ExtractTimeout:  cfg.HTTP.ExtractTimeout,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("http listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http serve", zap.Error(err))
	}
	logger.Info("http stopped")
}
