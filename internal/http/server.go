// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatbook/internal/http/handlers"
	"chatbook/internal/http/middleware"
	"chatbook/internal/modules/booking"
	"chatbook/internal/modules/llmusage"
)

// Pinger reports backend reachability.
type Pinger func(ctx context.Context) error

type ServerDeps struct {
	Engine *booking.Engine
	Usage  *llmusage.Service
	// Redis is optional; without it the redis service reports unhealthy.
	Redis  Pinger
	Logger *zap.Logger

	APIKey          string
	RateLimitPerMin int
	RateLimitBurst  int
	ExtractTimeout  time.Duration
}

type Server struct {
	booking *handlers.BookingHandler
	health  *handlers.HealthHandler
	logger  *zap.Logger

	apiKey     string
	ratePerMin int
	rateBurst  int
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.ExtractTimeout
	if timeout <= 0 {
		timeout = booking.DefaultLLMTimeout + 5*time.Second
	}

	engine := deps.Engine
	checks := map[string]handlers.Check{
		"redis": func(ctx context.Context) bool {
			return deps.Redis != nil && deps.Redis(ctx) == nil
		},
		"llm": func(context.Context) bool { return engine.HasCompleter() },
		"nlp": func(context.Context) bool { return engine.HasAnalyzer() },
	}

	return &Server{
		booking:    handlers.NewBookingHandler(engine, deps.Usage, timeout),
		health:     handlers.NewHealthHandler(checks),
		logger:     logger,
		apiKey:     deps.APIKey,
		ratePerMin: deps.RateLimitPerMin,
		rateBurst:  deps.RateLimitBurst,
	}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.logger), middleware.Logging(s.logger))

	r.GET("/health", s.health.Health)

	api := r.Group("/api/v1/booking", middleware.APIKey(s.apiKey), middleware.RateLimit(s.ratePerMin, s.rateBurst))
	api.POST("/extract", s.booking.Extract)
	api.POST("/validate", s.booking.Validate)
	api.GET("/usage/:subject", s.booking.Usage)
	return r
}
