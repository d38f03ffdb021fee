// README: Benchmark cases for the booking API; HTTP contract checks, Redis connectivity and throughput.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

// expectation checks the booking part of an extract response.
type expectation struct {
	Status        string
	Name          string
	Email         string
	Date          string
	Time          string
	InterviewType string
}

type extractResp struct {
	Booking struct {
		Name          string   `json:"name"`
		Email         string   `json:"email"`
		Date          string   `json:"date"`
		Time          string   `json:"time"`
		InterviewType string   `json:"interview_type"`
		Status        string   `json:"status"`
		Confidence    float64  `json:"confidence"`
		MissingFields []string `json:"missing_fields"`
	} `json:"booking"`
	Validation struct {
		IsValid bool     `json:"is_valid"`
		Errors  []string `json:"errors"`
	} `json:"validation"`
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 45 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Redis connect",
			Focus: "quota store reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "API: health",
			Focus: "server reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				var body struct {
					Status   string          `json:"status"`
					Services map[string]bool `json:"services"`
				}
				start := time.Now()
				code, err := r.do(ctx, http.MethodGet, base+"/health", nil, &body)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if code != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", code)}
				}
				return Result{Status: "PASS", Latency: time.Since(start), Note: fmt.Sprintf("%s %v", body.Status, body.Services)}
			},
		},

		extractCase("Extract: complete request (rule pass)",
			"Can you schedule a technical interview with john.doe@example.com on 2030-03-10 at 14:00, my name is John Doe",
			expectation{Status: "valid", Name: "John Doe", Email: "john.doe@example.com", Date: "2030-03-10", Time: "14:00", InterviewType: "technical"}),
		extractCase("Extract: 12-hour clock",
			"Please book an HR interview for jane@acme.io on 2030-04-02 at 3:30 pm, my name is Jane Roe",
			expectation{Name: "Jane Roe", Email: "jane@acme.io", Date: "2030-04-02", Time: "15:30", InterviewType: "hr"}),
		extractCase("Extract: noon",
			"I'd like to schedule a phone interview on 2030-01-20 at noon",
			expectation{Date: "2030-01-20", Time: "12:00", InterviewType: "phone"}),
		extractCase("Extract: no intent",
			"What is the weather like today?",
			expectation{Status: "incomplete"}),
		extractCase("Extract: past date dropped",
			"book me an interview on 2001-05-05, email old@past.io",
			expectation{Email: "old@past.io"}),

		httpCase("Extract: missing text -> 400", http.MethodPost, base+"/api/v1/booking/extract",
			map[string]any{"text": ""}, http.StatusBadRequest),
		httpCase("Extract: bad session -> 400", http.MethodPost, base+"/api/v1/booking/extract",
			map[string]any{"text": "book", "session_id": "../x"}, http.StatusBadRequest),
		httpCase("Validate: record", http.MethodPost, base+"/api/v1/booking/validate",
			map[string]any{"booking": map[string]any{"name": "Jane", "email": "bad", "date": "2000-01-01", "time": "10:00", "status": "valid"}},
			http.StatusOK),
		httpCase("Usage: lookup", http.MethodGet, base+"/api/v1/booking/usage/bench-session", nil, http.StatusOK),

		{
			Name:  "Perf: rule-pass extract throughput",
			Focus: "complete messages never reach the LLM",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/v1/booking/extract", map[string]any{
					"text": "Schedule an onsite interview for sam@roe.dev on 2030-06-01 at 10:00, my name is Sam Roe",
				})
			},
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", r.cfg.APIKey)
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode: %w", err)
	}
	return resp.StatusCode, nil
}

func extractCase(name, text string, want expectation) TestCase {
	return TestCase{
		Name:  name,
		Focus: "booking extraction",
		Run: func(ctx context.Context, r *Runner) Result {
			var got extractResp
			start := time.Now()
			code, err := r.do(ctx, http.MethodPost, r.cfg.BaseURL+"/api/v1/booking/extract", map[string]any{"text": text}, &got)
			latency := time.Since(start)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if code != http.StatusOK {
				return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", code)}
			}
			b := got.Booking
			checks := []struct{ field, want, got string }{
				{"status", want.Status, b.Status},
				{"name", want.Name, b.Name},
				{"email", want.Email, b.Email},
				{"date", want.Date, b.Date},
				{"time", want.Time, b.Time},
				{"interview_type", want.InterviewType, b.InterviewType},
			}
			for _, c := range checks {
				if c.want != "" && c.want != c.got {
					return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("%s=%q want %q", c.field, c.got, c.want)}
				}
			}
			return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%s confidence=%.2f missing=%v", b.Status, b.Confidence, b.MissingFields)}
		},
	}
}

func httpCase(name, method, url string, body any, wantStatus int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			code, err := r.do(ctx, method, url, body, nil)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			latency := time.Since(start)
			if code == wantStatus {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", code)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d want %d", code, wantStatus)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount, limited atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Concurrency; i++ {
		g.Go(func() error {
			for time.Now().Before(end) {
				if err := gctx.Err(); err != nil {
					return err
				}
				code, err := r.do(gctx, http.MethodPost, url, payload, nil)
				switch {
				case err != nil:
					errCount.Add(1)
				case code == http.StatusTooManyRequests:
					limited.Add(1)
				default:
					count.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && count.Load() == 0 {
		return Result{Status: "FAIL", Note: err.Error()}
	}

	if count.Load() == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d rate_limited=%d", rps, errCount.Load(), limited.Load())}
}
