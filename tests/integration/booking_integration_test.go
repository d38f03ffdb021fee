package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingResp struct {
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
		IsValid     bool     `json:"is_valid"`
		Errors      []string `json:"errors"`
		Suggestions []string `json:"suggestions"`
	} `json:"validation"`
}

type usageResp struct {
	Subject   string `json:"subject"`
	Limited   bool   `json:"limited"`
	Quota     int    `json:"quota"`
	Remaining int    `json:"remaining"`
}

func TestExtractEndpointRulePass(t *testing.T) {
	client, baseURL := setupAPI(t)

	status, body := callAPI(t, client, http.MethodPost, baseURL+"/api/v1/booking/extract", map[string]string{
		"text": "Can you schedule a technical interview with john.doe@example.com on 2030-03-10 at 14:00, my name is John Doe",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var got bookingResp
	require.NoError(t, json.Unmarshal(body, &got), string(body))
	assert.Equal(t, "valid", got.Booking.Status)
	assert.Equal(t, 0.95, got.Booking.Confidence)
	assert.Equal(t, "John Doe", got.Booking.Name)
	assert.Equal(t, "john.doe@example.com", got.Booking.Email)
	assert.Equal(t, "2030-03-10", got.Booking.Date)
	assert.Equal(t, "14:00", got.Booking.Time)
	assert.Equal(t, "technical", got.Booking.InterviewType)
	assert.Empty(t, got.Booking.MissingFields)
	assert.True(t, got.Validation.IsValid)
}

// TestExtractEndpointQuotaAccounting sends an incomplete request, which triggers the LLM
// pass, and checks that the session's allowance moved by at most one call.
func TestExtractEndpointQuotaAccounting(t *testing.T) {
	client, baseURL := setupAPI(t)
	session := fmt.Sprintf("it-%d", time.Now().UnixNano())

	before := usage(t, client, baseURL, session)

	status, body := callAPI(t, client, http.MethodPost, baseURL+"/api/v1/booking/extract", map[string]string{
		"text":       "I would like to book an interview please",
		"session_id": session,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var got bookingResp
	require.NoError(t, json.Unmarshal(body, &got), string(body))
	t.Logf("[TEST LOG] booking: %+v", got.Booking)
	assert.Contains(t, []string{"valid", "incomplete"}, got.Booking.Status)
	assert.Len(t, got.Validation.Suggestions, len(got.Booking.MissingFields))

	after := usage(t, client, baseURL, session)
	if !before.Limited {
		t.Skip("server runs without an LLM quota")
	}
	assert.Contains(t, []int{before.Remaining, before.Remaining - 1}, after.Remaining)
}

func TestValidateEndpoint(t *testing.T) {
	client, baseURL := setupAPI(t)

	status, body := callAPI(t, client, http.MethodPost, baseURL+"/api/v1/booking/validate", map[string]any{
		"booking": map[string]any{"name": "J", "email": "bad", "date": "2000-01-01", "time": "10:00", "status": "valid"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var rep struct {
		IsValid bool     `json:"is_valid"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &rep))
	assert.False(t, rep.IsValid)
	assert.Equal(t, []string{"Invalid email format", "Date cannot be in the past", "Name too short"}, rep.Errors)
}

func usage(t *testing.T, client *http.Client, baseURL, subject string) usageResp {
	t.Helper()
	status, body := callAPI(t, client, http.MethodGet, baseURL+"/api/v1/booking/usage/"+subject, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var u usageResp
	require.NoError(t, json.Unmarshal(body, &u))
	return u
}

// setupAPI skips unless CHATBOOK_API_BASE_URL points at a running server.
func setupAPI(t *testing.T) (*http.Client, string) {
	t.Helper()
	loadDotEnv(t)

	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("CHATBOOK_API_BASE_URL")), "/")
	if baseURL == "" {
		t.Skip("CHATBOOK_API_BASE_URL not set; skipping end-to-end tests")
	}
	client := &http.Client{Timeout: 60 * time.Second}
	waitForAPIReady(t, client, baseURL)
	return client, baseURL
}

func callAPI(t *testing.T, client *http.Client, method, url string, payload any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("CHATBOOK_API_KEY"); key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("call %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}

func waitForAPIReady(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("api not ready: GET %s/health did not return 200 in time", baseURL)
}

func loadDotEnv(t *testing.T) {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		return
	}
	path := ""
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if path == "" {
		return
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			continue
		}
		if _, set := os.LookupEnv(k); set {
			continue
		}
		_ = os.Setenv(k, strings.TrimSpace(v))
	}
}
