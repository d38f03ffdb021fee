// README: LLM-usage module tests (monthly rollover and quota boundary logic).
package llmusage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	counts map[string]int
}

func (m *memCounter) UseToken(_ context.Context, subject, month string, quota int) error {
	key := counterKey(subject, month)
	if m.counts[key] >= quota {
		return ErrInsufficientTokens
	}
	m.counts[key]++
	return nil
}

func (m *memCounter) Used(_ context.Context, subject, month string) (int, error) {
	return m.counts[counterKey(subject, month)], nil
}

type echoCompleter struct{ calls int }

func (e *echoCompleter) Complete(_ context.Context, prompt string) (string, error) {
	e.calls++
	return "echo: " + prompt, nil
}

func TestService_QuotaBoundary(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	svc := newService(&memCounter{counts: map[string]int{}}, 2, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, svc.UseToken(ctx, "s1"))
	require.NoError(t, svc.UseToken(ctx, "s1"))
	assert.ErrorIs(t, svc.UseToken(ctx, "s1"), ErrInsufficientTokens)

	left, err := svc.Remaining(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	left, err = svc.Remaining(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, left)

	// A new month starts a fresh counter.
	now = now.AddDate(0, 1, 0)
	assert.NoError(t, svc.UseToken(ctx, "s1"))
}

func TestService_Disabled(t *testing.T) {
	svc := newService(&memCounter{counts: map[string]int{}}, 0, time.Now)
	assert.False(t, svc.Enabled())
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.UseToken(context.Background(), "s"))
	}
	left, err := svc.Remaining(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, -1, left)
}

func TestGuardedCompleter(t *testing.T) {
	svc := newService(&memCounter{counts: map[string]int{}}, 1, time.Now)
	next := &echoCompleter{}
	g := NewGuardedCompleter(next, svc)
	ctx := WithSubject(context.Background(), "session-1")

	out, err := g.Complete(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)

	_, err = g.Complete(ctx, "again")
	assert.True(t, errors.Is(err, ErrInsufficientTokens))
	assert.Equal(t, 1, next.calls)

	// Other subjects keep their own allowance.
	_, err = g.Complete(WithSubject(context.Background(), "session-2"), "hi")
	assert.NoError(t, err)
}

func TestSubjectFrom(t *testing.T) {
	assert.Equal(t, "anonymous", SubjectFrom(context.Background()))
	assert.Equal(t, "anonymous", SubjectFrom(WithSubject(context.Background(), "")))
	assert.Equal(t, "10.0.0.1", SubjectFrom(WithSubject(context.Background(), "10.0.0.1")))
}

func TestStore_UseTokenRefundsOverQuota(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	month := "2000-01"

	require.NoError(t, store.UseToken(ctx, "user_q", month, 2))
	require.NoError(t, store.UseToken(ctx, "user_q", month, 2))
	assert.ErrorIs(t, store.UseToken(ctx, "user_q", month, 2), ErrInsufficientTokens)

	used, err := store.Used(ctx, "user_q", month)
	require.NoError(t, err)
	assert.Equal(t, 2, used)

	ttl, err := store.rdb.TTL(ctx, counterKey("user_q", month)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 31*24*time.Hour)
}

func TestStore_UsedUnknownSubject(t *testing.T) {
	store := setupTestStore(t)
	used, err := store.Used(context.Background(), "user_absent", "2000-01")
	require.NoError(t, err)
	assert.Zero(t, used)
}

// setupTestStore creates a redis-backed Store for integration tests.
// It skips the test when CHATBOOK_TEST_REDIS_ADDR is not set.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("CHATBOOK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CHATBOOK_TEST_REDIS_ADDR not set; skipping redis-backed tests")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())
	for _, subject := range []string{"user_q", "user_absent"} {
		require.NoError(t, rdb.Del(ctx, counterKey(subject, "2000-01")).Err())
	}
	return NewStore(rdb)
}
