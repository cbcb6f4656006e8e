package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestClient connects to the Redis named by TEST_REDIS_ADDR, or to an
// in-process miniredis when it is unset.
func newTestClient(t *testing.T) (redis.UniversalClient, *miniredis.Miniredis) {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	var mr *miniredis.Miniredis
	if addr == "" {
		mr = miniredis.RunT(t)
		addr = mr.Addr()
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 14})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})
	return client, mr
}

func TestRateLimiter(t *testing.T) {
	client, mr := newTestClient(t)
	limiter := NewRateLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, remaining, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "Shop@Example.com")
		if err != nil {
			t.Fatal(err)
		}
		if !ok || remaining != int64(3-i) {
			t.Fatalf("attempt %d: ok=%v remaining=%d", i, ok, remaining)
		}
	}

	ok, remaining, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "shop@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if ok || remaining != 0 {
		t.Fatalf("fourth attempt allowed: ok=%v remaining=%d", ok, remaining)
	}

	if err := limiter.ResetLoginAttempts(ctx, "1.2.3.4", "shop@example.com"); err != nil {
		t.Fatal(err)
	}
	if ok, left, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "shop@example.com"); err != nil || !ok || left != 2 {
		t.Fatalf("after reset ok=%v remaining=%d err=%v", ok, left, err)
	}

	if mr == nil {
		return
	}
	for i := 0; i < 3; i++ {
		if _, _, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "shop@example.com"); err != nil {
			t.Fatal(err)
		}
	}
	mr.FastForward(time.Minute + time.Second)
	if ok, left, err := limiter.CheckLoginAttempt(ctx, "1.2.3.4", "shop@example.com"); err != nil || !ok || left != 2 {
		t.Fatalf("after window ok=%v remaining=%d err=%v", ok, left, err)
	}
}

func TestManager(t *testing.T) {
	client, _ := newTestClient(t)
	m := NewManager(client)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	for _, jti := range []string{"a", "b"} {
		if err := m.CreateSession(ctx, &SessionData{JTI: jti, MerchantID: 7, Role: "merchant", ExpiresAt: expires}); err != nil {
			t.Fatal(err)
		}
	}

	if got, err := m.GetSession(ctx, 7, "a"); err != nil || got.Role != "merchant" {
		t.Fatalf("GetSession = %+v, %v", got, err)
	}

	if err := m.InvalidateSession(ctx, 7, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetSession(ctx, 7, "a"); !errors.Is(err, xerrors.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	if err := m.InvalidateAll(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := m.GetSession(ctx, 7, "b"); !errors.Is(err, xerrors.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	if err := m.CreateSession(ctx, &SessionData{JTI: "c", MerchantID: 7, ExpiresAt: time.Now().Add(-time.Second)}); err == nil {
		t.Fatal("expired session stored")
	}
}
