package identities_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamnexus/streamnexus/internal/db/sqlc"
	"github.com/streamnexus/streamnexus/internal/identities"
	"github.com/streamnexus/streamnexus/internal/platform"
)

func setupIdentityIntegrationTest(t *testing.T) (*identities.Service, func()) {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skip integration test: TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("skip integration test: cannot connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("skip integration test: database ping failed: %v", err)
	}

	queries := sqlc.New(pool)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := identities.NewService(logger, pool, queries)
	return svc, func() { pool.Close() }
}

func TestResolveIdempotent(t *testing.T) {
	svc, cleanup := setupIdentityIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	subject := fmt.Sprintf("idem_%d", time.Now().UnixNano())

	first, err := svc.Resolve(ctx, platform.Telegram, subject)
	if err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if !first.IsNew {
		t.Fatal("first resolve: IsNew = false, want true")
	}

	for i := 0; i < 3; i++ {
		again, err := svc.Resolve(ctx, platform.Telegram, subject)
		if err != nil {
			t.Fatalf("resolve #%d failed: %v", i+2, err)
		}
		if again.IsNew {
			t.Errorf("resolve #%d: IsNew = true, want false", i+2)
		}
		if again.AccountID != first.AccountID {
			t.Errorf("resolve #%d: account = %s, want %s", i+2, again.AccountID, first.AccountID)
		}
	}
}

func TestResolveEmptySubject(t *testing.T) {
	svc, cleanup := setupIdentityIntegrationTest(t)
	defer cleanup()

	if _, err := svc.Resolve(context.Background(), platform.Telegram, "   "); err == nil {
		t.Fatal("expected error for blank platform user id")
	}
}

// TestResolveConcurrentFirstContact fires parallel first-contact resolves for
// the same identity and checks that every caller lands on the same account.
func TestResolveConcurrentFirstContact(t *testing.T) {
	svc, cleanup := setupIdentityIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	subject := fmt.Sprintf("race_%d", time.Now().UnixNano())
	const callers = 16

	var wg sync.WaitGroup
	results := make([]identities.Resolution, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Resolve(ctx, platform.Telegram, subject)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].AccountID != results[0].AccountID {
			t.Fatalf("caller %d: account = %s, want %s", i, results[i].AccountID, results[0].AccountID)
		}
		if results[i].IsNew {
			created++
		}
	}
	if created != 1 {
		t.Fatalf("IsNew reported %d times, want exactly 1", created)
	}
}

func TestEndpointMissing(t *testing.T) {
	svc, cleanup := setupIdentityIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	res, err := svc.Resolve(ctx, platform.Telegram, fmt.Sprintf("ep_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	endpoint, err := svc.Endpoint(ctx, res.AccountID, platform.Telegram)
	if err != nil {
		t.Fatalf("endpoint lookup failed: %v", err)
	}
	if endpoint == "" {
		t.Fatal("endpoint is empty for a freshly linked identity")
	}
}
