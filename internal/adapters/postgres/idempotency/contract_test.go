package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/testutil"
	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(pool, 0), nil
	})
}

func TestStore_ExpiredRowsAreHiddenAndPruned(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	ctx := context.Background()

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("prune-" + uuid.NewString()),
		Method:   "POST",
		Route:    "/subscriptions",
		BodyHash: "h",
	}
	old := idempotencyport.Record{
		StatusCode:  200,
		ContentType: "text/plain",
		Body:        []byte("ok"),
		CreatedAt:   time.Now().UTC().Add(-2 * time.Hour),
	}

	s := NewStore(pool, time.Hour)
	if err := s.Put(ctx, fp, old); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := s.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get expired: ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	n, err := s.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n < 1 {
		t.Fatalf("pruned=%d, want >= 1", n)
	}

	// A store without TTL sees every row, so the pruned row must be gone.
	if _, ok, err := NewStore(pool, 0).Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get after prune: ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}

func TestStore_SubSecondTTLStillExpires(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	ctx := context.Background()

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("short-ttl-" + uuid.NewString()),
		Method:   "POST",
		Route:    "/subscriptions",
		BodyHash: "h",
	}
	s := NewStore(pool, 500*time.Millisecond)
	if err := s.Put(ctx, fp, idempotencyport.Record{
		StatusCode: 200,
		Body:       []byte("ok"),
		CreatedAt:  time.Now().UTC().Add(-2 * time.Second),
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := s.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get: ok=%v err=%v, want expired", ok, err)
	}

	fresh := fp
	fresh.BodyHash = "fresh"
	if err := s.Put(ctx, fresh, idempotencyport.Record{StatusCode: 200, Body: []byte("ok")}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	if _, ok, err := s.Get(ctx, fresh); err != nil || !ok {
		t.Fatalf("Get fresh: ok=%v err=%v, want hit", ok, err)
	}
}
