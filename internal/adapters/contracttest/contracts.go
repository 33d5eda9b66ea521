package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
	subscriberrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

type CleanupFunc = func()

type SubscriberRepoFactory func(t *testing.T) (subscriberrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

// RunIdempotencyStore exercises the behaviour every idempotency.Store must share.
// Keys are randomised so the suite can run against a shared database.
func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := idempotencyport.Key("k-" + uuid.NewString())

	// Metadata record: empty body hash, body holds the hash first seen for the key.
	metaFP := idempotencyport.Fingerprint{
		Key:    key,
		Method: "POST",
		Route:  "/subscriptions",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if _, ok, err := store.Get(ctx, metaFP); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v, want ok=false", ok, err)
	}

	if err := store.Put(ctx, metaFP, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, metaFP)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, metaFP, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, metaFP)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Response record lives beside the metadata record under the same key.
	respFP := metaFP
	respFP.BodyHash = "hash-def"
	resp := idempotencyport.Record{
		StatusCode:  200,
		ContentType: "",
		Body:        []byte{},
		CreatedAt:   time.Unix(456, 0).UTC(),
	}
	if err := store.Put(ctx, respFP, resp); err != nil {
		t.Fatalf("Put response: %v", err)
	}
	got, ok, err = store.Get(ctx, respFP)
	if err != nil || !ok || got.StatusCode != 200 || len(got.Body) != 0 {
		t.Fatalf("unexpected response record ok=%v err=%v rec=%+v", ok, err, got)
	}
	if got, _, _ := store.Get(ctx, metaFP); string(got.Body) != "hash-def" {
		t.Fatalf("metadata record clobbered: %+v", got)
	}

	// Route is part of the fingerprint.
	otherRoute := respFP
	otherRoute.Route = "/other"
	if _, ok, err := store.Get(ctx, otherRoute); err != nil || ok {
		t.Fatalf("Get other route: ok=%v err=%v, want ok=false", ok, err)
	}

	if err := store.Put(ctx, idempotencyport.Fingerprint{Method: "POST", Route: "/subscriptions"}, rec); !errors.Is(err, idempotencyport.ErrInvalidFingerprint) {
		t.Fatalf("Put without key err=%v, want ErrInvalidFingerprint", err)
	}
}

// RunSubscriberRepo exercises the behaviour every subscriberrepo.Repository must share.
func RunSubscriberRepo(t *testing.T, newRepo SubscriberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1_700_000_000, 0).UTC()
	s := subscriberrepoport.Subscriber{
		ID:           uuid.NewString(),
		Email:        "ursula-" + uuid.NewString() + "@example.com",
		Name:         "Ursula Le Guin",
		SubscribedAt: now,
	}
	if err := repo.Insert(ctx, s); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Same ID, different email.
	dupID := s
	dupID.Email = "other-" + uuid.NewString() + "@example.com"
	if err := repo.Insert(ctx, dupID); !errors.Is(err, subscriberrepoport.ErrAlreadyExists) {
		t.Fatalf("Insert duplicate id err=%v, want ErrAlreadyExists", err)
	}

	// Same email, different ID.
	dupEmail := s
	dupEmail.ID = uuid.NewString()
	if err := repo.Insert(ctx, dupEmail); !errors.Is(err, subscriberrepoport.ErrAlreadyExists) {
		t.Fatalf("Insert duplicate email err=%v, want ErrAlreadyExists", err)
	}

	other := subscriberrepoport.Subscriber{
		ID:           uuid.NewString(),
		Email:        "le-guin-" + uuid.NewString() + "@example.com",
		Name:         "Le Guin",
		SubscribedAt: now.Add(time.Second),
	}
	if err := repo.Insert(ctx, other); err != nil {
		t.Fatalf("Insert second subscriber: %v", err)
	}
}
