package idempotency

import (
	"context"
	"sync"
	"time"

	platformclock "github.com/Overland-East-Bay/newsletter-api/internal/platform/clock"
	clockport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// It is safe for concurrent use.
//
// With a positive TTL, records older than TTL (by the store's clock) are
// treated as absent.
type Store struct {
	mu sync.RWMutex
	m  map[idempotency.Fingerprint]entry

	ttl time.Duration
	clk clockport.Clock
}

type entry struct {
	rec      idempotency.Record
	storedAt time.Time
}

// NewStore returns a store whose records never expire.
func NewStore() *Store {
	return NewStoreWithTTL(0, nil)
}

func NewStoreWithTTL(ttl time.Duration, clk clockport.Clock) *Store {
	if clk == nil {
		clk = platformclock.NewSystemClock()
	}
	return &Store{
		m:   make(map[idempotency.Fingerprint]entry),
		ttl: ttl,
		clk: clk,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	if err := fp.Validate(); err != nil {
		return idempotency.Record{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.ttl > 0 && s.clk.Now().Sub(e.storedAt) >= s.ttl {
		return idempotency.Record{}, false, nil
	}
	return cloneRecord(e.rec), true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	if err := fp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[fp] = entry{rec: cloneRecord(rec), storedAt: s.clk.Now()}
	return nil
}

func cloneRecord(r idempotency.Record) idempotency.Record {
	out := r
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	return out
}
