package idempotency

import (
	"context"
	"errors"
	"time"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request for idempotency purposes: key + route + request body hash.
//
// Route is represented as HTTP method + route template (e.g. "POST /subscriptions").
// A Fingerprint with an empty BodyHash addresses the key's metadata record, which
// remembers the body hash first seen for that key.
type Fingerprint struct {
	Key      Key
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response we can replay for a duplicate request.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// ErrInvalidFingerprint is returned when a fingerprint is missing its key or route.
var ErrInvalidFingerprint = errors.New("idempotency fingerprint requires key, method and route")

// Store persists idempotency records for replaying safe responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}

// Validate reports whether fp carries the fields every store keys on.
func (fp Fingerprint) Validate() error {
	if fp.Key == "" || fp.Method == "" || fp.Route == "" {
		return ErrInvalidFingerprint
	}
	return nil
}
