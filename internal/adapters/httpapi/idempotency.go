package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotentReplayedHeader  = "Idempotent-Replayed"
	maxIdempotencyKeyLength   = 255
	codeIdempotencyKeyReuse   = "IDEMPOTENCY_KEY_REUSE"
	codeIdempotencyKeyInvalid = "IDEMPOTENCY_KEY_INVALID"
)

var errIdempotencyKeyReuse = errors.New("idempotency key reuse with different payload")

// idempotentRequest tracks one keyed request between lookup and completion.
// A nil *idempotentRequest is valid and does nothing.
type idempotentRequest struct {
	store  idempotency.Store
	respFP idempotency.Fingerprint
	logger *zap.Logger
}

// beginIdempotent implements the replay protocol:
//   - same key+route+bodyHash as a completed request: the stored response is returned
//   - same key+route with a different bodyHash: errIdempotencyKeyReuse
//   - otherwise the body hash is remembered for the key and the caller proceeds
func beginIdempotent(ctx context.Context, store idempotency.Store, key, method, route, bodyHash string) (*idempotentRequest, *idempotency.Record, error) {
	logger := LoggerFromContext(ctx)
	metaFP := idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Method:   method,
		Route:    route,
		BodyHash: "",
	}
	if meta, ok, err := store.Get(ctx, metaFP); err != nil {
		return nil, nil, err
	} else if ok {
		if string(meta.Body) != bodyHash {
			return nil, nil, errIdempotencyKeyReuse
		}
	} else {
		if err := store.Put(ctx, metaFP, idempotency.Record{
			StatusCode:  0,
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}

	respFP := metaFP
	respFP.BodyHash = bodyHash
	if rec, ok, err := store.Get(ctx, respFP); err != nil {
		return nil, nil, err
	} else if ok && rec.StatusCode >= 200 && rec.StatusCode < 300 {
		return nil, &rec, nil
	}
	return &idempotentRequest{store: store, respFP: respFP, logger: logger}, nil, nil
}

// complete stores a successful response for replay. Only 2xx responses are kept.
func (ir *idempotentRequest) complete(ctx context.Context, status int, contentType string, body []byte) {
	if ir == nil || status < 200 || status >= 300 {
		return
	}
	if body == nil {
		body = []byte{}
	}
	if err := ir.store.Put(ctx, ir.respFP, idempotency.Record{
		StatusCode:  status,
		ContentType: contentType,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}); err != nil {
		ir.logger.Warn("Failed to store idempotent response", zap.Error(err))
	}
}

func writeReplay(w http.ResponseWriter, rec idempotency.Record) {
	if rec.ContentType != "" {
		w.Header().Set("Content-Type", rec.ContentType)
	}
	w.Header().Set(IdempotentReplayedHeader, "true")
	w.WriteHeader(rec.StatusCode)
	if len(rec.Body) > 0 {
		_, _ = w.Write(rec.Body)
	}
}

// hashFields hashes an ordered list of canonical field values.
func hashFields(fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
