package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/Overland-East-Bay/newsletter-api/internal/app/subscriptions"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logging"
)

const maxFormBytes = 64 << 10

// subscribeForm is the urlencoded body of POST /subscriptions.
type subscribeForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HealthCheck answers 200 with an empty body.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Subscribe handles POST /subscriptions: 200 with an empty body on success,
// 400 for a rejected name or email, 500 when the subscriber cannot be recorded.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, http.StatusBadRequest, subscriptions.CodeValidation, "invalid form body", nil)
		return
	}
	var form subscribeForm
	if err := runtime.BindForm(&form, r.PostForm, nil, nil); err != nil {
		writeError(w, r, http.StatusBadRequest, subscriptions.CodeValidation, "invalid form body", nil)
		return
	}

	var pending *idempotentRequest
	if key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)); key != "" && s.Idem != nil {
		if len(key) > maxIdempotencyKeyLength {
			writeError(w, r, http.StatusBadRequest, codeIdempotencyKeyInvalid, "Idempotency-Key is too long", map[string]any{
				"maxLength": maxIdempotencyKeyLength,
			})
			return
		}
		ir, replay, err := beginIdempotent(ctx, s.Idem, key, http.MethodPost, routeSubscriptions, hashFields(form.Name, form.Email))
		switch {
		case errors.Is(err, errIdempotencyKeyReuse):
			writeError(w, r, http.StatusConflict, codeIdempotencyKeyReuse, err.Error(), nil)
			return
		case err != nil:
			writeAppError(w, r, err)
			return
		case replay != nil:
			writeReplay(w, *replay)
			return
		}
		pending = ir
	}

	sub, err := s.Subscriptions.Subscribe(ctx, subscriptions.SubscribeInput{
		Name:  form.Name,
		Email: form.Email,
	})
	if err != nil {
		var ae *subscriptions.Error
		if errors.As(err, &ae) && ae.Code == subscriptions.CodeValidation {
			// The wrapped error quotes raw input; log the reason only.
			logger.Info("Subscription rejected", zap.Any("details", ae.Details))
		}
		writeAppError(w, r, err)
		return
	}

	logger.Info("Subscription accepted",
		zap.String("subscriber_id", string(sub.ID)),
		logging.Email("email", sub.Email.String()),
	)
	pending.complete(ctx, http.StatusOK, "", nil)
	w.WriteHeader(http.StatusOK)
}
