package httpapi

import (
	"github.com/Overland-East-Bay/newsletter-api/internal/app/subscriptions"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
)

// Server is the HTTP adapter over the application services.
type Server struct {
	Subscriptions *subscriptions.Service
	// Idem is optional; without it Idempotency-Key headers are ignored.
	Idem idempotency.Store
}

func NewServer(subscriptionsSvc *subscriptions.Service, idem idempotency.Store) *Server {
	return &Server{
		Subscriptions: subscriptionsSvc,
		Idem:          idem,
	}
}
