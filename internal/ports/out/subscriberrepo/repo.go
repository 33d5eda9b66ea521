package subscriberrepo

import (
	"context"
	"time"
)

// Subscriber is the persisted form of an accepted subscription.
//
// Email and Name have already been validated by the domain layer; repositories
// store them as-is.
type Subscriber struct {
	ID           string
	Email        string
	Name         string
	SubscribedAt time.Time
}

// Repository records accepted subscribers. The registration path only ever
// appends, so there is no read/update/delete surface.
type Repository interface {
	Insert(ctx context.Context, s Subscriber) error
}
