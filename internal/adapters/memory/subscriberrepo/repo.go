package subscriberrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

// Repo is an in-memory implementation of subscriberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID    map[string]subscriberrepo.Subscriber
	idByEml map[string]string
	order   []string

	// failWith, when set, is returned by Insert instead of storing anything.
	failWith error
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[string]subscriberrepo.Subscriber),
		idByEml: make(map[string]string),
	}
}

func (r *Repo) Insert(ctx context.Context, s subscriberrepo.Subscriber) error {
	_ = ctx
	if s.ID == "" {
		return errors.New("subscriber id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.byID[s.ID]; ok {
		return subscriberrepo.ErrAlreadyExists
	}
	if _, ok := r.idByEml[s.Email]; ok {
		return subscriberrepo.ErrAlreadyExists
	}

	s.SubscribedAt = s.SubscribedAt.UTC()
	r.byID[s.ID] = s
	r.idByEml[s.Email] = s.ID
	r.order = append(r.order, s.ID)
	return nil
}

// FailWith makes subsequent Inserts return err. Pass nil to restore normal behaviour.
func (r *Repo) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWith = err
}

// All returns the stored subscribers in insertion order.
func (r *Repo) All() []subscriberrepo.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]subscriberrepo.Subscriber, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
