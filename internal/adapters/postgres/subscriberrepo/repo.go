package subscriberrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	postgres "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriberrepo"
)

// Execer is the subset of *pgxpool.Pool (and pgx.Tx) the repo needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo is a Postgres implementation of subscriberrepo.Repository.
type Repo struct {
	db Execer
}

func NewRepo(db Execer) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Insert(ctx context.Context, s subscriberrepo.Subscriber) error {
	if r.db == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(s.ID)
	if err != nil {
		return fmt.Errorf("invalid subscriber id: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at)
		VALUES ($1, $2, $3, $4)
	`,
		id,
		s.Email,
		s.Name,
		s.SubscribedAt.UTC(),
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("insert subscriber: %w", subscriberrepo.ErrAlreadyExists)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}
