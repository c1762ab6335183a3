package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGPostStore implements PostStore over pgxpool.
type PGPostStore struct {
	pool *pgxpool.Pool
}

// NewPGPostStore returns a configured PGPostStore.
func NewPGPostStore(pool *pgxpool.Pool) *PGPostStore {
	return &PGPostStore{pool: pool}
}

// Get returns a post by id, including soft-deleted ones so lifecycle flags
// stay visible to the applied-jobs view.
func (s *PGPostStore) Get(ctx context.Context, postID string) (*PostRecord, error) {
	var (
		p         PostRecord
		deletedAt *time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, description, location, price,
		        price_period, job_type, sub_types, is_locked, deleted_at
		 FROM posts
		 WHERE id = $1`,
		postID,
	).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.Location, &p.Price,
		&p.PricePeriod, &p.Type, &p.SubTypes, &p.IsLocked, &deletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	p.DeletedAt = wireTimePtr(deletedAt)
	return &p, nil
}
