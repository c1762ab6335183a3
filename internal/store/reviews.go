package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGReviewStore implements ReviewStore over pgxpool.
type PGReviewStore struct {
	pool *pgxpool.Pool
}

// NewPGReviewStore returns a configured PGReviewStore.
func NewPGReviewStore(pool *pgxpool.Pool) *PGReviewStore {
	return &PGReviewStore{pool: pool}
}

// AverageRating returns the mean star rating received by a user, 0 when the
// user has no reviews yet.
func (s *PGReviewStore) AverageRating(ctx context.Context, userID string) (float64, error) {
	var avg float64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)
		 FROM reviews
		 WHERE target_id = $1 AND deleted_at IS NULL`,
		userID,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("averageRating: %w", err)
	}
	return avg, nil
}

// ReviewCount returns how many live reviews a user has received.
func (s *PGReviewStore) ReviewCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE target_id = $1 AND deleted_at IS NULL`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("reviewCount: %w", err)
	}
	return count, nil
}

// HasReviewed reports whether reviewer already left a review for target on
// the given post.
func (s *PGReviewStore) HasReviewed(ctx context.Context, reviewerID, targetID, postID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM reviews
		   WHERE reviewer_id = $1 AND target_id = $2 AND post_id = $3
		     AND deleted_at IS NULL
		 )`,
		reviewerID, targetID, postID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("hasReviewed: %w", err)
	}
	return exists, nil
}
