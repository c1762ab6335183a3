// Package maintenance wires up the cron job that keeps post lifecycle flags
// honest: posts past their expiry get locked, and pending applications on
// deleted posts get rejected so they stop showing up as actionable.
package maintenance

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// Sweeper wraps robfig/cron and runs the periodic lifecycle sweeps.
type Sweeper struct {
	cron *cron.Cron
	pool *pgxpool.Pool
	spec string // cron spec, e.g. "@every 6h"
}

// New creates a Sweeper that fires every intervalHours hours.
func New(pool *pgxpool.Pool, intervalHours int) *Sweeper {
	return &Sweeper{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool: pool,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the sweep and starts the scheduler. One sweep runs
// immediately so a restart doesn't wait a full interval to catch up.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[maintenance] Cron started (spec: %s)", s.spec)

	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	log.Println("[maintenance] Cron stopped")
}

// runSweep executes both sweeps, logging counts. A failure in one sweep does
// not stop the other.
func (s *Sweeper) runSweep(ctx context.Context) {
	log.Println("[maintenance] Sweep cycle started")

	locked, err := s.lockExpiredPosts(ctx)
	if err != nil {
		log.Printf("[maintenance] lockExpiredPosts error: %v", err)
	}

	rejected, err := s.rejectOrphanedApplications(ctx)
	if err != nil {
		log.Printf("[maintenance] rejectOrphanedApplications error: %v", err)
	}

	log.Printf("[maintenance] Sweep cycle complete: locked=%d rejected=%d", locked, rejected)
}

// lockExpiredPosts locks every live post whose expiry has passed.
func (s *Sweeper) lockExpiredPosts(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE posts
		 SET is_locked = TRUE, updated_at = NOW()
		 WHERE is_locked = FALSE
		   AND deleted_at IS NULL
		   AND expires_at IS NOT NULL
		   AND expires_at < NOW()`,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// rejectOrphanedApplications rejects pending applications whose post has
// been soft-deleted. pending → rejected is a legal status transition, so
// the applied-jobs view keeps rendering these rows consistently.
func (s *Sweeper) rejectOrphanedApplications(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE applications a
		 SET status = 'rejected', updated_at = NOW()
		 FROM posts p
		 WHERE p.id = a.post_id
		   AND p.deleted_at IS NOT NULL
		   AND a.status = 'pending'
		   AND a.deleted_at IS NULL`,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
