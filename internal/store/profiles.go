package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGProfileStore implements ProfileStore over pgxpool.
type PGProfileStore struct {
	pool *pgxpool.Pool
}

// NewPGProfileStore returns a configured PGProfileStore.
func NewPGProfileStore(pool *pgxpool.Pool) *PGProfileStore {
	return &PGProfileStore{pool: pool}
}

// Get returns the full profile row for a user.
func (s *PGProfileStore) Get(ctx context.Context, userID string) (*Profile, error) {
	var (
		p         Profile
		firstName *string
		lastName  *string
		phone     *string
		birthdate *time.Time
		sex       *string
		address   *string
		avatarURL *string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, first_name, last_name, phone_number, birthdate,
		        sex, address, avatar_url
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &firstName, &lastName, &phone, &birthdate, &sex, &address, &avatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.FirstName = deref(firstName)
	p.LastName = deref(lastName)
	p.Phone = deref(phone)
	p.Birthdate = wireTimePtr(birthdate)
	p.Sex = deref(sex)
	p.Address = deref(address)
	p.AvatarURL = deref(avatarURL)
	return &p, nil
}

// DisplayName returns "First Last" for a user, or the empty string when the
// profile row is missing (callers render a placeholder instead of failing
// the whole page).
func (s *PGProfileStore) DisplayName(ctx context.Context, userID string) (string, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName), nil
}

// AvatarURL returns the user's profile-picture URL, empty when unset.
func (s *PGProfileStore) AvatarURL(ctx context.Context, userID string) (string, error) {
	p, err := s.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.AvatarURL, nil
}
