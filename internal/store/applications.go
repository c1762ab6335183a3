package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/query"
)

// joinedColumns is the column list shared by every query that returns an
// application joined with its post.
const joinedColumns = `
	a.id, a.user_id, a.post_id, a.status, a.created_at, a.updated_at,
	p.id, p.owner_id, p.title, p.description, p.location, p.price,
	p.price_period, p.job_type, p.sub_types, p.is_locked, p.deleted_at`

// PGApplicationStore implements ApplicationStore over pgxpool.
type PGApplicationStore struct {
	pool *pgxpool.Pool
}

// NewPGApplicationStore returns a configured PGApplicationStore.
func NewPGApplicationStore(pool *pgxpool.Pool) *PGApplicationStore {
	return &PGApplicationStore{pool: pool}
}

// ListByApplicant builds the predicate list from params and returns one page
// of the caller's applications plus the total match count. The server orders
// by timestamp only; lifecycle-tier demotion is the caller's concern.
func (s *PGApplicationStore) ListByApplicant(ctx context.Context, userID string, params query.Params) (*ApplicationPage, error) {
	args := []any{userID}
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	conds := []string{"a.user_id = $1", "a.deleted_at IS NULL"}

	if len(params.Statuses) > 0 {
		conds = append(conds, "a.status = ANY("+next(params.Statuses)+")")
	}
	if params.SearchTerm != "" {
		ph := next("%" + params.SearchTerm + "%")
		conds = append(conds, "(p.title ILIKE "+ph+" OR p.description ILIKE "+ph+")")
	}
	if params.Location != "" {
		conds = append(conds, "p.location ILIKE "+next("%"+params.Location+"%"))
	}
	if params.PriceRange != nil {
		conds = append(conds, "p.price BETWEEN "+next(params.PriceRange.Min)+" AND "+next(params.PriceRange.Max))
	}
	if len(params.ExperienceLevels) > 0 {
		conds = append(conds, "p.sub_types && "+next(params.ExperienceLevels))
	}
	if len(params.Genders) > 0 {
		conds = append(conds, "p.sub_types && "+next(params.Genders))
	}

	// Category and leaf predicates: ANDed by default, ORed in mixed mode.
	switch {
	case params.MatchMode == query.MatchMixed && len(params.JobTypes) > 0 && len(params.SubTypes) > 0:
		conds = append(conds,
			"(p.job_type = ANY("+next(params.JobTypes)+") OR p.sub_types && "+next(params.SubTypes)+")")
	case len(params.JobTypes) > 0:
		conds = append(conds, "p.job_type = ANY("+next(params.JobTypes)+")")
	case len(params.SubTypes) > 0:
		conds = append(conds, "p.sub_types && "+next(params.SubTypes))
	}

	// Post lifecycle flags from the status facet.
	var flags []string
	if params.PostFlags.Locked {
		flags = append(flags, "p.is_locked = TRUE")
	}
	if params.PostFlags.Deleted {
		flags = append(flags, "p.deleted_at IS NOT NULL")
	}
	if len(flags) == 1 {
		conds = append(conds, flags[0])
	} else if len(flags) == 2 {
		conds = append(conds, "("+flags[0]+" OR "+flags[1]+")")
	}

	sortCol := "a.created_at"
	if params.SortBy == query.SortByUpdatedAt {
		sortCol = "a.updated_at"
	}
	dir := "DESC"
	if params.SortOrder == query.SortAsc {
		dir = "ASC"
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	sql := `SELECT` + joinedColumns + `, COUNT(*) OVER () AS total_count
		FROM applications a
		LEFT JOIN posts p ON p.id = a.post_id
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY ` + sortCol + ` ` + dir + `
		LIMIT ` + next(pageSize) + ` OFFSET ` + next((page-1)*pageSize)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listByApplicant query: %w", err)
	}
	defer rows.Close()

	result := &ApplicationPage{Records: make([]ApplicationRecord, 0, pageSize)}
	for rows.Next() {
		rec, total, err := scanJoined(rows, true)
		if err != nil {
			return nil, fmt.Errorf("listByApplicant scan: %w", err)
		}
		result.TotalCount = total
		result.Records = append(result.Records, *rec)
	}
	return result, rows.Err()
}

// ListByPost returns the live applications for a post, newest first.
func (s *PGApplicationStore) ListByPost(ctx context.Context, postID string) ([]ApplicationRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+joinedColumns+`
		 FROM applications a
		 LEFT JOIN posts p ON p.id = a.post_id
		 WHERE a.post_id = $1 AND a.deleted_at IS NULL
		 ORDER BY a.created_at DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("listByPost query: %w", err)
	}
	defer rows.Close()

	apps := make([]ApplicationRecord, 0)
	for rows.Next() {
		rec, _, err := scanJoined(rows, false)
		if err != nil {
			return nil, fmt.Errorf("listByPost scan: %w", err)
		}
		apps = append(apps, *rec)
	}
	return apps, rows.Err()
}

// Get returns one application by id, joined with its post.
func (s *PGApplicationStore) Get(ctx context.Context, applicationID string) (*ApplicationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+joinedColumns+`
		 FROM applications a
		 LEFT JOIN posts p ON p.id = a.post_id
		 WHERE a.id = $1 AND a.deleted_at IS NULL`,
		applicationID,
	)
	rec, _, err := scanJoined(row, false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return rec, nil
}

// Create inserts a pending application for a live post. The insert is
// guarded against duplicates per (user, post) among live rows.
func (s *PGApplicationStore) Create(ctx context.Context, postID, userID string) (*ApplicationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO applications (post_id, user_id, status)
		   SELECT $1, $2, 'pending'
		   WHERE EXISTS (
		     SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL
		   )
		   AND NOT EXISTS (
		     SELECT 1 FROM applications
		     WHERE post_id = $1 AND user_id = $2 AND deleted_at IS NULL
		   )
		   RETURNING *
		 )
		 SELECT ins.id, ins.user_id, ins.post_id, ins.status, ins.created_at, ins.updated_at,
		        p.id, p.owner_id, p.title, p.description, p.location, p.price,
		        p.price_period, p.job_type, p.sub_types, p.is_locked, p.deleted_at
		 FROM ins
		 LEFT JOIN posts p ON p.id = ins.post_id`,
		postID, userID,
	)
	rec, _, err := scanJoined(row, false)
	if errors.Is(err, pgx.ErrNoRows) {
		// Insert was suppressed: either the post is gone or the user
		// already applied. Tell the two apart for the error message.
		var exists bool
		checkErr := s.pool.QueryRow(ctx,
			`SELECT EXISTS (
			   SELECT 1 FROM applications
			   WHERE post_id = $1 AND user_id = $2 AND deleted_at IS NULL
			 )`,
			postID, userID,
		).Scan(&exists)
		if checkErr == nil && exists {
			return nil, ErrDuplicateApplication
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("createApplication: %w", err)
	}
	return rec, nil
}

// UpdateStatus sets a new application status. The actor must own the joined
// post; otherwise the row is treated as not found.
func (s *PGApplicationStore) UpdateStatus(ctx context.Context, applicationID, status, actorID string) (*ApplicationRecord, error) {
	row := s.pool.QueryRow(ctx,
		`WITH upd AS (
		   UPDATE applications a
		   SET status = $1, updated_at = NOW()
		   WHERE a.id = $2 AND a.deleted_at IS NULL
		     AND EXISTS (
		       SELECT 1 FROM posts WHERE id = a.post_id AND owner_id = $3
		     )
		   RETURNING *
		 )
		 SELECT upd.id, upd.user_id, upd.post_id, upd.status, upd.created_at, upd.updated_at,
		        p.id, p.owner_id, p.title, p.description, p.location, p.price,
		        p.price_period, p.job_type, p.sub_types, p.is_locked, p.deleted_at
		 FROM upd
		 LEFT JOIN posts p ON p.id = upd.post_id`,
		status, applicationID, actorID,
	)
	rec, _, err := scanJoined(row, false)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updateStatus: %w", err)
	}
	return rec, nil
}

// SoftDelete marks the caller's application deleted without removing the row.
func (s *PGApplicationStore) SoftDelete(ctx context.Context, applicationID, actorID string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE applications
		 SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		applicationID, actorID,
	)
	if err != nil {
		return false, fmt.Errorf("softDelete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanner abstracts pgx.Row and pgx.Rows for the shared join scan.
type scanner interface {
	Scan(dest ...any) error
}

// scanJoined reads one joined application row. Post columns come from a LEFT
// JOIN and may all be NULL when the post row is gone; in that case Post is
// left nil and the normalizer substitutes its defaults.
func scanJoined(sc scanner, withTotal bool) (*ApplicationRecord, int, error) {
	var (
		rec         ApplicationRecord
		createdAt   time.Time
		updatedAt   time.Time
		total       int
		postID      *string
		ownerID     *string
		title       *string
		description *string
		location    *string
		price       *float64
		pricePeriod *string
		jobType     *string
		subTypes    []string
		isLocked    *bool
		deletedAt   *time.Time
	)

	dest := []any{
		&rec.ID, &rec.UserID, &rec.PostID, &rec.Status, &createdAt, &updatedAt,
		&postID, &ownerID, &title, &description, &location, &price,
		&pricePeriod, &jobType, &subTypes, &isLocked, &deletedAt,
	}
	if withTotal {
		dest = append(dest, &total)
	}
	if err := sc.Scan(dest...); err != nil {
		return nil, 0, err
	}

	rec.CreatedAt = wireTime(createdAt)
	rec.UpdatedAt = wireTime(updatedAt)

	if postID != nil {
		rec.Post = &PostRecord{
			ID:          *postID,
			OwnerID:     deref(ownerID),
			Title:       deref(title),
			Description: deref(description),
			Location:    deref(location),
			PricePeriod: deref(pricePeriod),
			Type:        deref(jobType),
			SubTypes:    subTypes,
			DeletedAt:   wireTimePtr(deletedAt),
		}
		if price != nil {
			rec.Post.Price = *price
		}
		if isLocked != nil {
			rec.Post.IsLocked = *isLocked
		}
	}
	return &rec, total, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
