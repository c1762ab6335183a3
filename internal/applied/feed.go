package applied

import (
	"context"
	"net/url"
	"sync"
)

// Loader fetches one page of the applied-jobs view. *Service satisfies it.
type Loader interface {
	ListApplied(ctx context.Context, userID string, vs ViewState, page, pageSize int) (*Page, error)
}

// Feed is the pagination controller for the applied-jobs view. It owns the
// accumulated job list, the current page cursor and the two independent
// loading flags (a refresh does not block an in-flight load-more).
//
// Every fetch carries a monotonically increasing sequence number; a response
// that resolves after a newer fetch was issued is discarded, so a slow
// superseded load can never overwrite fresher state.
type Feed struct {
	loader   Loader
	userID   string
	pageSize int

	mu          sync.Mutex
	view        ViewState
	lastQuery   url.Values
	jobs        []DisplayJob
	totalCount  int
	currentPage int
	hasMore     bool
	loading     bool
	loadingMore bool
	seq         uint64
}

// NewFeed returns a Feed for the given user. Nothing is fetched until
// Refresh is called.
func NewFeed(loader Loader, userID string, pageSize int) *Feed {
	return &Feed{
		loader:      loader,
		userID:      userID,
		pageSize:    pageSize,
		view:        DefaultViewState(),
		currentPage: 1,
		hasMore:     true,
	}
}

// Snapshot is a copy of the feed's observable state.
type Snapshot struct {
	Jobs        []DisplayJob
	TotalCount  int
	CurrentPage int
	HasMore     bool
	Loading     bool
	LoadingMore bool
}

// State returns a snapshot of the current feed state.
func (f *Feed) State() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobs := make([]DisplayJob, len(f.jobs))
	copy(jobs, f.jobs)
	return Snapshot{
		Jobs:        jobs,
		TotalCount:  f.totalCount,
		CurrentPage: f.currentPage,
		HasMore:     f.hasMore,
		Loading:     f.loading,
		LoadingMore: f.loadingMore,
	}
}

// Refresh re-parses view state from URL query values, resets pagination to
// {page 1, more data assumed}, and fetches the first page, replacing the
// list. On failure the previous list is left intact.
func (f *Feed) Refresh(ctx context.Context, values url.Values) error {
	f.mu.Lock()
	f.lastQuery = values
	f.view = ParseViewState(values)
	f.currentPage = 1
	f.hasMore = true
	f.loading = true
	f.seq++
	seq := f.seq
	vs := f.view
	f.mu.Unlock()

	page, err := f.loader.ListApplied(ctx, f.userID, vs, 1, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq == f.seq {
		f.loading = false
	}
	if err != nil {
		return err
	}
	if seq != f.seq {
		// A newer fetch was issued while this one was in flight.
		return nil
	}

	f.jobs = page.Jobs
	f.totalCount = page.TotalCount
	f.hasMore = len(f.jobs) < page.TotalCount
	return nil
}

// Reload re-runs the last refresh with the same URL state, used after an
// action (e.g. withdrawing an application) invalidates the list.
func (f *Feed) Reload(ctx context.Context) error {
	f.mu.Lock()
	values := f.lastQuery
	f.mu.Unlock()
	if values == nil {
		values = url.Values{}
	}
	return f.Refresh(ctx, values)
}

// LoadMore fetches the next page with the filters/sort/search currently in
// effect, appends it and re-sorts the whole accumulated list. It is a no-op
// when a load-more is already in flight or when the server-reported total
// has been reached.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loadingMore || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.loadingMore = true
	f.seq++
	seq := f.seq
	vs := f.view
	nextPage := f.currentPage + 1
	f.mu.Unlock()

	page, err := f.loader.ListApplied(ctx, f.userID, vs, nextPage, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadingMore = false
	if err != nil {
		return err
	}
	if seq != f.seq {
		return nil
	}

	f.jobs = append(f.jobs, page.Jobs...)
	Sort(f.jobs, vs.SortOrder)
	f.currentPage = nextPage
	f.totalCount = page.TotalCount
	f.hasMore = len(f.jobs) < page.TotalCount
	return nil
}
