package applied_test

import (
	"testing"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/applied"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/query"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

// job builds a DisplayJob via Normalize so Raw is populated the same way
// production code does it.
func job(id, createdAt string, locked bool, deletedAt string) applied.DisplayJob {
	rec := store.ApplicationRecord{
		ID:        id,
		Status:    "pending",
		CreatedAt: createdAt,
		Post: &store.PostRecord{
			ID:        "post-" + id,
			Title:     "job " + id,
			IsLocked:  locked,
			DeletedAt: deletedAt,
		},
	}
	return applied.Normalize([]store.ApplicationRecord{rec})[0]
}

func ids(jobs []applied.DisplayJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func assertOrder(t *testing.T, jobs []applied.DisplayJob, want ...string) {
	t.Helper()
	got := ids(jobs)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got order %v, want %v", got, want)
			return
		}
	}
}

// ── Tier demotion ──────────────────────────────────────────────────────────

func TestSort_ActiveBeforeLockedBeforeDeleted(t *testing.T) {
	jobs := []applied.DisplayJob{
		job("deleted", "2025-03-01T00:00:00Z", false, "2025-03-02T00:00:00Z"),
		job("locked", "2025-03-01T00:00:00Z", true, ""),
		job("active", "2025-03-01T00:00:00Z", false, ""),
	}

	applied.Sort(jobs, query.SortDesc)
	assertOrder(t, jobs, "active", "locked", "deleted")

	applied.Sort(jobs, query.SortAsc)
	assertOrder(t, jobs, "active", "locked", "deleted")
}

func TestSort_DeletedWinsOverLocked(t *testing.T) {
	// A post can be both locked and deleted; deleted takes the worse tier.
	jobs := []applied.DisplayJob{
		job("both", "2025-03-01T00:00:00Z", true, "2025-03-02T00:00:00Z"),
		job("locked", "2025-03-01T00:00:00Z", true, ""),
	}
	applied.Sort(jobs, query.SortDesc)
	assertOrder(t, jobs, "locked", "both")
}

func TestSort_ActiveTodayBeatsDeletedYesterdayOnDesc(t *testing.T) {
	// Raw timestamps alone would put the deleted job first under desc if
	// it were newer; the tier must win regardless.
	jobs := []applied.DisplayJob{
		job("deleted-yesterday", "2025-03-09T00:00:00Z", false, "2025-03-09T12:00:00Z"),
		job("active-today", "2025-03-10T00:00:00Z", false, ""),
	}
	applied.Sort(jobs, query.SortDesc)
	assertOrder(t, jobs, "active-today", "deleted-yesterday")
}

// ── Timestamp ordering within a tier ───────────────────────────────────────

func TestSort_TimestampDirectionWithinTier(t *testing.T) {
	early := job("early", "2025-01-01T00:00:00Z", false, "")
	late := job("late", "2025-06-01T00:00:00Z", false, "")

	jobs := []applied.DisplayJob{early, late}
	applied.Sort(jobs, query.SortDesc)
	assertOrder(t, jobs, "late", "early")

	applied.Sort(jobs, query.SortAsc)
	assertOrder(t, jobs, "early", "late")
}

func TestSort_UnparsableTimestampTreatedAsEpoch(t *testing.T) {
	broken := job("broken", "not a date", false, "")
	old := job("old", "1999-12-31T00:00:00Z", false, "")

	jobs := []applied.DisplayJob{broken, old}
	applied.Sort(jobs, query.SortAsc)
	assertOrder(t, jobs, "broken", "old")
}

func TestSort_Stable(t *testing.T) {
	// Identical tier and timestamp keep their original relative order.
	a := job("a", "2025-03-01T00:00:00Z", false, "")
	b := job("b", "2025-03-01T00:00:00Z", false, "")
	c := job("c", "2025-03-01T00:00:00Z", false, "")

	jobs := []applied.DisplayJob{a, b, c}
	applied.Sort(jobs, query.SortDesc)
	assertOrder(t, jobs, "a", "b", "c")
}

// ── Tier invariant over a larger shuffle ───────────────────────────────────

func TestSort_TierInvariantHoldsForAdjacentPairs(t *testing.T) {
	jobs := []applied.DisplayJob{
		job("1", "2025-02-01T00:00:00Z", true, ""),
		job("2", "2025-05-01T00:00:00Z", false, ""),
		job("3", "2025-01-01T00:00:00Z", false, "2025-01-02T00:00:00Z"),
		job("4", "2025-04-01T00:00:00Z", false, ""),
		job("5", "2025-03-01T00:00:00Z", true, ""),
		job("6", "2025-06-01T00:00:00Z", false, "2025-06-02T00:00:00Z"),
	}

	applied.Sort(jobs, query.SortDesc)

	tier := func(j applied.DisplayJob) int {
		switch {
		case j.Raw.Post.Deleted():
			return 2
		case j.Raw.Post.IsLocked:
			return 1
		default:
			return 0
		}
	}
	for i := 1; i < len(jobs); i++ {
		if tier(jobs[i-1]) > tier(jobs[i]) {
			t.Fatalf("tier invariant violated at %d: %v", i, ids(jobs))
		}
	}
	// Within the active tier, desc order by timestamp.
	assertOrder(t, jobs[:2], "2", "4")
}
