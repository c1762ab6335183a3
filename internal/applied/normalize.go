package applied

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/SeesonLau/hanapbuhay-sub000/internal/catalog"
	"github.com/SeesonLau/hanapbuhay-sub000/internal/store"
)

// DisplayJob is the flattened, formatted view model handed to the
// presentation layer. It is rebuilt from scratch on every fetch; load-more
// appends a fresh page and re-sorts, it never mutates existing entries.
type DisplayJob struct {
	ID             string                   `json:"id"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Location       string                   `json:"location"`
	Salary         string                   `json:"salary"`
	SalaryPeriod   string                   `json:"salaryPeriod"`
	AppliedOn      string                   `json:"appliedOn"`
	Status         string                   `json:"status"`
	GenderTags     []string                 `json:"genderTags"`
	ExperienceTags []string                 `json:"experienceTags"`
	JobTypeTags    []string                 `json:"jobTypeTags"`
	Raw            *store.ApplicationRecord `json:"-"`
}

const (
	untitledFallback = "Untitled"
	currencySymbol   = "₱"
	appliedOnLayout  = "January 2, 2006"
)

// Normalize maps raw joined records into display models. A missing post join
// never fails the batch: title falls back to "Untitled", the remaining text
// fields to empty strings, and price to 0. Output order carries no meaning;
// sorting is a separate step.
func Normalize(records []store.ApplicationRecord) []DisplayJob {
	jobs := make([]DisplayJob, 0, len(records))
	for i := range records {
		jobs = append(jobs, normalizeOne(&records[i]))
	}
	return jobs
}

func normalizeOne(rec *store.ApplicationRecord) DisplayJob {
	job := DisplayJob{
		ID:        rec.ID,
		Title:     untitledFallback,
		Status:    rec.Status,
		AppliedOn: formatDate(rec.CreatedAt),
		Salary:    formatSalary(0),
		Raw:       rec,
	}

	post := rec.Post
	if post == nil {
		job.GenderTags, job.ExperienceTags, job.JobTypeTags = catalog.PartitionTags("", nil)
		return job
	}

	if post.Title != "" {
		job.Title = post.Title
	}
	job.Description = post.Description
	job.Location = post.Location
	job.Salary = formatSalary(post.Price)
	job.SalaryPeriod = post.PricePeriod
	job.GenderTags, job.ExperienceTags, job.JobTypeTags = catalog.PartitionTags(post.Type, post.SubTypes)
	return job
}

// formatSalary renders a price as pesos with thousands grouping and exactly
// two decimal places, e.g. 1234.5 → "₱1,234.50".
func formatSalary(price float64) string {
	return currencySymbol + humanize.FormatFloat("#,###.##", price)
}

// formatDate renders an RFC 3339 timestamp as "January 5, 2025". Unparsable
// input passes through unchanged rather than failing the record.
func formatDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format(appliedOnLayout)
}
