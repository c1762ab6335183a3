// Package catalog defines the closed label sets the marketplace filters and
// tags jobs with: the job-type/subtype tree, gender preferences, experience
// levels.
//
// Post records carry a single denormalised sub_types array holding gender
// preferences, experience levels and job subtypes mixed together; the split
// into three tag groups is reconstructed at read time by PartitionTags with
// precedence Gender > Experience > job subtype.
package catalog

// SubtypeOther is the sentinel subtype present in every job-type group.
// Selecting it means "this category in general" rather than a specific leaf,
// so the query layer matches on the top-level type instead.
const SubtypeOther = "Other"

// JobTypes maps each top-level job category to its selectable subtypes.
var JobTypes = map[string][]string{
	"Cleaning": {"Housekeeping", "Laundry", "Carwash", SubtypeOther},
	"Repair":   {"Plumbing", "Electrical", "Carpentry", "Appliance Repair", SubtypeOther},
	"Delivery": {"Food Delivery", "Parcel", "Grocery", SubtypeOther},
	"Care":     {"Childcare", "Elderly Care", "Pet Care", SubtypeOther},
	"Tutoring": {"Academic", "Music", "Language", SubtypeOther},
	"Errands":  {"Queueing", "Shopping", "Documents", SubtypeOther},
}

// Genders are the enumerated gender-preference labels.
var Genders = []string{"Male", "Female", "Any"}

// ExperienceLevels are the enumerated experience labels.
var ExperienceLevels = []string{"Entry-level", "Intermediate", "Experienced"}

// IsJobType reports whether s is a known top-level job category.
func IsJobType(s string) bool {
	_, ok := JobTypes[s]
	return ok
}

// IsGender reports whether s is one of the enumerated gender labels.
func IsGender(s string) bool { return contains(Genders, s) }

// IsExperienceLevel reports whether s is one of the enumerated experience labels.
func IsExperienceLevel(s string) bool { return contains(ExperienceLevels, s) }

// IsSubtype reports whether s appears anywhere in the job-subtype catalog.
func IsSubtype(s string) bool {
	for _, subs := range JobTypes {
		if contains(subs, s) {
			return true
		}
	}
	return false
}

// PartitionTags splits a post's flat sub_types array into the three disjoint
// tag groups used for display. Claim order is fixed: members matching a
// gender label are claimed first, then experience labels, and whatever
// remains is kept only if it appears in the job-subtype catalog. The
// top-level post type always leads the job-type group. Each group is
// deduplicated; a label never lands in more than one group.
func PartitionTags(postType string, subTypes []string) (genders, experience, jobTypes []string) {
	genders = make([]string, 0)
	experience = make([]string, 0)
	jobTypes = make([]string, 0)

	seen := make(map[string]bool)
	if postType != "" {
		jobTypes = append(jobTypes, postType)
		seen[postType] = true
	}

	claimed := make(map[string]bool)
	for _, s := range subTypes {
		if IsGender(s) && !claimed[s] {
			genders = append(genders, s)
			claimed[s] = true
		}
	}
	for _, s := range subTypes {
		if claimed[s] || !IsExperienceLevel(s) {
			continue
		}
		experience = append(experience, s)
		claimed[s] = true
	}
	for _, s := range subTypes {
		if claimed[s] || seen[s] {
			continue
		}
		if IsSubtype(s) || IsJobType(s) {
			jobTypes = append(jobTypes, s)
			seen[s] = true
		}
	}
	return genders, experience, jobTypes
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
