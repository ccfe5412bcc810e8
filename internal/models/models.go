package models

import "strings"

// Collection names as persisted in the document store.
const (
	CollectionUsers            = "users"
	CollectionJobs             = "jobs"
	CollectionJobSeekers       = "jobSeekers"
	CollectionFeaturedListings = "featuredListings"
	CollectionReports          = "reports"
	CollectionPayments         = "payments"
)

// Collections lists every collection the board persists.
var Collections = []string{
	CollectionUsers,
	CollectionJobs,
	CollectionJobSeekers,
	CollectionFeaturedListings,
	CollectionReports,
	CollectionPayments,
}

// matchesQuery reports whether any of the fields or skills contains query,
// ignoring case. An empty query matches everything.
func matchesQuery(query string, skills []string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CleanSkills trims skills and drops blank entries, keeping order.
func CleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
