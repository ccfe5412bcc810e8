package models

import (
	"time"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

// ListingStatus is the lifecycle state of a featured listing. It is never
// stored; it is derived from the featured window at read time.
type ListingStatus string

const (
	StatusScheduled ListingStatus = "scheduled"
	StatusActive    ListingStatus = "active"
	StatusExpired   ListingStatus = "expired"
)

// DeriveStatus returns scheduled before from, expired after until and
// active in between, both bounds inclusive.
func DeriveStatus(from, until, now time.Time) ListingStatus {
	if now.Before(from) {
		return StatusScheduled
	}
	if now.After(until) {
		return StatusExpired
	}
	return StatusActive
}

// FeaturedListing is a job promoted for a bounded time window
type FeaturedListing struct {
	ID            string    `json:"id" bson:"_id"`
	JobID         string    `json:"jobId" bson:"jobId"`
	Title         string    `json:"title" bson:"title"`
	Company       string    `json:"company" bson:"company"`
	Location      string    `json:"location" bson:"location"`
	JobType       string    `json:"jobType" bson:"jobType"`
	Description   string    `json:"description" bson:"description"`
	Skills        []string  `json:"skills" bson:"skills"`
	FeaturedFrom  time.Time `json:"featuredFrom" bson:"featuredFrom"`
	FeaturedUntil time.Time `json:"featuredUntil" bson:"featuredUntil"`
	Views         int64     `json:"views" bson:"views"`
	Clicks        int64     `json:"clicks" bson:"clicks"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// StatusAt derives the listing status at now
func (l FeaturedListing) StatusAt(now time.Time) ListingStatus {
	return DeriveStatus(l.FeaturedFrom, l.FeaturedUntil, now)
}

// Matches reports whether title, company, location or any skill contains query
func (l FeaturedListing) Matches(query string) bool {
	return matchesQuery(query, l.Skills, l.Title, l.Company, l.Location)
}

// Validate checks the fields required for a listing to be stored
func (l FeaturedListing) Validate() error {
	fields := map[string]string{}
	if blank(l.ID) {
		fields["id"] = "id is required"
	}
	if blank(l.Title) {
		fields["title"] = "title is required"
	}
	if blank(l.Company) {
		fields["company"] = "company is required"
	}
	if blank(l.Location) {
		fields["location"] = "location is required"
	}
	if blank(l.Description) {
		fields["description"] = "description is required"
	}
	if len(CleanSkills(l.Skills)) == 0 {
		fields["skills"] = "at least one skill is required"
	}
	if !l.FeaturedFrom.Before(l.FeaturedUntil) {
		fields["featuredUntil"] = "featuredUntil must be after featuredFrom"
	}
	if l.Views < 0 {
		fields["views"] = "views cannot be negative"
	}
	if l.Clicks < 0 {
		fields["clicks"] = "clicks cannot be negative"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid featured listing", fields)
	}
	return nil
}

// FeaturedListingView is a listing together with its derived status
type FeaturedListingView struct {
	FeaturedListing
	Status ListingStatus `json:"status"`
}

// ViewAt pairs the listing with its status at now
func (l FeaturedListing) ViewAt(now time.Time) FeaturedListingView {
	return FeaturedListingView{FeaturedListing: l, Status: l.StatusAt(now)}
}
