package featured

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/repository"
)

// maxDays bounds durations so date arithmetic cannot overflow
const maxDays = 1_000_000

// Service manages the featured listing lifecycle
type Service struct {
	listings repository.FeaturedListingRepository
	jobs     repository.JobRepository
	events   *events.Emitter
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a new featured listing service
func NewService(listings repository.FeaturedListingRepository, jobs repository.JobRepository, emitter *events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		listings: listings,
		jobs:     jobs,
		events:   emitter,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateInput carries the job fields copied into a new listing
type CreateInput struct {
	JobID        string
	Title        string
	Company      string
	Location     string
	JobType      string
	Description  string
	Skills       []string
	DurationDays int
}

// Create features a job from now for DurationDays days with zeroed counters
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.FeaturedListingView, error) {
	if in.DurationDays <= 0 || in.DurationDays > maxDays {
		return nil, apperrors.Validation("invalid featured listing", map[string]string{"durationDays": "duration must be between 1 and " + strconv.Itoa(maxDays) + " days"})
	}

	now := s.now().UTC()
	listing := models.FeaturedListing{
		ID:            s.newID(),
		JobID:         in.JobID,
		Title:         in.Title,
		Company:       in.Company,
		Location:      in.Location,
		JobType:       in.JobType,
		Description:   in.Description,
		Skills:        models.CleanSkills(in.Skills),
		FeaturedFrom:  now,
		FeaturedUntil: now.AddDate(0, 0, in.DurationDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.listings.Save(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("featured listing created",
		zap.String("id", listing.ID),
		zap.String("job_id", listing.JobID),
		zap.Time("featured_until", listing.FeaturedUntil))
	s.events.Emit(ctx, events.FeaturedCreated, listing.ID, map[string]string{
		"job_id": listing.JobID,
		"days":   strconv.Itoa(in.DurationDays),
	})

	view := listing.ViewAt(now)
	return &view, nil
}

// FeatureJob creates a listing from an existing job posting
func (s *Service) FeatureJob(ctx context.Context, jobID string, days int) (*models.FeaturedListingView, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, CreateInput{
		JobID:        job.ID,
		Title:        job.Title,
		Company:      job.Company,
		Location:     job.Location,
		JobType:      string(job.JobType),
		Description:  job.Description,
		Skills:       job.Skills,
		DurationDays: days,
	})
}

// Extend pushes featuredUntil forward by days. The start of the window is
// untouched and no status is stored, so an expired listing is active again
// only when the new end is not in the past.
func (s *Service) Extend(ctx context.Context, id string, days int) (*models.FeaturedListingView, error) {
	if days <= 0 || days > maxDays {
		return nil, apperrors.Validation("invalid extension", map[string]string{"days": "days must be between 1 and " + strconv.Itoa(maxDays)})
	}

	listing, err := s.listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	previous := listing.StatusAt(now)
	listing.FeaturedUntil = listing.FeaturedUntil.AddDate(0, 0, days)
	listing.UpdatedAt = now
	if err := s.listings.Save(ctx, *listing); err != nil {
		return nil, err
	}

	view := listing.ViewAt(now)
	s.logger.Info("featured listing extended",
		zap.String("id", id),
		zap.Int("days", days),
		zap.String("previous_status", string(previous)),
		zap.String("status", string(view.Status)))
	s.events.Emit(ctx, events.FeaturedExtended, id, map[string]string{
		"days":           strconv.Itoa(days),
		"featured_until": listing.FeaturedUntil.Format(time.RFC3339),
	})
	return &view, nil
}

// Remove deletes a listing
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("featured listing removed", zap.String("id", id))
	s.events.Emit(ctx, events.FeaturedRemoved, id, nil)
	return nil
}

// Get returns one listing with its current status
func (s *Service) Get(ctx context.Context, id string) (*models.FeaturedListingView, error) {
	listing, err := s.listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := listing.ViewAt(s.now().UTC())
	return &view, nil
}

// List returns the listings selected by q over the full set
func (s *Service) List(ctx context.Context, q Query) ([]models.FeaturedListingView, error) {
	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(listings, s.now().UTC()), nil
}

// Active returns the currently active listings, soonest to expire first
func (s *Service) Active(ctx context.Context) ([]models.FeaturedListingView, error) {
	return s.List(ctx, Query{
		Status: string(models.StatusActive),
		SortBy: SortFeaturedUntil,
		Order:  Ascending,
	})
}

// CountByStatus tallies listings by derived status
func (s *Service) CountByStatus(ctx context.Context) (map[models.ListingStatus]int, error) {
	listings, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	counts := map[models.ListingStatus]int{
		models.StatusScheduled: 0,
		models.StatusActive:    0,
		models.StatusExpired:   0,
	}
	for _, l := range listings {
		counts[l.StatusAt(now)]++
	}
	return counts, nil
}

// RecordView increments the view counter
func (s *Service) RecordView(ctx context.Context, id string) (*models.FeaturedListingView, error) {
	return s.bump(ctx, id, func(l *models.FeaturedListing) { l.Views++ })
}

// RecordClick increments the click counter
func (s *Service) RecordClick(ctx context.Context, id string) (*models.FeaturedListingView, error) {
	return s.bump(ctx, id, func(l *models.FeaturedListing) { l.Clicks++ })
}

// bump is a read-modify-write; concurrent updates resolve as last write wins.
func (s *Service) bump(ctx context.Context, id string, apply func(*models.FeaturedListing)) (*models.FeaturedListingView, error) {
	listing, err := s.listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if listing.StatusAt(now) != models.StatusActive {
		return nil, apperrors.Conflict("featured listing is not active", nil)
	}
	apply(listing)
	listing.UpdatedAt = now
	if err := s.listings.Save(ctx, *listing); err != nil {
		return nil, err
	}
	view := listing.ViewAt(now)
	return &view, nil
}
