package jobs

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/cache"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/repository"
)

// Service handles job postings
type Service struct {
	jobs     repository.JobRepository
	users    repository.UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
	events   *events.Emitter
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a new job service
func NewService(jobs repository.JobRepository, users repository.UserRepository, c cache.Cache, cacheTTL time.Duration, emitter *events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		jobs:     jobs,
		users:    users,
		cache:    c,
		cacheTTL: cacheTTL,
		events:   emitter,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// PostInput is what an employer submits
type PostInput struct {
	EmployerID  string
	Title       string
	Company     string
	Location    string
	JobType     models.JobType
	Description string
	Skills      []string
	Salary      string
}

// BrowseQuery filters the public job list
type BrowseQuery struct {
	Search     string
	JobType    models.JobType
	EmployerID string
}

func cacheKey(id string) string {
	return "job:" + id
}

// Post validates and stores a new job for an active employer
func (s *Service) Post(ctx context.Context, in PostInput) (*models.Job, error) {
	return s.post(ctx, s.newID(), in)
}

// Import stores a job from an external feed under an id derived from
// source and externalID. A job already imported under that id is returned
// unchanged with created set to false.
func (s *Service) Import(ctx context.Context, source, externalID string, in PostInput) (*models.Job, bool, error) {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"#"+externalID)).String()
	existing, err := s.jobs.Get(ctx, id)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.Is(err, apperrors.ErrTypeNotFound) {
		return nil, false, err
	}
	job, err := s.post(ctx, id, in)
	if err != nil {
		return nil, false, err
	}
	return job, true, nil
}

func (s *Service) post(ctx context.Context, id string, in PostInput) (*models.Job, error) {
	employer, err := s.users.Get(ctx, in.EmployerID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTypeNotFound) {
			return nil, apperrors.Forbidden("employer account not found", err)
		}
		return nil, err
	}
	if employer.Role != models.RoleEmployer {
		return nil, apperrors.Forbidden("only employers can post jobs", nil)
	}
	if employer.Suspended {
		return nil, apperrors.Forbidden("employer account is suspended", nil)
	}

	now := s.now().UTC()
	job := models.Job{
		ID:          id,
		EmployerID:  employer.ID,
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		JobType:     models.JobType(strings.ToLower(strings.TrimSpace(string(in.JobType)))),
		Description: strings.TrimSpace(in.Description),
		Skills:      models.CleanSkills(in.Skills),
		Salary:      strings.TrimSpace(in.Salary),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job posted", zap.String("id", job.ID), zap.String("employer_id", job.EmployerID))
	s.events.Emit(ctx, events.JobPosted, job.ID, map[string]string{"employer_id": job.EmployerID})
	return &job, nil
}

// Get returns a job, served from cache when possible
func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	var cached models.Job
	err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		s.logger.Warn("job cache read failed", zap.String("id", id), zap.Error(err))
	}

	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey(id), *job, s.cacheTTL); err != nil {
		s.logger.Warn("job cache write failed", zap.String("id", id), zap.Error(err))
	}
	return job, nil
}

// Browse returns jobs matching q, newest first
func (s *Service) Browse(ctx context.Context, q BrowseQuery) ([]models.Job, error) {
	all, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	jobType := models.JobType(strings.ToLower(strings.TrimSpace(string(q.JobType))))
	if jobType != "" && !jobType.Valid() {
		return nil, apperrors.Validation("invalid job query", map[string]string{"jobType": "unknown job type"})
	}

	out := make([]models.Job, 0, len(all))
	employerID := strings.TrimSpace(q.EmployerID)
	for _, j := range all {
		if jobType != "" && j.JobType != jobType {
			continue
		}
		if employerID != "" && j.EmployerID != employerID {
			continue
		}
		if !j.Matches(q.Search) {
			continue
		}
		out = append(out, j)
	}
	slices.SortStableFunc(out, func(a, b models.Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// ListByEmployer returns the jobs posted by one employer, newest first
func (s *Service) ListByEmployer(ctx context.Context, employerID string) ([]models.Job, error) {
	return s.Browse(ctx, BrowseQuery{EmployerID: employerID})
}

// Count returns the number of stored jobs
func (s *Service) Count(ctx context.Context) (int, error) {
	all, err := s.jobs.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Delete removes a job. Employers may delete only their own postings;
// an empty actorID means an admin action.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	if actorID != "" && job.EmployerID != actorID {
		return apperrors.Forbidden("job belongs to another employer", nil)
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("job cache invalidation failed", zap.String("id", id), zap.Error(err))
	}

	s.logger.Info("job deleted", zap.String("id", id))
	s.events.Emit(ctx, events.JobDeleted, id, nil)
	return nil
}

// Exists reports whether a job with id is stored
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.jobs.Get(ctx, id)
	if apperrors.Is(err, apperrors.ErrTypeNotFound) {
		return false, nil
	}
	return err == nil, err
}
