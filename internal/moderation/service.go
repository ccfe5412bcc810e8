package moderation

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/repository"
)

// ListingCounter reports featured listings per derived status
type ListingCounter interface {
	CountByStatus(ctx context.Context) (map[models.ListingStatus]int, error)
}

// Service handles user reports and the admin dashboard
type Service struct {
	reports  repository.ReportRepository
	users    repository.UserRepository
	jobs     repository.JobRepository
	featured ListingCounter
	events   *events.Emitter
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewService(reports repository.ReportRepository, users repository.UserRepository, jobs repository.JobRepository, featured ListingCounter, emitter *events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		reports:  reports,
		users:    users,
		jobs:     jobs,
		featured: featured,
		events:   emitter,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

type SubmitInput struct {
	ReporterID string
	TargetType models.ReportTarget
	TargetID   string
	Reason     string
}

// Submit files an open report against an existing job or user
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.Report, error) {
	if _, err := s.users.Get(ctx, in.ReporterID); err != nil {
		if apperrors.Is(err, apperrors.ErrTypeNotFound) {
			return nil, apperrors.Forbidden("reporter account not found", err)
		}
		return nil, err
	}

	var err error
	switch in.TargetType {
	case models.TargetJob:
		_, err = s.jobs.Get(ctx, in.TargetID)
	case models.TargetUser:
		_, err = s.users.Get(ctx, in.TargetID)
	default:
		return nil, apperrors.Validation("invalid report", map[string]string{"targetType": "targetType must be job or user"})
	}
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ID:         s.newID(),
		ReporterID: in.ReporterID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Reason:     strings.TrimSpace(in.Reason),
		Status:     models.ReportOpen,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("report submitted",
		zap.String("id", report.ID),
		zap.String("target_type", string(report.TargetType)),
		zap.String("target_id", report.TargetID))
	s.events.Emit(ctx, events.ReportSubmitted, report.ID, map[string]string{"target_type": string(report.TargetType)})
	return &report, nil
}

// List returns reports newest first, optionally restricted to one status
func (s *Service) List(ctx context.Context, status models.ReportStatus) ([]models.Report, error) {
	switch status {
	case "", models.ReportOpen, models.ReportResolved, models.ReportDismissed:
	default:
		return nil, apperrors.Validation("invalid report query", map[string]string{"status": "status must be open, resolved, or dismissed"})
	}

	all, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Report, 0, len(all))
	for _, r := range all {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Report) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (s *Service) Resolve(ctx context.Context, id, note string) (*models.Report, error) {
	return s.close(ctx, id, note, models.ReportResolved)
}

func (s *Service) Dismiss(ctx context.Context, id, note string) (*models.Report, error) {
	return s.close(ctx, id, note, models.ReportDismissed)
}

func (s *Service) close(ctx context.Context, id, note string, status models.ReportStatus) (*models.Report, error) {
	report, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportOpen {
		return nil, apperrors.Conflict("report is already "+string(report.Status), nil)
	}

	now := s.now().UTC()
	report.Status = status
	report.Note = strings.TrimSpace(note)
	report.ResolvedAt = &now
	if err := s.reports.Save(ctx, *report); err != nil {
		return nil, err
	}

	s.logger.Info("report closed", zap.String("id", id), zap.String("status", string(status)))
	s.events.Emit(ctx, events.ReportClosed, id, map[string]string{"status": string(status)})
	return report, nil
}

// Dashboard is the admin console summary
type Dashboard struct {
	Users       int                          `json:"users"`
	Employers   int                          `json:"employers"`
	JobSeekers  int                          `json:"jobSeekers"`
	Suspended   int                          `json:"suspended"`
	Jobs        int                          `json:"jobs"`
	Featured    map[models.ListingStatus]int `json:"featured"`
	OpenReports int                          `json:"openReports"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	featured, err := s.featured.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Users: len(users), Jobs: len(jobs), Featured: featured}
	for _, u := range users {
		switch u.Role {
		case models.RoleEmployer:
			d.Employers++
		case models.RoleJobSeeker:
			d.JobSeekers++
		}
		if u.Suspended {
			d.Suspended++
		}
	}
	for _, r := range reports {
		if r.Status == models.ReportOpen {
			d.OpenReports++
		}
	}
	return d, nil
}
