package moderation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/repository"
	"github.com/ceylonworkforce/jobboard/internal/storage"
)

type MockListingCounter struct {
	mock.Mock
}

func (m *MockListingCounter) CountByStatus(ctx context.Context) (map[models.ListingStatus]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[models.ListingStatus]int)
	return counts, args.Error(1)
}

type fixture struct {
	svc     *Service
	repos   *repository.Repositories
	counter *MockListingCounter
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.New(storage.NewMemoryStorage())
	counter := new(MockListingCounter)
	f := &fixture{repos: repos, counter: counter, now: time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)}
	f.svc = NewService(repos.Reports, repos.Users, repos.Jobs, counter, events.NewEmitter(nil, zap.NewNop()), zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("report-%02d", seq)
	}

	for _, u := range []models.User{
		{ID: "seeker", AuthID: "a1", Email: "s@example.lk", Provider: models.ProviderGoogle, Role: models.RoleJobSeeker, Paid: true},
		{ID: "emp", AuthID: "a2", Email: "e@example.lk", Provider: models.ProviderPassword, Role: models.RoleEmployer, Paid: true},
		{ID: "fresh", AuthID: "a3", Email: "f@example.lk", Provider: models.ProviderPassword, Suspended: true},
	} {
		require.NoError(t, repos.Users.Save(ctx, u))
	}
	require.NoError(t, repos.Jobs.Save(ctx, models.Job{
		ID: "job-1", EmployerID: "emp", Title: "Cashier", Company: "Keells", Location: "Colombo",
		JobType: models.JobTypePartTime, Description: "Tills", Skills: []string{"Cash handling"},
	}))
	return f
}

func TestService_Submit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.Submit(ctx, SubmitInput{ReporterID: "seeker", TargetType: models.TargetJob, TargetID: "job-1", Reason: " scam "})
	require.NoError(t, err)
	assert.Equal(t, models.ReportOpen, report.Status)
	assert.Equal(t, "scam", report.Reason)

	_, err = f.svc.Submit(ctx, SubmitInput{ReporterID: "seeker", TargetType: models.TargetJob, TargetID: "job-404", Reason: "scam"})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeNotFound))

	_, err = f.svc.Submit(ctx, SubmitInput{ReporterID: "ghost", TargetType: models.TargetUser, TargetID: "emp", Reason: "rude"})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeForbidden))

	_, err = f.svc.Submit(ctx, SubmitInput{ReporterID: "seeker", TargetType: "company", TargetID: "emp", Reason: "rude"})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))

	_, err = f.svc.Submit(ctx, SubmitInput{ReporterID: "seeker", TargetType: models.TargetUser, TargetID: "emp", Reason: ""})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))
}

func TestService_ResolveAndDismiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, SubmitInput{ReporterID: "seeker", TargetType: models.TargetJob, TargetID: "job-1", Reason: "scam"})
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	second, err := f.svc.Submit(ctx, SubmitInput{ReporterID: "emp", TargetType: models.TargetUser, TargetID: "seeker", Reason: "spam"})
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(ctx, first.ID, "job removed")
	require.NoError(t, err)
	assert.Equal(t, models.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.Equal(t, f.now, *resolved.ResolvedAt)

	_, err = f.svc.Dismiss(ctx, first.ID, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeConflict))

	open, err := f.svc.List(ctx, models.ReportOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID, open[0].ID)

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	_, err = f.svc.List(ctx, "pending")
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))

	_, err = f.svc.Resolve(ctx, "missing", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeNotFound))
}

func TestService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	counts := map[models.ListingStatus]int{models.StatusActive: 2, models.StatusScheduled: 1, models.StatusExpired: 0}
	f.counter.On("CountByStatus", mock.Anything).Return(counts, nil)

	_, err := f.svc.Submit(ctx, SubmitInput{ReporterID: "seeker", TargetType: models.TargetJob, TargetID: "job-1", Reason: "scam"})
	require.NoError(t, err)

	d, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Dashboard{
		Users:       3,
		Employers:   1,
		JobSeekers:  1,
		Suspended:   1,
		Jobs:        1,
		Featured:    counts,
		OpenReports: 1,
	}, d)
	f.counter.AssertExpectations(t)
}

func TestService_Dashboard_CounterError(t *testing.T) {
	f := newFixture(t)
	f.counter.On("CountByStatus", mock.Anything).Return(nil, apperrors.Internal("failed to list featured listings", assert.AnError))

	_, err := f.svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
