package jobs

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
	"github.com/ceylonworkforce/jobboard/internal/cache"
	"github.com/ceylonworkforce/jobboard/internal/cache/memory"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/repository"
	"github.com/ceylonworkforce/jobboard/internal/storage"
)

// MockJobRepository counts store reads so cache hits can be asserted
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Save(ctx context.Context, job models.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *MockJobRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepository) List(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]models.Job)
	return jobs, args.Error(1)
}

type fixture struct {
	svc   *Service
	repos *repository.Repositories
	cache *memory.Cache
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.New(storage.NewMemoryStorage())
	c := memory.New(cache.Options{DefaultTTL: time.Minute})
	t.Cleanup(func() { c.Close() })

	f := &fixture{repos: repos, cache: c, now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	f.svc = NewService(repos.Jobs, repos.Users, c, time.Minute, events.NewEmitter(nil, zap.NewNop()), zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("job-%02d", seq)
	}

	ctx := context.Background()
	require.NoError(t, repos.Users.Save(ctx, models.User{ID: "emp", AuthID: "a1", Email: "hr@lanka.lk", Provider: models.ProviderPassword, Role: models.RoleEmployer, Paid: true}))
	require.NoError(t, repos.Users.Save(ctx, models.User{ID: "seeker", AuthID: "a2", Email: "s@lanka.lk", Provider: models.ProviderGoogle, Role: models.RoleJobSeeker, Paid: true}))
	require.NoError(t, repos.Users.Save(ctx, models.User{ID: "banned", AuthID: "a3", Email: "b@lanka.lk", Provider: models.ProviderPassword, Role: models.RoleEmployer, Paid: true, Suspended: true}))
	return f
}

func postInput() PostInput {
	return PostInput{
		EmployerID:  "emp",
		Title:       " Site Engineer ",
		Company:     "Lanka Build",
		Location:    "Negombo",
		JobType:     "Full-Time",
		Description: "Supervise construction",
		Skills:      []string{"AutoCAD", " "},
		Salary:      "LKR 250,000",
	}
}

func TestService_Post(t *testing.T) {
	f := newFixture(t)

	job, err := f.svc.Post(context.Background(), postInput())
	require.NoError(t, err)

	assert.Equal(t, "job-01", job.ID)
	assert.Equal(t, "Site Engineer", job.Title)
	assert.Equal(t, models.JobTypeFullTime, job.JobType)
	assert.Equal(t, []string{"AutoCAD"}, job.Skills)
	assert.Equal(t, f.now, job.CreatedAt)
}

func TestService_Post_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, employer := range []string{"seeker", "banned", "ghost"} {
		in := postInput()
		in.EmployerID = employer
		_, err := f.svc.Post(ctx, in)
		assert.True(t, apperrors.Is(err, apperrors.ErrTypeForbidden), employer)
	}

	in := postInput()
	in.JobType = "gig"
	in.Description = ""
	_, err := f.svc.Post(ctx, in)
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "jobType")
	assert.Contains(t, de.Fields, "description")
}

func TestService_Browse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Post(ctx, postInput())
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	in := postInput()
	in.Title = "Remote Python Developer"
	in.JobType = models.JobTypeRemote
	in.Skills = []string{"Python", "Django"}
	second, err := f.svc.Post(ctx, in)
	require.NoError(t, err)

	all, err := f.svc.Browse(ctx, BrowseQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)

	remote, err := f.svc.Browse(ctx, BrowseQuery{JobType: "remote"})
	require.NoError(t, err)
	require.Len(t, remote, 1)
	assert.Equal(t, second.ID, remote[0].ID)

	bySkill, err := f.svc.Browse(ctx, BrowseQuery{Search: "django"})
	require.NoError(t, err)
	require.Len(t, bySkill, 1)

	_, err = f.svc.Browse(ctx, BrowseQuery{JobType: "seasonal"})
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))

	mine, err := f.svc.ListByEmployer(ctx, "emp")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	count, err := f.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_Browse_CombinesEmployerFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Users.Save(ctx, models.User{ID: "emp2", AuthID: "a4", Email: "jobs@kandy.lk", Provider: models.ProviderGoogle, Role: models.RoleEmployer, Paid: true}))

	site, err := f.svc.Post(ctx, postInput())
	require.NoError(t, err)

	in := postInput()
	in.Title = "Remote Python Developer"
	in.JobType = models.JobTypeRemote
	in.Skills = []string{"Python"}
	_, err = f.svc.Post(ctx, in)
	require.NoError(t, err)

	in = postInput()
	in.EmployerID = "emp2"
	_, err = f.svc.Post(ctx, in)
	require.NoError(t, err)

	got, err := f.svc.Browse(ctx, BrowseQuery{EmployerID: "emp", Search: "autocad", JobType: "full-time"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, site.ID, got[0].ID)

	got, err = f.svc.Browse(ctx, BrowseQuery{EmployerID: "emp2", JobType: "remote"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.svc.Browse(ctx, BrowseQuery{Search: "site engineer"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Get_UsesCache(t *testing.T) {
	ctx := context.Background()
	job := &models.Job{ID: "j1", Title: "Driver", Skills: []string{"Licence"}}

	repo := new(MockJobRepository)
	repo.On("Get", mock.Anything, "j1").Return(job, nil).Once()

	c := memory.New(cache.Options{})
	defer c.Close()
	svc := NewService(repo, nil, c, time.Minute, events.NewEmitter(nil, zap.NewNop()), zap.NewNop())

	got, err := svc.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Driver", got.Title)

	got, err = svc.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "Driver", got.Title)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "Get", 1)
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	job, err := f.svc.Post(ctx, postInput())
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, job.ID)
	require.NoError(t, err)

	assert.True(t, apperrors.Is(f.svc.Delete(ctx, job.ID, "someone-else"), apperrors.ErrTypeForbidden))

	require.NoError(t, f.svc.Delete(ctx, job.ID, "emp"))

	var cached models.Job
	assert.ErrorIs(t, f.cache.Get(ctx, cacheKey(job.ID), &cached), cache.ErrNotFound)

	_, err = f.svc.Get(ctx, job.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeNotFound))

	exists, err := f.svc.Exists(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_Import_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.svc.Import(ctx, "https://partner.lk/feed", "ext-7", postInput())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "job-01", first.ID)

	again, created, err := f.svc.Import(ctx, "https://partner.lk/feed", "ext-7", postInput())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	other, created, err := f.svc.Import(ctx, "https://other.lk/feed", "ext-7", postInput())
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)

	count, err := f.svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
