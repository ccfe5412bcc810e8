package featured

import (
	"context"
	"fmt"
	"math"
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

// MockListingRepository is a mock implementation of FeaturedListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Save(ctx context.Context, listing models.FeaturedListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Get(ctx context.Context, id string) (*models.FeaturedListing, error) {
	args := m.Called(ctx, id)
	listing, _ := args.Get(0).(*models.FeaturedListing)
	return listing, args.Error(1)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) List(ctx context.Context) ([]models.FeaturedListing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]models.FeaturedListing)
	return listings, args.Error(1)
}

type fixture struct {
	svc   *Service
	repos *repository.Repositories
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.New(storage.NewMemoryStorage())
	f := &fixture{repos: repos, now: time.Date(2023, 12, 15, 12, 0, 0, 0, time.UTC)}
	f.svc = NewService(repos.Featured, repos.Jobs, events.NewEmitter(events.Noop{}, zap.NewNop()), zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("listing-%02d", seq)
	}
	return f
}

func (f *fixture) seed(t *testing.T, l models.FeaturedListing) {
	t.Helper()
	if l.Description == "" {
		l.Description = "role description"
	}
	if len(l.Skills) == 0 {
		l.Skills = []string{"Communication"}
	}
	require.NoError(t, f.repos.Featured.Save(context.Background(), l))
}

func input() CreateInput {
	return CreateInput{
		JobID:        "job-1",
		Title:        "Mobile Developer",
		Company:      "Kandy Apps",
		Location:     "Kandy",
		JobType:      "full-time",
		Description:  "Flutter apps",
		Skills:       []string{" Flutter ", "", "Dart"},
		DurationDays: 30,
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.Create(context.Background(), input())
	require.NoError(t, err)

	assert.Equal(t, "listing-01", view.ID)
	assert.Equal(t, f.now, view.FeaturedFrom)
	assert.Equal(t, f.now.AddDate(0, 0, 30), view.FeaturedUntil)
	assert.Equal(t, []string{"Flutter", "Dart"}, view.Skills)
	assert.Zero(t, view.Views)
	assert.Zero(t, view.Clicks)
	assert.Equal(t, models.StatusActive, view.Status)

	stored, err := f.repos.Featured.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.FeaturedListing, *stored)
}

func TestService_Create_LongDuration(t *testing.T) {
	f := newFixture(t)

	in := input()
	in.DurationDays = 213504
	view, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, f.now.AddDate(0, 0, 213504), view.FeaturedUntil)
	assert.Equal(t, 2608, view.FeaturedUntil.Year())

	in.DurationDays = math.MaxInt
	_, err = f.svc.Create(context.Background(), in)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))
}

func TestService_Create_RequiresFields(t *testing.T) {
	f := newFixture(t)

	in := input()
	in.Title = ""
	in.Skills = []string{"  "}
	_, err := f.svc.Create(context.Background(), in)

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, apperrors.ErrTypeInvalidInput, de.Type)
	assert.Contains(t, de.Fields, "title")
	assert.Contains(t, de.Fields, "skills")

	in = input()
	in.DurationDays = 0
	_, err = f.svc.Create(context.Background(), in)
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "durationDays")

	all, err := f.repos.Featured.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_FeatureJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Jobs.Save(ctx, models.Job{
		ID:          "job-9",
		EmployerID:  "emp-1",
		Title:       "Accountant",
		Company:     "Jaffna Traders",
		Location:    "Jaffna",
		JobType:     models.JobTypePartTime,
		Description: "Bookkeeping",
		Skills:      []string{"Excel"},
	}))

	view, err := f.svc.FeatureJob(ctx, "job-9", 7)
	require.NoError(t, err)
	assert.Equal(t, "job-9", view.JobID)
	assert.Equal(t, "Accountant", view.Title)
	assert.Equal(t, "part-time", view.JobType)
	assert.Equal(t, f.now.AddDate(0, 0, 7), view.FeaturedUntil)

	_, err = f.svc.FeatureJob(ctx, "missing", 7)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeNotFound))
}

func TestService_Extend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	f.seed(t, models.FeaturedListing{ID: "l1", Title: "t", Company: "c", Location: "l", FeaturedFrom: from, FeaturedUntil: until})

	for _, days := range []int{1, 7, 30} {
		before, err := f.repos.Featured.Get(ctx, "l1")
		require.NoError(t, err)

		view, err := f.svc.Extend(ctx, "l1", days)
		require.NoError(t, err)

		assert.Equal(t, before.FeaturedUntil.AddDate(0, 0, days), view.FeaturedUntil)
		assert.Equal(t, from, view.FeaturedFrom)
	}
}

func TestService_Extend_LongDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	until := f.now.AddDate(0, 0, 1)
	f.seed(t, models.FeaturedListing{ID: "l1", Title: "t", Company: "c", Location: "l", FeaturedFrom: f.now, FeaturedUntil: until})

	view, err := f.svc.Extend(ctx, "l1", 213504)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2608, 7, 6, 12, 0, 0, 0, time.UTC), view.FeaturedUntil)
	assert.Equal(t, models.StatusActive, view.Status)

	_, err = f.svc.Extend(ctx, "l1", math.MaxInt)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))

	stored, err := f.repos.Featured.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, view.FeaturedUntil, stored.FeaturedUntil)
}

func TestService_Extend_RejectsNonPositiveDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	until := f.now.AddDate(0, 0, 3)
	f.seed(t, models.FeaturedListing{ID: "l1", Title: "t", Company: "c", Location: "l", FeaturedFrom: f.now, FeaturedUntil: until})

	for _, days := range []int{0, -5} {
		_, err := f.svc.Extend(ctx, "l1", days)
		assert.True(t, apperrors.Is(err, apperrors.ErrTypeInvalidInput))
	}

	stored, err := f.repos.Featured.Get(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, until, stored.FeaturedUntil)
}

func TestService_Extend_ExpiredListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	from := f.now.AddDate(0, 0, -40)
	until := f.now.AddDate(0, 0, -10)
	f.seed(t, models.FeaturedListing{ID: "old", Title: "t", Company: "c", Location: "l", FeaturedFrom: from, FeaturedUntil: until})

	view, err := f.svc.Extend(ctx, "old", 5)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, view.Status)

	view, err = f.svc.Extend(ctx, "old", 10)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, view.Status)
	assert.Equal(t, f.now.AddDate(0, 0, 5), view.FeaturedUntil)
}

func TestService_Extend_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Extend(context.Background(), "nope", 3)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeNotFound))
}

func TestService_Remove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, models.FeaturedListing{ID: "l1", Title: "t", Company: "c", Location: "l", FeaturedFrom: f.now, FeaturedUntil: f.now.Add(time.Hour)})

	require.NoError(t, f.svc.Remove(ctx, "l1"))
	_, err := f.svc.Get(ctx, "l1")
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeNotFound))
	assert.True(t, apperrors.Is(f.svc.Remove(ctx, "l1"), apperrors.ErrTypeNotFound))
}

func (f *fixture) seedMixed(t *testing.T) {
	t.Helper()
	f.seed(t, models.FeaturedListing{
		ID: "a", Title: "Go Developer", Company: "Colombo Cloud", Location: "Colombo",
		Skills: []string{"Go", "Kubernetes"}, Views: 50, Clicks: 5,
		FeaturedFrom: f.now.AddDate(0, 0, -5), FeaturedUntil: f.now.AddDate(0, 0, 5),
	})
	f.seed(t, models.FeaturedListing{
		ID: "b", Title: "Nurse", Company: "Kandy Hospital", Location: "Kandy",
		Skills: []string{"Patient care"}, Views: 10, Clicks: 9,
		FeaturedFrom: f.now.AddDate(0, 0, 2), FeaturedUntil: f.now.AddDate(0, 0, 20),
	})
	f.seed(t, models.FeaturedListing{
		ID: "c", Title: "Tour Guide", Company: "Galle Tours", Location: "Galle",
		Skills: []string{"English", "golf"}, Views: 30, Clicks: 1,
		FeaturedFrom: f.now.AddDate(0, 0, -30), FeaturedUntil: f.now.AddDate(0, 0, -1),
	})
}

func ids(views []models.FeaturedListingView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	f.seedMixed(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		search string
		status string
		sortBy string
		order  string
		want   []string
	}{
		{"defaults newest first", "", "", "", "", []string{"b", "a", "c"}},
		{"search skill case-insensitively", "GO", "", "", "asc", []string{"c", "a"}},
		{"search company", "kandy hospital", "all", "", "", []string{"b"}},
		{"search location", "galle", "", "", "", []string{"c"}},
		{"active only", "", "active", "", "", []string{"a"}},
		{"scheduled only", "", "scheduled", "", "", []string{"b"}},
		{"expired only", "", "EXPIRED", "", "", []string{"c"}},
		{"views descending", "", "all", "views", "desc", []string{"a", "c", "b"}},
		{"clicks ascending", "", "all", "clicks", "asc", []string{"c", "a", "b"}},
		{"until ascending", "", "all", "featuredUntil", "asc", []string{"c", "a", "b"}},
		{"search and status", "go", "expired", "", "", []string{"c"}},
		{"no match", "plumber", "", "", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.search, tt.status, tt.sortBy, tt.order)
			require.NoError(t, err)

			got, err := f.svc.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestParseQuery_Invalid(t *testing.T) {
	_, err := ParseQuery("", "pending", "salary", "sideways")

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "status")
	assert.Contains(t, de.Fields, "sortBy")
	assert.Contains(t, de.Fields, "order")
}

func TestParseQuery_IgnoresCase(t *testing.T) {
	tests := []struct {
		sortBy string
		want   SortField
	}{
		{"Views", SortViews},
		{"CLICKS", SortClicks},
		{"featureduntil", SortFeaturedUntil},
		{" FeaturedFrom ", SortFeaturedFrom},
		{"", SortFeaturedFrom},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			q, err := ParseQuery("", "Active", tt.sortBy, "ASC")
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.SortBy)
			assert.Equal(t, "active", q.Status)
			assert.Equal(t, Ascending, q.Order)
		})
	}
}

func TestQuery_ApplyIsStable(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	listings := []models.FeaturedListing{
		{ID: "x", Views: 3, FeaturedFrom: now, FeaturedUntil: now.Add(time.Hour)},
		{ID: "y", Views: 3, FeaturedFrom: now, FeaturedUntil: now.Add(time.Hour)},
		{ID: "z", Views: 1, FeaturedFrom: now, FeaturedUntil: now.Add(time.Hour)},
	}

	got := Query{Status: StatusAll, SortBy: SortViews, Order: Descending}.Apply(listings, now)
	assert.Equal(t, []string{"x", "y", "z"}, ids(got))
	assert.Equal(t, "x", listings[0].ID)
}

func TestService_ActiveAndCounts(t *testing.T) {
	f := newFixture(t)
	f.seedMixed(t)
	ctx := context.Background()

	active, err := f.svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(active))

	counts, err := f.svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.ListingStatus]int{
		models.StatusActive:    1,
		models.StatusScheduled: 1,
		models.StatusExpired:   1,
	}, counts)
}

func TestService_RecordViewAndClick(t *testing.T) {
	f := newFixture(t)
	f.seedMixed(t)
	ctx := context.Background()

	view, err := f.svc.RecordView(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 51, view.Views)

	view, err = f.svc.RecordClick(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 6, view.Clicks)
	assert.EqualValues(t, 51, view.Views)

	_, err = f.svc.RecordClick(ctx, "c")
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeConflict))
}

func TestService_StatusAcrossTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, models.FeaturedListing{
		ID: "dec", Title: "t", Company: "c", Location: "l",
		FeaturedFrom:  time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		FeaturedUntil: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	})

	f.now = time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	view, err := f.svc.Get(ctx, "dec")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, view.Status)

	f.now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	view, err = f.svc.Get(ctx, "dec")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, view.Status)
}

func TestService_Create_StorageError(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("models.FeaturedListing")).
		Return(apperrors.Internal("failed to save featured listing", assert.AnError))

	svc := NewService(repo, nil, events.NewEmitter(nil, zap.NewNop()), zap.NewNop())
	_, err := svc.Create(context.Background(), input())

	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, apperrors.Is(err, apperrors.ErrTypeInternal))
	repo.AssertExpectations(t)
}

func TestService_List_StorageError(t *testing.T) {
	repo := new(MockListingRepository)
	repo.On("List", mock.Anything).Return(nil, apperrors.Unavailable("failed to list featured listings", context.DeadlineExceeded))

	svc := NewService(repo, nil, events.NewEmitter(nil, zap.NewNop()), zap.NewNop())
	_, err := svc.List(context.Background(), Query{Status: StatusAll})

	assert.True(t, apperrors.Is(err, apperrors.ErrTypeUnavailable))
	repo.AssertExpectations(t)
}
