package repository

import (
	"context"
	"errors"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/storage"
)

type FeaturedListingRepository interface {
	Save(ctx context.Context, listing models.FeaturedListing) error
	Get(ctx context.Context, id string) (*models.FeaturedListing, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.FeaturedListing, error)
}

type JobRepository interface {
	Save(ctx context.Context, job models.Job) error
	Get(ctx context.Context, id string) (*models.Job, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Job, error)
}

type UserRepository interface {
	Save(ctx context.Context, user models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByAuthID(ctx context.Context, authID string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type JobSeekerRepository interface {
	Save(ctx context.Context, profile models.JobSeekerProfile) error
	Get(ctx context.Context, userID string) (*models.JobSeekerProfile, error)
	List(ctx context.Context) ([]models.JobSeekerProfile, error)
}

type ReportRepository interface {
	Save(ctx context.Context, report models.Report) error
	Get(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context) ([]models.Report, error)
}

type PaymentRepository interface {
	Save(ctx context.Context, payment models.Payment) error
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
}

// Repositories bundles the typed repositories backed by one storage
type Repositories struct {
	Featured   FeaturedListingRepository
	Jobs       JobRepository
	Users      UserRepository
	JobSeekers JobSeekerRepository
	Reports    ReportRepository
	Payments   PaymentRepository
}

// New builds every repository on top of store
func New(store storage.Storage) *Repositories {
	return &Repositories{
		Featured:   &FeaturedListings{docs: newDocs[models.FeaturedListing](store, models.CollectionFeaturedListings, "featured listing")},
		Jobs:       &Jobs{docs: newDocs[models.Job](store, models.CollectionJobs, "job")},
		Users:      &Users{docs: newDocs[models.User](store, models.CollectionUsers, "user")},
		JobSeekers: &JobSeekers{docs: newDocs[models.JobSeekerProfile](store, models.CollectionJobSeekers, "job seeker profile")},
		Reports:    &Reports{docs: newDocs[models.Report](store, models.CollectionReports, "report")},
		Payments:   &Payments{docs: newDocs[models.Payment](store, models.CollectionPayments, "payment")},
	}
}

type validatable interface {
	Validate() error
}

// docs is the typed view over one collection shared by all repositories
type docs[T validatable] struct {
	coll storage.Collection
	kind string
}

func newDocs[T validatable](store storage.Storage, collection, kind string) docs[T] {
	return docs[T]{coll: store.Collection(collection), kind: kind}
}

func (d docs[T]) save(ctx context.Context, id string, doc T) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := d.coll.Put(ctx, id, doc); err != nil {
		return d.wrap("failed to save "+d.kind, err)
	}
	return nil
}

func (d docs[T]) get(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := d.coll.Get(ctx, id, &doc); err != nil {
		return nil, d.wrap("failed to load "+d.kind, err)
	}
	return &doc, nil
}

func (d docs[T]) delete(ctx context.Context, id string) error {
	if err := d.coll.Delete(ctx, id); err != nil {
		return d.wrap("failed to delete "+d.kind, err)
	}
	return nil
}

func (d docs[T]) list(ctx context.Context) ([]T, error) {
	var out []T
	if err := d.coll.List(ctx, &out); err != nil {
		return nil, d.wrap("failed to list "+d.kind+"s", err)
	}
	return out, nil
}

func (d docs[T]) wrap(message string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NotFound(d.kind+" not found", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Unavailable(message, err)
	default:
		return apperrors.Internal(message, err)
	}
}
