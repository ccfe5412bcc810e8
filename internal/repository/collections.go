package repository

import (
	"context"
	"strings"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/models"
)

type FeaturedListings struct {
	docs docs[models.FeaturedListing]
}

func (r *FeaturedListings) Save(ctx context.Context, listing models.FeaturedListing) error {
	return r.docs.save(ctx, listing.ID, listing)
}

func (r *FeaturedListings) Get(ctx context.Context, id string) (*models.FeaturedListing, error) {
	return r.docs.get(ctx, id)
}

func (r *FeaturedListings) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *FeaturedListings) List(ctx context.Context) ([]models.FeaturedListing, error) {
	return r.docs.list(ctx)
}

type Jobs struct {
	docs docs[models.Job]
}

func (r *Jobs) Save(ctx context.Context, job models.Job) error {
	return r.docs.save(ctx, job.ID, job)
}

func (r *Jobs) Get(ctx context.Context, id string) (*models.Job, error) {
	return r.docs.get(ctx, id)
}

func (r *Jobs) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *Jobs) List(ctx context.Context) ([]models.Job, error) {
	return r.docs.list(ctx)
}

type Users struct {
	docs docs[models.User]
}

func (r *Users) Save(ctx context.Context, user models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.docs.save(ctx, user.ID, user)
}

func (r *Users) Get(ctx context.Context, id string) (*models.User, error) {
	return r.docs.get(ctx, id)
}

// GetByAuthID scans the collection; the store offers no secondary indexes.
func (r *Users) GetByAuthID(ctx context.Context, authID string) (*models.User, error) {
	users, err := r.docs.list(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].AuthID == authID {
			return &users[i], nil
		}
	}
	return nil, apperrors.NotFound("user not found", nil)
}

func (r *Users) List(ctx context.Context) ([]models.User, error) {
	return r.docs.list(ctx)
}

type JobSeekers struct {
	docs docs[models.JobSeekerProfile]
}

func (r *JobSeekers) Save(ctx context.Context, profile models.JobSeekerProfile) error {
	return r.docs.save(ctx, profile.ID, profile)
}

func (r *JobSeekers) Get(ctx context.Context, userID string) (*models.JobSeekerProfile, error) {
	return r.docs.get(ctx, userID)
}

func (r *JobSeekers) List(ctx context.Context) ([]models.JobSeekerProfile, error) {
	return r.docs.list(ctx)
}

type Reports struct {
	docs docs[models.Report]
}

func (r *Reports) Save(ctx context.Context, report models.Report) error {
	return r.docs.save(ctx, report.ID, report)
}

func (r *Reports) Get(ctx context.Context, id string) (*models.Report, error) {
	return r.docs.get(ctx, id)
}

func (r *Reports) List(ctx context.Context) ([]models.Report, error) {
	return r.docs.list(ctx)
}

type Payments struct {
	docs docs[models.Payment]
}

func (r *Payments) Save(ctx context.Context, payment models.Payment) error {
	return r.docs.save(ctx, payment.ID, payment)
}

func (r *Payments) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	all, err := r.docs.list(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Payment
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
