package accounts

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/events"
	"github.com/ceylonworkforce/jobboard/internal/models"
	"github.com/ceylonworkforce/jobboard/internal/repository"
)

// Service covers onboarding: registration, the onboarding payment, role
// selection and the job seeker profile.
type Service struct {
	users      repository.UserRepository
	jobSeekers repository.JobSeekerRepository
	payments   repository.PaymentRepository
	currency   string
	events     *events.Emitter
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
}

func NewService(users repository.UserRepository, jobSeekers repository.JobSeekerRepository, payments repository.PaymentRepository, currency string, emitter *events.Emitter, logger *zap.Logger) *Service {
	return &Service{
		users:      users,
		jobSeekers: jobSeekers,
		payments:   payments,
		currency:   currency,
		events:     emitter,
		logger:     logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

type RegisterInput struct {
	AuthID      string
	Email       string
	DisplayName string
	Provider    models.AuthProvider
}

// Register stores the user record for an identity provider account.
// Registering the same AuthID again returns the existing record.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, bool, error) {
	authID := strings.TrimSpace(in.AuthID)
	if authID == "" {
		return nil, false, apperrors.Validation("invalid user", map[string]string{"authId": "authId is required"})
	}
	existing, err := s.users.GetByAuthID(ctx, authID)
	if err == nil {
		return existing, false, nil
	}
	if !apperrors.Is(err, apperrors.ErrTypeNotFound) {
		return nil, false, err
	}

	now := s.now().UTC()
	user := models.User{
		ID:          s.newID(),
		AuthID:      authID,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Provider:    in.Provider,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, false, err
	}

	s.logger.Info("user registered", zap.String("id", user.ID), zap.String("provider", string(user.Provider)))
	s.events.Emit(ctx, events.UserRegistered, user.ID, nil)
	return &user, true, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// RecordPayment stores a succeeded onboarding payment and marks the user
// paid. The payment gateway is mocked; every positive amount succeeds.
func (s *Service) RecordPayment(ctx context.Context, userID string, amount int64, currency string) (*models.Payment, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Suspended {
		return nil, apperrors.Forbidden("account is suspended", nil)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.currency
	}

	now := s.now().UTC()
	id := s.newID()
	ref := strings.ReplaceAll(id, "-", "")
	if len(ref) > 12 {
		ref = ref[:12]
	}
	payment := models.Payment{
		ID:        id,
		UserID:    user.ID,
		Amount:    amount,
		Currency:  currency,
		Reference: "mock_" + ref,
		Status:    models.PaymentSucceeded,
		CreatedAt: now,
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	if !user.Paid {
		user.Paid = true
		user.UpdatedAt = now
		if err := s.users.Save(ctx, *user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("payment recorded",
		zap.String("user_id", user.ID),
		zap.Int64("amount", amount),
		zap.String("currency", currency))
	s.events.Emit(ctx, events.PaymentRecorded, payment.ID, map[string]string{
		"user_id": user.ID,
		"amount":  strconv.FormatInt(amount, 10),
	})
	return &payment, nil
}

func (s *Service) Payments(ctx context.Context, userID string) ([]models.Payment, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.payments.ListByUser(ctx, userID)
}

// SelectRole sets the role of a paid user once. Admin cannot be self-selected.
func (s *Service) SelectRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	switch role {
	case models.RoleJobSeeker, models.RoleEmployer:
	default:
		return nil, apperrors.Validation("invalid role", map[string]string{"role": "role must be jobseeker or employer"})
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Suspended {
		return nil, apperrors.Forbidden("account is suspended", nil)
	}
	if !user.Paid {
		return nil, apperrors.Forbidden("onboarding payment is required before selecting a role", nil)
	}
	if user.Role != models.RoleNone {
		return nil, apperrors.Conflict("role already selected", nil)
	}

	now := s.now().UTC()
	user.Role = role
	user.UpdatedAt = now
	if err := s.users.Save(ctx, *user); err != nil {
		return nil, err
	}
	if role == models.RoleJobSeeker {
		if err := s.jobSeekers.Save(ctx, models.JobSeekerProfile{ID: user.ID, Skills: []string{}, UpdatedAt: now}); err != nil {
			return nil, err
		}
	}

	s.logger.Info("role selected", zap.String("user_id", user.ID), zap.String("role", string(role)))
	s.events.Emit(ctx, events.UserRoleSelected, user.ID, map[string]string{"role": string(role)})
	return user, nil
}

type ProfileInput struct {
	Headline  string
	Skills    []string
	Location  string
	ResumeURL string
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*models.JobSeekerProfile, error) {
	return s.jobSeekers.Get(ctx, userID)
}

// UpdateProfile replaces the job seeker profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*models.JobSeekerProfile, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleJobSeeker {
		return nil, apperrors.Forbidden("only job seekers have a profile", nil)
	}

	profile := models.JobSeekerProfile{
		ID:        user.ID,
		Headline:  strings.TrimSpace(in.Headline),
		Skills:    models.CleanSkills(in.Skills),
		Location:  strings.TrimSpace(in.Location),
		ResumeURL: strings.TrimSpace(in.ResumeURL),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.jobSeekers.Save(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetSuspended blocks or unblocks a user. Admin accounts cannot be suspended.
func (s *Service) SetSuspended(ctx context.Context, userID string, suspended bool) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin && suspended {
		return nil, apperrors.Forbidden("admin accounts cannot be suspended", nil)
	}
	if user.Suspended == suspended {
		return user, nil
	}
	user.Suspended = suspended
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Save(ctx, *user); err != nil {
		return nil, err
	}
	s.logger.Info("user suspension changed", zap.String("user_id", user.ID), zap.Bool("suspended", suspended))
	return user, nil
}
