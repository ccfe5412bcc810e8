package models

import (
	"net/mail"
	"time"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

type Role string

const (
	RoleNone      Role = ""
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// AuthProvider names the identity provider that authenticated the user
type AuthProvider string

const (
	ProviderPassword AuthProvider = "password"
	ProviderGoogle   AuthProvider = "google"
)

// User is the board's record of an externally authenticated account
type User struct {
	ID          string       `json:"id" bson:"_id"`
	AuthID      string       `json:"authId" bson:"authId"`
	Email       string       `json:"email" bson:"email"`
	DisplayName string       `json:"displayName" bson:"displayName"`
	Provider    AuthProvider `json:"provider" bson:"provider"`
	Role        Role         `json:"role" bson:"role"`
	Paid        bool         `json:"paid" bson:"paid"`
	Suspended   bool         `json:"suspended" bson:"suspended"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

func (u User) Validate() error {
	fields := map[string]string{}
	if blank(u.ID) {
		fields["id"] = "id is required"
	}
	if blank(u.AuthID) {
		fields["authId"] = "authId is required"
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		fields["email"] = "email is invalid"
	}
	switch u.Provider {
	case ProviderPassword, ProviderGoogle:
	default:
		fields["provider"] = "provider must be password or google"
	}
	switch u.Role {
	case RoleNone, RoleJobSeeker, RoleEmployer, RoleAdmin:
	default:
		fields["role"] = "unknown role"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid user", fields)
	}
	return nil
}

// JobSeekerProfile is keyed by the owning user's id
type JobSeekerProfile struct {
	ID        string    `json:"id" bson:"_id"`
	Headline  string    `json:"headline" bson:"headline"`
	Skills    []string  `json:"skills" bson:"skills"`
	Location  string    `json:"location" bson:"location"`
	ResumeURL string    `json:"resumeUrl,omitempty" bson:"resumeUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p JobSeekerProfile) Validate() error {
	if blank(p.ID) {
		return apperrors.Validation("invalid job seeker profile", map[string]string{"id": "id is required"})
	}
	return nil
}
