package models

import (
	"encoding/json"
	"time"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
)

// JobType is the employment arrangement of a posting
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

// Valid reports whether t is one of the known job types
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeRemote:
		return true
	}
	return false
}

// Job is a posting created by an employer
type Job struct {
	ID          string    `json:"id" bson:"_id"`
	EmployerID  string    `json:"employerId" bson:"employerId"`
	Title       string    `json:"title" bson:"title"`
	Company     string    `json:"company" bson:"company"`
	Location    string    `json:"location" bson:"location"`
	JobType     JobType   `json:"jobType" bson:"jobType"`
	Description string    `json:"description" bson:"description"`
	Skills      []string  `json:"skills" bson:"skills"`
	Salary      string    `json:"salary,omitempty" bson:"salary,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Matches reports whether title, company, location or any skill contains query
func (j Job) Matches(query string) bool {
	return matchesQuery(query, j.Skills, j.Title, j.Company, j.Location)
}

// Validate checks the fields required for a job to be stored
func (j Job) Validate() error {
	fields := map[string]string{}
	if blank(j.ID) {
		fields["id"] = "id is required"
	}
	if blank(j.EmployerID) {
		fields["employerId"] = "employerId is required"
	}
	if blank(j.Title) {
		fields["title"] = "title is required"
	}
	if blank(j.Company) {
		fields["company"] = "company is required"
	}
	if blank(j.Location) {
		fields["location"] = "location is required"
	}
	if blank(j.Description) {
		fields["description"] = "description is required"
	}
	if !j.JobType.Valid() {
		fields["jobType"] = "jobType must be full-time, part-time, contract, internship, or remote"
	}
	if len(CleanSkills(j.Skills)) == 0 {
		fields["skills"] = "at least one skill is required"
	}
	if len(fields) > 0 {
		return apperrors.Validation("invalid job", fields)
	}
	return nil
}

// MarshalBinary lets a job be stored in a cache as JSON
func (j Job) MarshalBinary() ([]byte, error) {
	return json.Marshal(j)
}

// UnmarshalBinary restores a job written by MarshalBinary
func (j *Job) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, j)
}
