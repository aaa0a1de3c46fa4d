package ports

import (
	"context"

	"github.com/jobportal/portal/internal/core/domain"
)

// JobForm is the raw posting form: requirements are one per line and skills
// are comma separated.
type JobForm struct {
	CompanyName  string
	JobTitle     string
	Role         string
	Location     string
	Salary       string
	JobType      string
	Experience   string
	Description  string
	Requirements string
	Skills       string
}

// JobDraft is the normalized posting payload.
type JobDraft struct {
	CompanyName  string   `json:"companyName"  validate:"required"`
	JobTitle     string   `json:"jobTitle"     validate:"required"`
	Role         string   `json:"role"         validate:"required"`
	Location     string   `json:"location"     validate:"required"`
	Salary       string   `json:"salary"`
	JobType      string   `json:"jobType"      validate:"required,oneof=Full-time Part-time Contract Internship Freelance"`
	Experience   string   `json:"experience"   validate:"omitempty,oneof='0-1 years' '1-3 years' '3-5 years' '5-8 years' '8+ years'"`
	Description  string   `json:"description"  validate:"required"`
	Requirements []string `json:"requirements"`
	Skills       []string `json:"skills"`
}

// JobUpdate is a partial update; nil fields are left untouched.
type JobUpdate struct {
	CompanyName  *string  `json:"companyName,omitempty"`
	JobTitle     *string  `json:"jobTitle,omitempty"`
	Role         *string  `json:"role,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Salary       *string  `json:"salary,omitempty"`
	JobType      *string  `json:"jobType,omitempty"     validate:"omitempty,oneof=Full-time Part-time Contract Internship Freelance"`
	Experience   *string  `json:"experience,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	IsActive     *bool    `json:"isActive,omitempty"`
}

// JobQuery is sent as query parameters and re-applied locally.
type JobQuery struct {
	Search   string
	Location string
	JobType  string
}

// Params renders the non-empty fields as query parameters.
func (q JobQuery) Params() map[string]string {
	params := make(map[string]string, 3)
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.Location != "" {
		params["location"] = q.Location
	}
	if q.JobType != "" {
		params["jobType"] = q.JobType
	}
	return params
}

// ApplicationInput is the apply form.
type ApplicationInput struct {
	Resume      *Upload `validate:"required"`
	CoverLetter string  `json:"coverLetter" validate:"required"`
}

// StatusChange asks for one application to move to Status.
type StatusChange struct {
	ApplicationID string                   `json:"applicationId" validate:"required"`
	Status        domain.ApplicationStatus `json:"status"        validate:"required"`
}

// StatusResult is the outcome of one StatusChange.
type StatusResult struct {
	ApplicationID string                   `json:"applicationId"`
	Status        domain.ApplicationStatus `json:"status"`
	Error         string                   `json:"error,omitempty"`
}

// JobAPI is the jobs/applications resource group of the backend.
type JobAPI interface {
	PostJob(ctx context.Context, draft JobDraft) (*domain.Envelope[*domain.Job], error)
	MyJobs(ctx context.Context) (*domain.Envelope[[]domain.Job], error)
	GetJob(ctx context.Context, id string) (*domain.Envelope[*domain.Job], error)
	UpdateJob(ctx context.Context, id string, update JobUpdate) (*domain.Envelope[*domain.Job], error)
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, params map[string]string) (*domain.Envelope[[]domain.Job], error)

	Apply(ctx context.Context, jobID string, in ApplicationInput) (*domain.Envelope[*domain.Application], error)
	MyApplications(ctx context.Context) (*domain.Envelope[[]domain.Application], error)
	AllApplications(ctx context.Context) (*domain.Envelope[[]domain.Application], error)
	JobApplications(ctx context.Context, jobID string) (*domain.Envelope[[]domain.Application], error)
	UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Envelope[*domain.Application], error)
}
