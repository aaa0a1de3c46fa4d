package ports

import (
	"context"

	"github.com/jobportal/portal/internal/core/domain"
)

// AuthService is the session orchestrator: it is the only component that
// moves the session store between empty and populated.
type AuthService interface {
	Login(ctx context.Context, role domain.Role, creds Credentials) (*domain.Session, error)
	Register(ctx context.Context, role domain.Role, reg Registration) (*domain.Session, error)
	Logout(ctx context.Context)
	State(ctx context.Context) domain.AuthState
	CurrentUser(ctx context.Context) (*domain.Identity, error)

	Profile(ctx context.Context) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.Identity, error)
	UploadProfilePic(ctx context.Context, file Upload) (string, error)
}

// JobService covers postings and applications.
type JobService interface {
	PostJob(ctx context.Context, form JobForm) (*domain.Job, error)
	UpdateJob(ctx context.Context, id string, update JobUpdate) (*domain.Job, error)
	SetJobActive(ctx context.Context, id string, active bool) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) error
	MyJobs(ctx context.Context) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context, query JobQuery) ([]domain.Job, error)

	Apply(ctx context.Context, jobID string, in ApplicationInput) (*domain.Application, error)
	MyApplications(ctx context.Context) ([]domain.Application, error)
	AllApplications(ctx context.Context) ([]domain.Application, error)
	JobApplications(ctx context.Context, jobID string) ([]domain.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error)
	UpdateApplicationStatuses(ctx context.Context, changes []StatusChange) []StatusResult
}

// StatusDispatcher applies a batch of status changes, possibly in parallel.
// Changes to the same application must be applied in submission order.
// Results are returned in submission order.
type StatusDispatcher interface {
	Dispatch(ctx context.Context, changes []StatusChange, apply func(context.Context, StatusChange) error) []StatusResult
}
