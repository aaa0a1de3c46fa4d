package apiclient

import (
	"context"
	"net/http"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

const (
	routeAdminJobs      = "/api/admin/jobs"
	routeAdminMyJobs    = "/api/admin/jobs/my-jobs"
	routeAdminJob       = "/api/admin/jobs/{id}"
	routeAdminJobApps   = "/api/admin/jobs/{id}/applications"
	routeAdminApps      = "/api/admin/applications"
	routeAdminAppStatus = "/api/admin/applications/{id}/status"
	routePublicJobs     = "/api/jobs"
	routePublicJob      = "/api/jobs/{id}"
	routeApply          = "/api/applications/{jobId}"
	routeMyApplications = "/api/applications/my-applications"
)

// JobAPI talks to the postings and applications endpoints.
type JobAPI struct {
	client *Client
}

// NewJobAPI wraps client, which should be built with UploadTimeout.
func NewJobAPI(client *Client) *JobAPI {
	return &JobAPI{client: client}
}

func (a *JobAPI) PostJob(ctx context.Context, draft ports.JobDraft) (*domain.Envelope[*domain.Job], error) {
	return call[*domain.Job](ctx, a.client, http.MethodPost, routeAdminJobs, withBody(draft))
}

func (a *JobAPI) MyJobs(ctx context.Context) (*domain.Envelope[[]domain.Job], error) {
	return call[[]domain.Job](ctx, a.client, http.MethodGet, routeAdminMyJobs)
}

func (a *JobAPI) GetJob(ctx context.Context, id string) (*domain.Envelope[*domain.Job], error) {
	return call[*domain.Job](ctx, a.client, http.MethodGet, routePublicJob, withPathParam("id", id))
}

func (a *JobAPI) UpdateJob(ctx context.Context, id string, update ports.JobUpdate) (*domain.Envelope[*domain.Job], error) {
	return call[*domain.Job](ctx, a.client, http.MethodPut, routeAdminJob, withPathParam("id", id), withBody(update))
}

func (a *JobAPI) DeleteJob(ctx context.Context, id string) error {
	return a.client.send(ctx, http.MethodDelete, routeAdminJob, nil, withPathParam("id", id))
}

func (a *JobAPI) ListJobs(ctx context.Context, params map[string]string) (*domain.Envelope[[]domain.Job], error) {
	return call[[]domain.Job](ctx, a.client, http.MethodGet, routePublicJobs, withQuery(params))
}

// Apply sends the resume as the "resume" part and the cover letter as a
// plain form field.
func (a *JobAPI) Apply(ctx context.Context, jobID string, in ports.ApplicationInput) (*domain.Envelope[*domain.Application], error) {
	if in.Resume == nil {
		return nil, domain.ValidationError("Please upload your resume")
	}
	return call[*domain.Application](ctx, a.client, http.MethodPost, routeApply,
		withPathParam("jobId", jobID),
		withFile("resume", *in.Resume),
		withFormField("coverLetter", in.CoverLetter),
	)
}

func (a *JobAPI) MyApplications(ctx context.Context) (*domain.Envelope[[]domain.Application], error) {
	return call[[]domain.Application](ctx, a.client, http.MethodGet, routeMyApplications)
}

func (a *JobAPI) AllApplications(ctx context.Context) (*domain.Envelope[[]domain.Application], error) {
	return call[[]domain.Application](ctx, a.client, http.MethodGet, routeAdminApps)
}

func (a *JobAPI) JobApplications(ctx context.Context, jobID string) (*domain.Envelope[[]domain.Application], error) {
	return call[[]domain.Application](ctx, a.client, http.MethodGet, routeAdminJobApps, withPathParam("id", jobID))
}

func (a *JobAPI) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Envelope[*domain.Application], error) {
	body := struct {
		Status domain.ApplicationStatus `json:"status"`
	}{Status: status}
	return call[*domain.Application](ctx, a.client, http.MethodPut, routeAdminAppStatus, withPathParam("id", id), withBody(body))
}

var _ ports.JobAPI = (*JobAPI)(nil)
