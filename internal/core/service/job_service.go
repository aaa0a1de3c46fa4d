package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/validation"
)

const defaultJobType = "Full-time"

var resumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	// mimetype reports .doc files through their OLE container.
	"application/x-ole-storage": true,
}

// JobService covers postings and applications.
type JobService struct {
	api    ports.JobAPI
	bulk   ports.StatusDispatcher
	log    zerolog.Logger
	tracer trace.Tracer
}

// NewJobService builds a JobService. A nil bulk dispatcher applies batch
// status changes one by one.
func NewJobService(api ports.JobAPI, bulk ports.StatusDispatcher, log zerolog.Logger) *JobService {
	return &JobService{
		api:    api,
		bulk:   bulk,
		log:    log.With().Str("component", "job_service").Logger(),
		tracer: otel.Tracer(tracerName),
	}
}

// NormalizeJobForm trims every field, splits requirements per line and skills
// per comma, and drops blank entries. An empty job type defaults to
// Full-time.
func NormalizeJobForm(form ports.JobForm) ports.JobDraft {
	draft := ports.JobDraft{
		CompanyName:  strings.TrimSpace(form.CompanyName),
		JobTitle:     strings.TrimSpace(form.JobTitle),
		Role:         strings.TrimSpace(form.Role),
		Location:     strings.TrimSpace(form.Location),
		Salary:       strings.TrimSpace(form.Salary),
		JobType:      strings.TrimSpace(form.JobType),
		Experience:   strings.TrimSpace(form.Experience),
		Description:  strings.TrimSpace(form.Description),
		Requirements: splitNonBlank(form.Requirements, "\n"),
		Skills:       splitNonBlank(form.Skills, ","),
	}
	if draft.JobType == "" {
		draft.JobType = defaultJobType
	}
	return draft
}

func splitNonBlank(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *JobService) PostJob(ctx context.Context, form ports.JobForm) (*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "jobs.PostJob")
	defer span.End()

	draft := NormalizeJobForm(form)
	if err := validation.Struct(draft); err != nil {
		return nil, fail(span, err)
	}

	env, err := s.api.PostJob(ctx, draft)
	if err != nil {
		return nil, fail(span, err)
	}
	if env == nil || env.Data == nil {
		return nil, fail(span, unexpectedReply(rejection(env)))
	}
	s.log.Info().Str("job_id", env.Data.ID).Msg("job posted")
	return env.Data, nil
}

func (s *JobService) UpdateJob(ctx context.Context, id string, update ports.JobUpdate) (*domain.Job, error) {
	ctx, span := s.tracer.Start(ctx, "jobs.UpdateJob", trace.WithAttributes(attribute.String("job.id", id)))
	defer span.End()

	if err := requireID("job id", id); err != nil {
		return nil, fail(span, err)
	}
	update.CompanyName = trimmed(update.CompanyName)
	update.JobTitle = trimmed(update.JobTitle)
	update.Role = trimmed(update.Role)
	update.Location = trimmed(update.Location)
	update.Salary = trimmed(update.Salary)
	update.Description = trimmed(update.Description)
	update.Experience = trimmed(update.Experience)
	if err := validation.Struct(update); err != nil {
		return nil, fail(span, err)
	}
	if update.Experience != nil && *update.Experience != "" && !slices.Contains(domain.ExperienceLevels, *update.Experience) {
		return nil, fail(span, domain.ValidationError("experience must be one of: "+strings.Join(domain.ExperienceLevels, ", ")))
	}

	env, err := s.api.UpdateJob(ctx, id, update)
	if err != nil {
		return nil, fail(span, err)
	}
	if env == nil || env.Data == nil {
		return nil, fail(span, unexpectedReply(rejection(env)))
	}
	return env.Data, nil
}

// SetJobActive toggles whether a posting is listed.
func (s *JobService) SetJobActive(ctx context.Context, id string, active bool) (*domain.Job, error) {
	return s.UpdateJob(ctx, id, ports.JobUpdate{IsActive: &active})
}

func (s *JobService) DeleteJob(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "jobs.DeleteJob", trace.WithAttributes(attribute.String("job.id", id)))
	defer span.End()

	if err := requireID("job id", id); err != nil {
		return fail(span, err)
	}
	if err := s.api.DeleteJob(ctx, id); err != nil {
		return fail(span, err)
	}
	s.log.Info().Str("job_id", id).Msg("job deleted")
	return nil
}

func (s *JobService) MyJobs(ctx context.Context) ([]domain.Job, error) {
	env, err := s.api.MyJobs(ctx)
	if err != nil {
		return nil, err
	}
	return listData(env), nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	if err := requireID("job id", id); err != nil {
		return nil, err
	}
	env, err := s.api.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if env == nil || env.Data == nil {
		return nil, unexpectedReply(rejection(env))
	}
	return env.Data, nil
}

// ListJobs sends query to the backend and applies the same filter locally,
// so a backend that ignores the parameters still yields filtered results.
func (s *JobService) ListJobs(ctx context.Context, query ports.JobQuery) ([]domain.Job, error) {
	env, err := s.api.ListJobs(ctx, query.Params())
	if err != nil {
		return nil, err
	}
	return domain.FilterJobs(listData(env), domain.JobFilter{
		Search:   query.Search,
		Location: query.Location,
		JobType:  query.JobType,
	}), nil
}

// Apply checks the resume (PDF or Word, at most 5 MiB) and cover letter
// before uploading.
func (s *JobService) Apply(ctx context.Context, jobID string, in ports.ApplicationInput) (*domain.Application, error) {
	ctx, span := s.tracer.Start(ctx, "jobs.Apply", trace.WithAttributes(attribute.String("job.id", jobID)))
	defer span.End()

	if err := requireID("job id", jobID); err != nil {
		return nil, fail(span, err)
	}
	if err := checkApplication(in); err != nil {
		return nil, fail(span, err)
	}
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)

	env, err := s.api.Apply(ctx, jobID, in)
	if err != nil {
		return nil, fail(span, err)
	}
	if env == nil || env.Data == nil {
		return nil, fail(span, unexpectedReply(rejection(env)))
	}
	s.log.Info().Str("job_id", jobID).Str("application_id", env.Data.ID).Msg("application submitted")
	return env.Data, nil
}

func (s *JobService) MyApplications(ctx context.Context) ([]domain.Application, error) {
	env, err := s.api.MyApplications(ctx)
	if err != nil {
		return nil, err
	}
	return listData(env), nil
}

func (s *JobService) AllApplications(ctx context.Context) ([]domain.Application, error) {
	env, err := s.api.AllApplications(ctx)
	if err != nil {
		return nil, err
	}
	return listData(env), nil
}

func (s *JobService) JobApplications(ctx context.Context, jobID string) ([]domain.Application, error) {
	if err := requireID("job id", jobID); err != nil {
		return nil, err
	}
	env, err := s.api.JobApplications(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return listData(env), nil
}

func (s *JobService) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	ctx, span := s.tracer.Start(ctx, "jobs.UpdateApplicationStatus", trace.WithAttributes(
		attribute.String("application.id", id),
		attribute.String("application.status", string(status)),
	))
	defer span.End()

	if err := checkStatusChange(ports.StatusChange{ApplicationID: id, Status: status}); err != nil {
		return nil, fail(span, err)
	}
	env, err := s.api.UpdateApplicationStatus(ctx, id, status)
	if err != nil {
		return nil, fail(span, err)
	}
	if env == nil || env.Data == nil {
		return nil, fail(span, unexpectedReply(rejection(env)))
	}
	return env.Data, nil
}

// UpdateApplicationStatuses applies a triage batch. Each change succeeds or
// fails on its own; changes to one application keep their order.
func (s *JobService) UpdateApplicationStatuses(ctx context.Context, changes []ports.StatusChange) []ports.StatusResult {
	ctx, span := s.tracer.Start(ctx, "jobs.UpdateApplicationStatuses", trace.WithAttributes(attribute.Int("batch.size", len(changes))))
	defer span.End()

	apply := func(ctx context.Context, c ports.StatusChange) error {
		if err := checkStatusChange(c); err != nil {
			return err
		}
		_, err := s.api.UpdateApplicationStatus(ctx, c.ApplicationID, c.Status)
		return err
	}

	if s.bulk != nil {
		return s.bulk.Dispatch(ctx, changes, apply)
	}

	results := make([]ports.StatusResult, len(changes))
	for i, c := range changes {
		results[i] = ports.StatusResult{ApplicationID: c.ApplicationID, Status: c.Status}
		if err := apply(ctx, c); err != nil {
			results[i].Error = err.Error()
		}
	}
	return results
}

func checkApplication(in ports.ApplicationInput) error {
	if in.Resume == nil || in.Resume.Content == nil {
		return domain.ValidationError("Please upload your resume")
	}
	if !resumeTypes[strings.ToLower(in.Resume.ContentType)] {
		return domain.ValidationError("Please upload a PDF or Word document")
	}
	if in.Resume.Size > MaxUploadSize {
		return domain.ValidationError("File size must be less than 5MB")
	}
	if strings.TrimSpace(in.CoverLetter) == "" {
		return domain.ValidationError("Please write a cover letter")
	}
	return nil
}

func checkStatusChange(c ports.StatusChange) error {
	if err := requireID("application id", c.ApplicationID); err != nil {
		return err
	}
	if !c.Status.Valid() {
		err := fmt.Errorf("%w: %q", domain.ErrInvalidStatus, c.Status)
		return domain.NewAPIError(domain.KindValidation, 0, err.Error(), err)
	}
	return nil
}

func requireID(what, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationError(what + " is required")
	}
	return nil
}

func listData[T any](env *domain.Envelope[[]T]) []T {
	if env == nil || env.Data == nil {
		return []T{}
	}
	return env.Data
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

var _ ports.JobService = (*JobService)(nil)
