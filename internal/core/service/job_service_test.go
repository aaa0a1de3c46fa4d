package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/infrastructure/queue"
)

// stubJobAPI records what it was sent and answers from canned data.
type stubJobAPI struct {
	mu sync.Mutex

	posted   []ports.JobDraft
	updates  map[string]ports.JobUpdate
	applied  []ports.ApplicationInput
	statuses []ports.StatusChange
	params   map[string]string

	jobs      []domain.Job
	failOn    map[string]error
	deleteErr error
}

func newStubJobAPI() *stubJobAPI {
	return &stubJobAPI{updates: map[string]ports.JobUpdate{}, failOn: map[string]error{}}
}

func (s *stubJobAPI) PostJob(_ context.Context, draft ports.JobDraft) (*domain.Envelope[*domain.Job], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, draft)
	return &domain.Envelope[*domain.Job]{Success: true, Data: &domain.Job{ID: "j1", JobTitle: draft.JobTitle, IsActive: true}}, nil
}

func (s *stubJobAPI) MyJobs(context.Context) (*domain.Envelope[[]domain.Job], error) {
	return &domain.Envelope[[]domain.Job]{Success: true, Data: s.jobs}, nil
}

func (s *stubJobAPI) GetJob(_ context.Context, id string) (*domain.Envelope[*domain.Job], error) {
	for _, j := range s.jobs {
		if j.ID == id {
			j := j
			return &domain.Envelope[*domain.Job]{Success: true, Data: &j}, nil
		}
	}
	return nil, domain.NewAPIError(domain.KindBackend, 404, "Job not found", nil)
}

func (s *stubJobAPI) UpdateJob(_ context.Context, id string, update ports.JobUpdate) (*domain.Envelope[*domain.Job], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[id] = update
	job := &domain.Job{ID: id}
	if update.IsActive != nil {
		job.IsActive = *update.IsActive
	}
	return &domain.Envelope[*domain.Job]{Success: true, Data: job}, nil
}

func (s *stubJobAPI) DeleteJob(context.Context, string) error { return s.deleteErr }

func (s *stubJobAPI) ListJobs(_ context.Context, params map[string]string) (*domain.Envelope[[]domain.Job], error) {
	s.params = params
	return &domain.Envelope[[]domain.Job]{Success: true, Data: s.jobs}, nil
}

func (s *stubJobAPI) Apply(_ context.Context, jobID string, in ports.ApplicationInput) (*domain.Envelope[*domain.Application], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, in)
	return &domain.Envelope[*domain.Application]{Success: true, Data: &domain.Application{ID: "a1", Status: domain.StatusPending, CoverLetter: in.CoverLetter}}, nil
}

func (s *stubJobAPI) MyApplications(context.Context) (*domain.Envelope[[]domain.Application], error) {
	return &domain.Envelope[[]domain.Application]{Success: true}, nil
}

func (s *stubJobAPI) AllApplications(context.Context) (*domain.Envelope[[]domain.Application], error) {
	return &domain.Envelope[[]domain.Application]{Success: true, Data: []domain.Application{{ID: "a1"}, {ID: "a2"}}}, nil
}

func (s *stubJobAPI) JobApplications(_ context.Context, jobID string) (*domain.Envelope[[]domain.Application], error) {
	return &domain.Envelope[[]domain.Application]{Success: true, Data: []domain.Application{{ID: "a-" + jobID}}}, nil
}

func (s *stubJobAPI) UpdateApplicationStatus(_ context.Context, id string, status domain.ApplicationStatus) (*domain.Envelope[*domain.Application], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[id]; err != nil {
		return nil, err
	}
	s.statuses = append(s.statuses, ports.StatusChange{ApplicationID: id, Status: status})
	return &domain.Envelope[*domain.Application]{Success: true, Data: &domain.Application{ID: id, Status: status}}, nil
}

// ── postings ─────────────────────────────────────────────────────────────────

func TestNormalizeJobForm(t *testing.T) {
	draft := NormalizeJobForm(ports.JobForm{
		CompanyName:  "  Acme ",
		JobTitle:     "Go Dev",
		Requirements: "3 years Go\n\n  Kubernetes  \n",
		Skills:       "go, , sql ,grpc",
	})

	if draft.CompanyName != "Acme" {
		t.Fatalf("expected trimmed company, got %q", draft.CompanyName)
	}
	if !reflect.DeepEqual(draft.Requirements, []string{"3 years Go", "Kubernetes"}) {
		t.Fatalf("unexpected requirements %q", draft.Requirements)
	}
	if !reflect.DeepEqual(draft.Skills, []string{"go", "sql", "grpc"}) {
		t.Fatalf("unexpected skills %q", draft.Skills)
	}
	if draft.JobType != "Full-time" {
		t.Fatalf("expected default job type, got %q", draft.JobType)
	}

	empty := NormalizeJobForm(ports.JobForm{})
	if empty.Requirements == nil || len(empty.Requirements) != 0 || len(empty.Skills) != 0 {
		t.Fatalf("expected empty non-nil lists, got %#v %#v", empty.Requirements, empty.Skills)
	}
}

func TestPostJob(t *testing.T) {
	api := newStubJobAPI()
	svc := NewJobService(api, nil, zerolog.Nop())

	job, err := svc.PostJob(context.Background(), ports.JobForm{
		CompanyName: "Acme", JobTitle: "Go Dev", Role: "Backend", Location: "Remote",
		JobType: "Contract", Experience: "3-5 years", Description: "Build things",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if job.ID != "j1" || len(api.posted) != 1 || api.posted[0].JobType != "Contract" {
		t.Fatalf("unexpected result %+v / %+v", job, api.posted)
	}
}

func TestPostJob_Validation(t *testing.T) {
	tests := []struct {
		name string
		form ports.JobForm
		want string
	}{
		{name: "missing title", form: ports.JobForm{CompanyName: "A", Role: "R", Location: "L", Description: "D"}, want: "jobTitle is required"},
		{name: "bad job type", form: ports.JobForm{CompanyName: "A", JobTitle: "T", Role: "R", Location: "L", Description: "D", JobType: "Gig"}, want: "jobType must be one of"},
		{name: "bad experience", form: ports.JobForm{CompanyName: "A", JobTitle: "T", Role: "R", Location: "L", Description: "D", Experience: "20 years"}, want: "experience must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newStubJobAPI()
			_, err := NewJobService(api, nil, zerolog.Nop()).PostJob(context.Background(), tc.form)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
			if len(api.posted) != 0 {
				t.Fatalf("backend must not be called")
			}
		})
	}
}

func TestSetJobActive(t *testing.T) {
	api := newStubJobAPI()
	job, err := NewJobService(api, nil, zerolog.Nop()).SetJobActive(context.Background(), "j9", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	u := api.updates["j9"]
	if u.IsActive == nil || *u.IsActive || job.IsActive {
		t.Fatalf("expected isActive=false sent, got %+v", u)
	}
}

func TestUpdateJob_TrimsWithoutTouchingCaller(t *testing.T) {
	api := newStubJobAPI()
	title := "  Senior Go Dev "
	_, err := NewJobService(api, nil, zerolog.Nop()).UpdateJob(context.Background(), "j1", ports.JobUpdate{JobTitle: &title})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := *api.updates["j1"].JobTitle; got != "Senior Go Dev" {
		t.Fatalf("expected trimmed title, got %q", got)
	}
	if title != "  Senior Go Dev " {
		t.Fatalf("caller's value was modified")
	}
}

func TestDeleteJob_PropagatesBackendError(t *testing.T) {
	api := newStubJobAPI()
	api.deleteErr = domain.NewAPIError(domain.KindBackend, 403, "Not authorized", nil)

	err := NewJobService(api, nil, zerolog.Nop()).DeleteJob(context.Background(), "j1")
	if err == nil || err.Error() != "Not authorized" {
		t.Fatalf("expected backend message, got %v", err)
	}
}

func TestListJobs_FiltersLocally(t *testing.T) {
	api := newStubJobAPI()
	api.jobs = []domain.Job{
		{ID: "1", JobTitle: "Go Developer", Location: "Berlin", JobType: "Full-time"},
		{ID: "2", JobTitle: "Designer", Location: "Berlin", JobType: "Full-time"},
		{ID: "3", CompanyName: "GoCorp", Location: "Remote", JobType: "Contract"},
	}

	got, err := NewJobService(api, nil, zerolog.Nop()).ListJobs(context.Background(), ports.JobQuery{Search: "go", Location: "berlin"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only job 1, got %+v", got)
	}
	if api.params["search"] != "go" || api.params["location"] != "berlin" {
		t.Fatalf("expected query forwarded, got %v", api.params)
	}
}

func TestMyApplications_NilDataIsEmpty(t *testing.T) {
	apps, err := NewJobService(newStubJobAPI(), nil, zerolog.Nop()).MyApplications(context.Background())
	if err != nil || apps == nil || len(apps) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", apps, err)
	}
}

// ── applications ─────────────────────────────────────────────────────────────

func TestApply_Validation(t *testing.T) {
	pdf := func(size int64) *ports.Upload {
		return &ports.Upload{FileName: "cv.pdf", ContentType: "application/pdf", Size: size, Content: strings.NewReader("%PDF")}
	}
	tests := []struct {
		name string
		in   ports.ApplicationInput
		want string
	}{
		{name: "no resume", in: ports.ApplicationInput{CoverLetter: "hi"}, want: "Please upload your resume"},
		{name: "image resume", in: ports.ApplicationInput{Resume: &ports.Upload{ContentType: "image/png", Content: strings.NewReader("x")}, CoverLetter: "hi"}, want: "PDF or Word"},
		{name: "too large", in: ports.ApplicationInput{Resume: pdf(MaxUploadSize + 1), CoverLetter: "hi"}, want: "less than 5MB"},
		{name: "blank letter", in: ports.ApplicationInput{Resume: pdf(10), CoverLetter: "   "}, want: "cover letter"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := newStubJobAPI()
			_, err := NewJobService(api, nil, zerolog.Nop()).Apply(context.Background(), "j1", tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
			if len(api.applied) != 0 {
				t.Fatalf("backend must not be called")
			}
		})
	}
}

func TestApply_Success(t *testing.T) {
	api := newStubJobAPI()
	app, err := NewJobService(api, nil, zerolog.Nop()).Apply(context.Background(), "j1", ports.ApplicationInput{
		Resume:      &ports.Upload{FileName: "cv.docx", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 100, Content: strings.NewReader("PK")},
		CoverLetter: "  Dear team  ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if app.Status != domain.StatusPending || api.applied[0].CoverLetter != "Dear team" {
		t.Fatalf("unexpected application %+v", app)
	}
}

func TestUpdateApplicationStatus_RejectsUnknownStatus(t *testing.T) {
	api := newStubJobAPI()
	_, err := NewJobService(api, nil, zerolog.Nop()).UpdateApplicationStatus(context.Background(), "a1", "hired")
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(api.statuses) != 0 {
		t.Fatalf("backend must not be called")
	}
}

func TestUpdateApplicationStatuses(t *testing.T) {
	for _, withDispatcher := range []bool{false, true} {
		api := newStubJobAPI()
		api.failOn["gone"] = domain.NewAPIError(domain.KindBackend, 404, "Application not found", nil)

		var bulk ports.StatusDispatcher
		if withDispatcher {
			bulk = queue.NewDispatcher(2, zerolog.Nop())
		}
		svc := NewJobService(api, bulk, zerolog.Nop())

		results := svc.UpdateApplicationStatuses(context.Background(), []ports.StatusChange{
			{ApplicationID: "a1", Status: domain.StatusReviewed},
			{ApplicationID: "gone", Status: domain.StatusRejected},
			{ApplicationID: "a2", Status: "bogus"},
			{ApplicationID: "a1", Status: domain.StatusAccepted},
		})

		if len(results) != 4 {
			t.Fatalf("expected 4 results, got %d", len(results))
		}
		if results[0].Error != "" || results[3].Error != "" {
			t.Fatalf("expected a1 changes to succeed: %+v", results)
		}
		if results[1].Error != "Application not found" {
			t.Fatalf("expected backend failure, got %+v", results[1])
		}
		if !strings.Contains(results[2].Error, "invalid application status") {
			t.Fatalf("expected status validation failure, got %+v", results[2])
		}

		var a1 []domain.ApplicationStatus
		for _, c := range api.statuses {
			if c.ApplicationID == "a1" {
				a1 = append(a1, c.Status)
			}
		}
		if !reflect.DeepEqual(a1, []domain.ApplicationStatus{domain.StatusReviewed, domain.StatusAccepted}) {
			t.Fatalf("a1 changes applied out of order: %v", a1)
		}
	}
}

// rejectingJobAPI answers 2xx with success=false, as the backend does for
// some business rule failures.
type rejectingJobAPI struct {
	*stubJobAPI
	reply domain.Envelope[*domain.Job]
}

func (r *rejectingJobAPI) PostJob(context.Context, ports.JobDraft) (*domain.Envelope[*domain.Job], error) {
	return &r.reply, nil
}

func (r *rejectingJobAPI) GetJob(context.Context, string) (*domain.Envelope[*domain.Job], error) {
	return &r.reply, nil
}

func TestJobReplyWithoutData_UsesBackendRejection(t *testing.T) {
	form := ports.JobForm{
		CompanyName: "Acme", JobTitle: "Go Dev", Role: "Backend", Location: "Remote",
		JobType: "Contract", Description: "Build things",
	}
	tests := []struct {
		name  string
		reply domain.Envelope[*domain.Job]
		want  string
	}{
		{"rejected", domain.Envelope[*domain.Job]{Success: false, Message: "Job limit reached"}, "Job limit reached"},
		{"rejected without message", domain.Envelope[*domain.Job]{Success: false}, domain.UnexpectedReplyMessage},
		{"success without data", domain.Envelope[*domain.Job]{Success: true, Message: "Job posted"}, domain.UnexpectedReplyMessage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewJobService(&rejectingJobAPI{stubJobAPI: newStubJobAPI(), reply: tc.reply}, nil, zerolog.Nop())

			_, err := svc.PostJob(context.Background(), form)
			var apiErr *domain.APIError
			if !errors.As(err, &apiErr) || apiErr.Message != tc.want || apiErr.Kind() != domain.KindPayload {
				t.Fatalf("PostJob: expected payload error %q, got %v", tc.want, err)
			}

			_, err = svc.GetJob(context.Background(), "j1")
			if err == nil || err.Error() != tc.want {
				t.Fatalf("GetJob: expected %q, got %v", tc.want, err)
			}
		})
	}
}
