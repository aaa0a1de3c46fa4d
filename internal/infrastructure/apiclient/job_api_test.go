package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

func TestApply_SendsMultipart(t *testing.T) {
	type received struct {
		path, fileName, contentType, content, coverLetter string
	}
	got := make(chan received, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		f, hdr, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("resume part: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got <- received{
			path:        r.URL.Path,
			fileName:    hdr.Filename,
			contentType: hdr.Header.Get("Content-Type"),
			content:     string(b),
			coverLetter: r.FormValue("coverLetter"),
		}
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"_id":"a1","status":"pending"}}`)
	}))
	defer srv.Close()

	jobs := NewJobAPI(newTestClient(t, srv.URL, stubTokens{token: "tok"}))
	env, err := jobs.Apply(context.Background(), "j42", ports.ApplicationInput{
		Resume: &ports.Upload{
			FileName:    "cv.pdf",
			ContentType: "application/pdf",
			Size:        9,
			Content:     strings.NewReader("%PDF-1.4\n"),
		},
		CoverLetter: "Hire me",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if env.Data == nil || env.Data.Status != domain.StatusPending {
		t.Fatalf("unexpected envelope %+v", env)
	}

	r := <-got
	if r.path != "/api/applications/j42" {
		t.Fatalf("unexpected path %s", r.path)
	}
	if r.fileName != "cv.pdf" || r.contentType != "application/pdf" || r.content != "%PDF-1.4\n" {
		t.Fatalf("unexpected resume part %+v", r)
	}
	if r.coverLetter != "Hire me" {
		t.Fatalf("unexpected cover letter %q", r.coverLetter)
	}
}

func TestApply_RequiresResume(t *testing.T) {
	jobs := NewJobAPI(newTestClient(t, "http://127.0.0.1:1", nil))
	_, err := jobs.Apply(context.Background(), "j1", ports.ApplicationInput{CoverLetter: "x"})
	if requireAPIError(t, err).Kind() != domain.KindValidation {
		t.Fatalf("expected validation error")
	}
}

func TestListJobs_SendsQuery(t *testing.T) {
	query := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query <- r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"_id":"1","jobTitle":"Go Dev"}]}`)
	}))
	defer srv.Close()

	jobs := NewJobAPI(newTestClient(t, srv.URL, nil))
	env, err := jobs.ListJobs(context.Background(), ports.JobQuery{Search: "go", JobType: "Full-time"}.Params())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].JobTitle != "Go Dev" {
		t.Fatalf("unexpected data %+v", env.Data)
	}

	q := <-query
	if !strings.Contains(q, "search=go") || !strings.Contains(q, "jobType=Full-time") || strings.Contains(q, "location") {
		t.Fatalf("unexpected query %q", q)
	}
}

func TestUpdateApplicationStatus_SendsStatus(t *testing.T) {
	type received struct {
		method, path string
		body         map[string]string
	}
	got := make(chan received, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		got <- received{r.Method, r.URL.Path, body}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"_id":"a1","status":"shortlisted"}}`)
	}))
	defer srv.Close()

	jobs := NewJobAPI(newTestClient(t, srv.URL, stubTokens{token: "tok"}))
	if _, err := jobs.UpdateApplicationStatus(context.Background(), "a1", domain.StatusShortlisted); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	r := <-got
	if r.method != http.MethodPut || r.path != "/api/admin/applications/a1/status" || r.body["status"] != "shortlisted" {
		t.Fatalf("unexpected request %+v", r)
	}
}

func TestDeleteJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/admin/jobs/j1" {
			writeJSON(w, http.StatusNotFound, `{"message":"Job not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Job deleted"}`)
	}))
	defer srv.Close()

	jobs := NewJobAPI(newTestClient(t, srv.URL, stubTokens{token: "tok"}))
	if err := jobs.DeleteJob(context.Background(), "j1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	err := jobs.DeleteJob(context.Background(), "nope")
	if requireAPIError(t, err).Message != "Job not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUploadProfilePic_FieldName(t *testing.T) {
	field := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(1 << 20)
		for name := range r.MultipartForm.File {
			field <- name
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"profilePic":"/uploads/p.png"}}`)
	}))
	defer srv.Close()

	api := NewAuthAPI(newTestClient(t, srv.URL, stubTokens{token: "tok"}))
	env, err := api.UploadProfilePic(context.Background(), domain.RoleAdmin, ports.Upload{
		FileName:    "p.png",
		ContentType: "image/png",
		Content:     strings.NewReader("\x89PNG"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if env.Data.ProfilePic != "/uploads/p.png" {
		t.Fatalf("unexpected data %+v", env.Data)
	}
	if got := <-field; got != "profilePic" {
		t.Fatalf("expected profilePic part, got %q", got)
	}
}
