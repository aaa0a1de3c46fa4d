package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/api/metrics"
	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

type ApplicationHandler struct {
	jobService ports.JobService
}

func NewApplicationHandler(jobService ports.JobService) *ApplicationHandler {
	return &ApplicationHandler{jobService: jobService}
}

// Apply submits an application with a resume and a cover letter.
//
// @Summary      Apply to job
// @Tags         employee
// @Accept       multipart/form-data
// @Produce      json
// @Param        jobId        path      string  true  "Job ID"
// @Param        resume       formData  file    true  "PDF or Word document, at most 5MB"
// @Param        coverLetter  formData  string  true  "Cover letter"
// @Success      201          {object}  domain.Application
// @Failure      400          {object}  messageResponse
// @Router       /employee/jobs/{jobId}/apply [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	in := ports.ApplicationInput{CoverLetter: c.FormValue("coverLetter")}
	if _, err := c.FormFile("resume"); err == nil {
		resume, err := formUpload(c, "resume")
		if err != nil {
			return err
		}
		in.Resume = &resume
	}

	app, err := h.jobService.Apply(c.Request().Context(), c.Param("jobId"), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, app)
}

// Mine lists the signed-in job seeker's applications.
//
// @Summary      My applications
// @Tags         employee
// @Produce      json
// @Success      200  {object}  applicationsResponse
// @Router       /employee/applications [get]
func (h *ApplicationHandler) Mine(c echo.Context) error {
	apps, err := h.jobService.MyApplications(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, withCounts(apps))
}

// All lists applications across the employer's postings, optionally narrowed
// to one status.
//
// @Summary      All applications
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "pending, reviewed, shortlisted, accepted or rejected"
// @Success      200     {object}  applicationsResponse
// @Router       /admin/applications [get]
func (h *ApplicationHandler) All(c echo.Context) error {
	apps, err := h.jobService.AllApplications(c.Request().Context())
	if err != nil {
		return err
	}

	resp := withCounts(apps)
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status := domain.ApplicationStatus(strings.ToLower(raw))
		if !status.Valid() {
			return domain.ErrInvalidStatus
		}
		filtered := make([]domain.Application, 0, len(apps))
		for _, a := range apps {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		resp.Applications = filtered
	}
	return ok(c, http.StatusOK, resp)
}

// ForJob lists the applications of one posting.
//
// @Summary      Job applications
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  applicationsResponse
// @Router       /admin/jobs/{id}/applications [get]
func (h *ApplicationHandler) ForJob(c echo.Context) error {
	apps, err := h.jobService.JobApplications(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, withCounts(apps))
}

// UpdateStatus moves one application to a new status.
//
// @Summary      Update application status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Application ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.Application
// @Failure      400   {object}  messageResponse
// @Router       /admin/applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.jobService.UpdateApplicationStatus(c.Request().Context(), c.Param("id"), req.Status)
	metrics.Recorder{}.StatusChange(err != nil)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, app)
}

// BulkUpdateStatus applies many status changes. Failures are reported per
// change; the request itself succeeds.
//
// @Summary      Bulk status update
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      bulkStatusRequest  true  "Changes, applied in order per application"
// @Success      200   {object}  bulkStatusResponse
// @Failure      400   {object}  messageResponse
// @Router       /admin/applications/status [post]
func (h *ApplicationHandler) BulkUpdateStatus(c echo.Context) error {
	var req bulkStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	results := h.jobService.UpdateApplicationStatuses(c.Request().Context(), req.Changes)
	resp := bulkStatusResponse{Results: results}
	for _, r := range results {
		failed := r.Error != ""
		metrics.Recorder{}.StatusChange(failed)
		if failed {
			resp.Failed++
			continue
		}
		resp.Applied++
	}
	return ok(c, http.StatusOK, resp)
}

func withCounts(apps []domain.Application) applicationsResponse {
	return applicationsResponse{Applications: apps, Counts: domain.CountByStatus(apps)}
}
