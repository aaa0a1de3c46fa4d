package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobportal/portal/internal/core/ports"
)

type JobHandler struct {
	jobService ports.JobService
}

func NewJobHandler(jobService ports.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// List returns active postings, filtered by the optional query parameters.
//
// @Summary      Browse jobs
// @Tags         jobs
// @Produce      json
// @Param        search    query     string  false  "Matches title, company or role"
// @Param        location  query     string  false  "Location substring"
// @Param        jobType   query     string  false  "Exact job type"
// @Success      200       {array}   domain.Job
// @Failure      502       {object}  messageResponse
// @Router       /jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	jobs, err := h.jobService.ListJobs(c.Request().Context(), ports.JobQuery{
		Search:   c.QueryParam("search"),
		Location: c.QueryParam("location"),
		JobType:  c.QueryParam("jobType"),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, jobs)
}

// Get returns a single posting.
//
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  messageResponse
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.jobService.GetJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, job)
}

// Post publishes a new posting.
//
// @Summary      Post job
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      jobFormRequest  true  "Posting form; requirements one per line, skills comma separated"
// @Success      201   {object}  domain.Job
// @Failure      400   {object}  messageResponse
// @Router       /admin/jobs [post]
func (h *JobHandler) Post(c echo.Context) error {
	var req jobFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	job, err := h.jobService.PostJob(c.Request().Context(), req.toForm())
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, job)
}

// Update applies a partial update.
//
// @Summary      Update job
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Job ID"
// @Param        body  body      ports.JobUpdate  true  "Fields to change"
// @Success      200   {object}  domain.Job
// @Failure      400   {object}  messageResponse
// @Router       /admin/jobs/{id} [put]
func (h *JobHandler) Update(c echo.Context) error {
	var req ports.JobUpdate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	job, err := h.jobService.UpdateJob(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, job)
}

// SetActive opens or closes a posting.
//
// @Summary      Toggle job
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Job ID"
// @Param        body  body      activeRequest  true  "Desired state"
// @Success      200   {object}  domain.Job
// @Router       /admin/jobs/{id}/active [patch]
func (h *JobHandler) SetActive(c echo.Context) error {
	var req activeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	job, err := h.jobService.SetJobActive(c.Request().Context(), c.Param("id"), *req.Active)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, job)
}

// Delete removes a posting.
//
// @Summary      Delete job
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  messageResponse
// @Router       /admin/jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	if err := h.jobService.DeleteJob(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Job deleted"})
}

// Mine lists the postings owned by the signed-in employer.
//
// @Summary      My jobs
// @Tags         admin
// @Produce      json
// @Success      200  {array}  domain.Job
// @Router       /admin/jobs [get]
func (h *JobHandler) Mine(c echo.Context) error {
	jobs, err := h.jobService.MyJobs(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, jobs)
}
