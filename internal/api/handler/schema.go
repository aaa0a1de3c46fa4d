package handler

import (
	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/service"
)

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type sessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	State         string             `json:"state"`
	User          *domain.Identity   `json:"user,omitempty"`
	Token         *service.TokenInfo `json:"token,omitempty"`
}

type jobFormRequest struct {
	CompanyName  string `json:"companyName"`
	JobTitle     string `json:"jobTitle"`
	Role         string `json:"role"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
	JobType      string `json:"jobType"`
	Experience   string `json:"experience"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Skills       string `json:"skills"`
}

func (r jobFormRequest) toForm() ports.JobForm {
	return ports.JobForm{
		CompanyName:  r.CompanyName,
		JobTitle:     r.JobTitle,
		Role:         r.Role,
		Location:     r.Location,
		Salary:       r.Salary,
		JobType:      r.JobType,
		Experience:   r.Experience,
		Description:  r.Description,
		Requirements: r.Requirements,
		Skills:       r.Skills,
	}
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type statusRequest struct {
	Status domain.ApplicationStatus `json:"status" validate:"required"`
}

type bulkStatusRequest struct {
	Changes []ports.StatusChange `json:"changes" validate:"required,min=1,dive"`
}

type bulkStatusResponse struct {
	Applied int                  `json:"applied"`
	Failed  int                  `json:"failed"`
	Results []ports.StatusResult `json:"results"`
}

type applicationsResponse struct {
	Applications []domain.Application             `json:"applications"`
	Counts       map[domain.ApplicationStatus]int `json:"counts"`
}
