package domain

import "strings"

// Envelope is the backend's success body: {"success": bool, "data": ...}.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// Job types offered by the posting form.
var JobTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Freelance"}

// Experience bands offered by the posting form.
var ExperienceLevels = []string{"0-1 years", "1-3 years", "3-5 years", "5-8 years", "8+ years"}

// Job is a posting as returned by the backend. The client does not enforce
// any invariants on it.
type Job struct {
	ID           string   `json:"_id"`
	CompanyName  string   `json:"companyName"`
	JobTitle     string   `json:"jobTitle"`
	Role         string   `json:"role"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary"`
	JobType      string   `json:"jobType"`
	Experience   string   `json:"experience"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Skills       []string `json:"skills"`
	IsActive     bool     `json:"isActive"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// ApplicationStatus is the triage state an employer assigns.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every status in triage order.
var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReviewed, StatusShortlisted, StatusAccepted, StatusRejected,
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Applicant is the job seeker attached to an application.
type Applicant struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Application is a submitted application as returned by the backend.
type Application struct {
	ID                 string            `json:"_id"`
	Job                *Job              `json:"job,omitempty"`
	Applicant          *Applicant        `json:"user,omitempty"`
	CoverLetter        string            `json:"coverLetter"`
	Resume             string            `json:"resume"`
	ResumeOriginalName string            `json:"resumeOriginalName,omitempty"`
	Status             ApplicationStatus `json:"status"`
	CreatedAt          string            `json:"createdAt,omitempty"`
}

// Profile is the full account record behind GET /profile.
type Profile struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	ProfilePic string `json:"profilePic,omitempty"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// JobFilter is the browse page's local filter: free-text search over title,
// company and role, a location substring and an exact job type.
type JobFilter struct {
	Search   string
	Location string
	JobType  string
}

// Matches reports whether j passes the filter.
func (f JobFilter) Matches(j Job) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(j.JobTitle), q) &&
			!strings.Contains(strings.ToLower(j.CompanyName), q) &&
			!strings.Contains(strings.ToLower(j.Role), q) {
			return false
		}
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" {
		if !strings.Contains(strings.ToLower(j.Location), loc) {
			return false
		}
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	return true
}

// FilterJobs returns the jobs that pass f, preserving order.
func FilterJobs(jobs []Job, f JobFilter) []Job {
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

// CountByStatus tallies applications per status. Every known status is
// present in the result, zero or not.
func CountByStatus(apps []Application) map[ApplicationStatus]int {
	counts := make(map[ApplicationStatus]int, len(ApplicationStatuses))
	for _, s := range ApplicationStatuses {
		counts[s] = 0
	}
	for _, a := range apps {
		counts[a.Status]++
	}
	return counts
}

// JobState is the posting lifecycle as the owner sees it.
type JobState string

const (
	JobActive   JobState = "active"
	JobInactive JobState = "inactive"
)

// State derives the lifecycle state from IsActive.
func (j Job) State() JobState {
	if j.IsActive {
		return JobActive
	}
	return JobInactive
}

// JobCounts summarises an owner's postings.
type JobCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// CountJobs tallies postings by state.
func CountJobs(jobs []Job) JobCounts {
	c := JobCounts{Total: len(jobs)}
	for _, j := range jobs {
		if j.IsActive {
			c.Active++
		} else {
			c.Inactive++
		}
	}
	return c
}
