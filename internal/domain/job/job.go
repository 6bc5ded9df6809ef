package job

import (
	"time"

	"talentx/internal/common"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusDraft  Status = "draft"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusDraft:
		return true
	default:
		return false
	}
}

type Job struct {
	ID                  common.UUID `json:"id"`
	PostedBy            common.UUID `json:"posted_by"`
	PostedByName        string      `json:"posted_by_name,omitempty"`
	Title               string      `json:"title"`
	Company             string      `json:"company"`
	TechStack           string      `json:"tech_stack"`
	ApplicationDeadline *time.Time  `json:"application_deadline"`
	Location            string      `json:"location"`
	Description         string      `json:"description"`
	Requirements        string      `json:"requirements"`
	SalaryMin           *int        `json:"salary_min"`
	SalaryMax           *int        `json:"salary_max"`
	Status              Status      `json:"status"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// DeadlinePassed reports whether the job stopped accepting applications at now.
// A deadline equal to now counts as passed.
func (j Job) DeadlinePassed(now time.Time) bool {
	if j.ApplicationDeadline == nil {
		return false
	}
	return !now.Before(*j.ApplicationDeadline)
}

type Filter struct {
	Query    string
	Company  string
	Location string
	Limit    int
	Offset   int
}
