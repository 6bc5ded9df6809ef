package invitation

import (
	"time"

	"talentx/internal/common"
	"talentx/internal/domain/application"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

type Invitation struct {
	ID         common.UUID `json:"id"`
	JobID      common.UUID `json:"job_id"`
	TalentID   common.UUID `json:"talent_id"`
	EmployerID common.UUID `json:"employer_id"`
	Message    string      `json:"message"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// View is the talent-facing projection of an invitation.
type View struct {
	Invitation
	JobTitle            string     `json:"job_title"`
	Company             string     `json:"company"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	EmployerName        string     `json:"employer_name"`
}

// AcceptResult is the outcome of accepting an invitation. AlreadyApplied is set when
// the application existed before the acceptance and was returned unchanged.
type AcceptResult struct {
	Invitation     Invitation              `json:"invitation"`
	Application    application.Application `json:"application"`
	AlreadyApplied bool                    `json:"already_applied"`
}
