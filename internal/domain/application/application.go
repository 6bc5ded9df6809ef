package application

import (
	"time"

	"talentx/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Source records how an application came to exist.
type Source string

const (
	SourceManual     Source = "manual"
	SourceInvitation Source = "invitation"
)

// InvitationCoverLetter is stored on applications created by accepting an invitation.
const InvitationCoverLetter = "Accepted invitation"

type Application struct {
	ID          common.UUID `json:"id"`
	JobID       common.UUID `json:"job_id"`
	TalentID    common.UUID `json:"talent_id"`
	Source      Source      `json:"source"`
	Status      Status      `json:"status"`
	CoverLetter string      `json:"cover_letter"`
	CreatedAt   time.Time   `json:"created_at"`
}

// View is an application joined with the talent's display data.
type View struct {
	Application
	TalentName  string `json:"talent_name"`
	TalentEmail string `json:"talent_email"`
}
