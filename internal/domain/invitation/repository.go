package invitation

import (
	"context"

	"talentx/internal/common"
	"talentx/internal/domain/application"
)

type Repository interface {
	// Create fails with common.CodeConflict when the (job, talent) pair was already invited.
	Create(ctx context.Context, inv Invitation) (*Invitation, error)
	// GetPending returns the caller's invitation only while it is still pending.
	GetPending(ctx context.Context, id, talentID common.UUID) (*Invitation, error)
	// Accept marks a pending invitation accepted and records app in one transaction.
	Accept(ctx context.Context, id, talentID common.UUID, app application.Application) (*AcceptResult, error)
	Decline(ctx context.Context, id, talentID common.UUID) (*Invitation, error)
	ListByTalent(ctx context.Context, talentID common.UUID) ([]View, error)
}
