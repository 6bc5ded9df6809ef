package application

import (
	"context"

	"talentx/internal/common"
)

type Repository interface {
	// Create fails with common.CodeConflict when the (job, talent) pair already has an application.
	Create(ctx context.Context, app Application) (*Application, error)
	FindByJobAndTalent(ctx context.Context, jobID, talentID common.UUID) (*Application, error)
	ListByJob(ctx context.Context, jobID common.UUID) ([]View, error)
}
