package job

import (
	"context"

	"talentx/internal/common"
)

type Repository interface {
	Create(ctx context.Context, j Job) (*Job, error)
	Update(ctx context.Context, j Job) (*Job, error)
	Delete(ctx context.Context, id, postedBy common.UUID) error
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	Search(ctx context.Context, filter Filter) ([]Job, error)
	CountActive(ctx context.Context) (int, error)
}
