package contract

import (
	"context"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/repository/specification"
)

type SourceRepository interface {
	Create(ctx context.Context, source *entity.Source) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
