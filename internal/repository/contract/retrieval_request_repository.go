package contract

import (
	"context"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type RetrievalRequestRepository interface {
	CreateRequest(ctx context.Context, request *entity.RetrievalRequest) error
	CreateItemsBulk(ctx context.Context, items []*entity.RetrievalRequestItem) error
	FindRequestOne(ctx context.Context, specs ...specification.Specification) (*entity.RetrievalRequest, error)
	FindRequests(ctx context.Context, specs ...specification.Specification) ([]*entity.RetrievalRequest, error)
	CountRequests(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindItemsByRequestId(ctx context.Context, requestId uuid.UUID) ([]*entity.RetrievalRequestItem, error)
}
