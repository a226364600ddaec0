package implementation

import (
	"context"
	"errors"

	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/mapper"
	"evidence-engine-be/internal/model"
	"evidence-engine-be/internal/repository/contract"
	"evidence-engine-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RetrievalRequestRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RetrievalTraceMapper
}

func NewRetrievalRequestRepository(db *gorm.DB) contract.RetrievalRequestRepository {
	return &RetrievalRequestRepositoryImpl{
		db:     db,
		mapper: mapper.NewRetrievalTraceMapper(),
	}
}

func (r *RetrievalRequestRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RetrievalRequestRepositoryImpl) CreateRequest(ctx context.Context, request *entity.RetrievalRequest) error {
	m := r.mapper.RequestToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.RequestToEntity(m)
	return nil
}

func (r *RetrievalRequestRepositoryImpl) CreateItemsBulk(ctx context.Context, items []*entity.RetrievalRequestItem) error {
	if len(items) == 0 {
		return nil
	}
	models := r.mapper.ItemsToModels(items)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*items[i] = *r.mapper.ItemToEntity(m)
	}
	return nil
}

func (r *RetrievalRequestRepositoryImpl) FindRequestOne(ctx context.Context, specs ...specification.Specification) (*entity.RetrievalRequest, error) {
	var m model.RetrievalRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RequestToEntity(&m), nil
}

func (r *RetrievalRequestRepositoryImpl) FindRequests(ctx context.Context, specs ...specification.Specification) ([]*entity.RetrievalRequest, error) {
	var models []*model.RetrievalRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.RetrievalRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.RequestToEntity(m)
	}
	return entities, nil
}

func (r *RetrievalRequestRepositoryImpl) CountRequests(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.RetrievalRequest{}).Count(&count).Error
	return count, err
}

func (r *RetrievalRequestRepositoryImpl) FindItemsByRequestId(ctx context.Context, requestId uuid.UUID) ([]*entity.RetrievalRequestItem, error) {
	var models []*model.RetrievalRequestItem
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByRequestID{RequestID: requestId},
		specification.OrderBy{Field: "rank"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ItemsToEntities(models), nil
}
