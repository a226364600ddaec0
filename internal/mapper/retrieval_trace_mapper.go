package mapper

import (
	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/model"

	"gorm.io/datatypes"
)

type RetrievalTraceMapper struct{}

func NewRetrievalTraceMapper() *RetrievalTraceMapper {
	return &RetrievalTraceMapper{}
}

func (m *RetrievalTraceMapper) RequestToEntity(r *model.RetrievalRequest) *entity.RetrievalRequest {
	if r == nil {
		return nil
	}
	return &entity.RetrievalRequest{
		Id:              r.Id,
		WorkspaceId:     r.WorkspaceId,
		CreatedByUserId: r.CreatedByUserId,
		Query:           r.Query,
		K:               r.K,
		Alpha:           r.Alpha,
		SourceTypes:     r.SourceTypes,
		Timeframe:       map[string]interface{}(r.Timeframe),
		CreatedAt:       r.CreatedAt,
	}
}

func (m *RetrievalTraceMapper) RequestToModel(r *entity.RetrievalRequest) *model.RetrievalRequest {
	if r == nil {
		return nil
	}
	return &model.RetrievalRequest{
		Id:              r.Id,
		WorkspaceId:     r.WorkspaceId,
		CreatedByUserId: r.CreatedByUserId,
		Query:           r.Query,
		K:               r.K,
		Alpha:           r.Alpha,
		SourceTypes:     r.SourceTypes,
		Timeframe:       datatypes.JSONMap(r.Timeframe),
		CreatedAt:       r.CreatedAt,
	}
}

func (m *RetrievalTraceMapper) ItemToEntity(i *model.RetrievalRequestItem) *entity.RetrievalRequestItem {
	if i == nil {
		return nil
	}
	return &entity.RetrievalRequestItem{
		Id:           i.Id,
		RequestId:    i.RequestId,
		Rank:         i.Rank,
		ChunkId:      i.ChunkId,
		DocumentId:   i.DocumentId,
		SourceId:     i.SourceId,
		Snippet:      i.Snippet,
		Meta:         map[string]interface{}(i.Meta),
		ScoreLexical: i.ScoreLexical,
		ScoreVector:  i.ScoreVector,
		ScoreHybrid:  i.ScoreHybrid,
		CreatedAt:    i.CreatedAt,
	}
}

func (m *RetrievalTraceMapper) ItemToModel(i *entity.RetrievalRequestItem) *model.RetrievalRequestItem {
	if i == nil {
		return nil
	}
	return &model.RetrievalRequestItem{
		Id:           i.Id,
		RequestId:    i.RequestId,
		Rank:         i.Rank,
		ChunkId:      i.ChunkId,
		DocumentId:   i.DocumentId,
		SourceId:     i.SourceId,
		Snippet:      i.Snippet,
		Meta:         datatypes.JSONMap(i.Meta),
		ScoreLexical: i.ScoreLexical,
		ScoreVector:  i.ScoreVector,
		ScoreHybrid:  i.ScoreHybrid,
		CreatedAt:    i.CreatedAt,
	}
}

func (m *RetrievalTraceMapper) ItemsToModels(items []*entity.RetrievalRequestItem) []*model.RetrievalRequestItem {
	models := make([]*model.RetrievalRequestItem, len(items))
	for i, it := range items {
		models[i] = m.ItemToModel(it)
	}
	return models
}

func (m *RetrievalTraceMapper) ItemsToEntities(items []*model.RetrievalRequestItem) []*entity.RetrievalRequestItem {
	entities := make([]*entity.RetrievalRequestItem, len(items))
	for i, it := range items {
		entities[i] = m.ItemToEntity(it)
	}
	return entities
}
