package mapper

import (
	"evidence-engine-be/internal/entity"
	"evidence-engine-be/internal/model"

	"gorm.io/datatypes"
)

type SourceMapper struct{}

func NewSourceMapper() *SourceMapper {
	return &SourceMapper{}
}

func (m *SourceMapper) ToEntity(s *model.Source) *entity.Source {
	if s == nil {
		return nil
	}
	return &entity.Source{
		Id:          s.Id,
		WorkspaceId: s.WorkspaceId,
		Type:        s.Type,
		Name:        s.Name,
		Config:      map[string]interface{}(s.Config),
		CreatedAt:   s.CreatedAt,
	}
}

func (m *SourceMapper) ToModel(s *entity.Source) *model.Source {
	if s == nil {
		return nil
	}
	return &model.Source{
		Id:          s.Id,
		WorkspaceId: s.WorkspaceId,
		Type:        s.Type,
		Name:        s.Name,
		Config:      datatypes.JSONMap(s.Config),
		CreatedAt:   s.CreatedAt,
	}
}
