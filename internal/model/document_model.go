package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Document struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID         `gorm:"type:uuid;not null;index"`
	SourceId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ExternalId  *string           `gorm:"type:varchar(256);index"`
	Title       string            `gorm:"type:varchar(300);not null;default:'Untitled'"`
	RawText     string            `gorm:"type:text;not null;default:''"`
	Meta        datatypes.JSONMap `gorm:"not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`

	Source *Source `gorm:"foreignKey:SourceId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Document) TableName() string {
	return "documents"
}
