package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RetrievalRequest struct {
	Id              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId     uuid.UUID         `gorm:"type:uuid;not null;index"`
	CreatedByUserId uuid.UUID         `gorm:"type:uuid;not null;index"`
	Query           string            `gorm:"type:text;not null"`
	K               int               `gorm:"not null"`
	Alpha           float64           `gorm:"not null"`
	SourceTypes     string            `gorm:"type:varchar(200);not null;default:''"`
	Timeframe       datatypes.JSONMap `gorm:"not null;default:'{}'"`
	CreatedAt       time.Time         `gorm:"autoCreateTime"`
}

func (RetrievalRequest) TableName() string {
	return "retrieval_requests"
}

type RetrievalRequestItem struct {
	Id           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestId    uuid.UUID         `gorm:"type:uuid;not null;index:idx_request_rank,unique"`
	Rank         int               `gorm:"not null;index:idx_request_rank,unique"`
	ChunkId      *uuid.UUID        `gorm:"type:uuid"`
	DocumentId   *uuid.UUID        `gorm:"type:uuid"`
	SourceId     *uuid.UUID        `gorm:"type:uuid"`
	Snippet      string            `gorm:"type:text;not null;default:''"`
	Meta         datatypes.JSONMap `gorm:"not null;default:'{}'"`
	ScoreLexical float64           `gorm:"not null;default:0"`
	ScoreVector  float64           `gorm:"not null;default:0"`
	ScoreHybrid  float64           `gorm:"not null;default:0"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`

	Request *RetrievalRequest `gorm:"foreignKey:RequestId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (RetrievalRequestItem) TableName() string {
	return "retrieval_request_items"
}
