package model

import (
	"time"

	"github.com/google/uuid"
)

// Chunk rows carry a generated tsvector column (tsv) for lexical search.
// The column is created by the migration step, not by AutoMigrate, so it is
// intentionally absent here.
type Chunk struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId  uuid.UUID `gorm:"type:uuid;not null;index"`
	ChunkIndex  int       `gorm:"not null;default:0"`
	Text        string    `gorm:"type:text;not null;default:''"`
	StartOffset int       `gorm:"not null;default:0"`
	EndOffset   int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Document *Document `gorm:"foreignKey:DocumentId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Chunk) TableName() string {
	return "chunks"
}
