package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Source struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkspaceId uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type        string            `gorm:"type:varchar(32);not null;index"`
	Name        string            `gorm:"type:varchar(200);not null;default:''"`
	Config      datatypes.JSONMap `gorm:"not null;default:'{}'"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
}

func (Source) TableName() string {
	return "sources"
}
