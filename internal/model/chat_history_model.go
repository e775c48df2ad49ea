package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatHistory intentionally uses a bigserial key instead of uuid: insert
// order is the display order and must survive identical timestamps.
type ChatHistory struct {
	Id        int64          `gorm:"primaryKey;autoIncrement"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Message   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ChatHistory) TableName() string {
	return "chat_histories"
}
