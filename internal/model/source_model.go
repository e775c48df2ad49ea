package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Source struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyDocumentId uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title            string         `gorm:"type:varchar(255);not null"`
	Type             string         `gorm:"type:varchar(20);not null;default:'pdf'"`
	Content          *string        `gorm:"type:text"`
	Url              *string        `gorm:"type:text"`
	FilePath         *string        `gorm:"type:text"`
	FileSize         int64          `gorm:"not null;default:0"`
	MimeType         string         `gorm:"type:varchar(100)"`
	Status           string         `gorm:"type:varchar(50);not null;default:'pending';index"`
	ErrorMessage     *string        `gorm:"type:text"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Source) TableName() string {
	return "sources"
}
