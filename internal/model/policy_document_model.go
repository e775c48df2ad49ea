package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PolicyDocument struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title            string         `gorm:"type:varchar(255);not null"`
	Description      string         `gorm:"type:text"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	RoleAssignment   *string        `gorm:"type:varchar(50);index"`
	GenerationStatus string         `gorm:"type:varchar(50);not null;default:'pending'"`
	ExampleQuestions datatypes.JSON `gorm:"type:jsonb"`
	Icon             string         `gorm:"type:varchar(100)"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (PolicyDocument) TableName() string {
	return "policy_documents"
}
