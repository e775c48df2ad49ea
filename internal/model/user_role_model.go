package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	Role      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
