package dto

import (
	"time"

	"github.com/google/uuid"
)

type AssignRoleRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=board administrator executive"`
}

type RevokeRoleRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=board administrator executive"`
}

// ManageRoleRequest is the combined assign/revoke endpoint shape.
type ManageRoleRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=board administrator executive"`
	Action string    `json:"action" validate:"required,oneof=assign revoke"`
}

// RoleChangeResponse reports the outcome of an assign/revoke. A no-op
// (already granted, not granted) is not an error; Changed is false and
// Message says why.
type RoleChangeResponse struct {
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

type UserRolesResponse struct {
	UserId        uuid.UUID `json:"user_id"`
	Roles         []string  `json:"roles"`
	EffectiveRole string    `json:"effective_role"`
}

type RoleGrantResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
