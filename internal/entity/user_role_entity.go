package entity

import (
	"time"

	"github.com/google/uuid"

	"policyai-be/internal/rbac"
)

// RoleGrant is one row of the user-role join. A user may hold several
// grants; rbac.Resolve picks the effective one.
type RoleGrant struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Role      rbac.Role
	CreatedAt time.Time
}
