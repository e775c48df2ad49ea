package contract

import (
	"context"

	"github.com/google/uuid"

	"policyai-be/internal/entity"
	"policyai-be/internal/rbac"
	"policyai-be/internal/repository/specification"
)

type UserRoleRepository interface {
	Create(ctx context.Context, grant *entity.RoleGrant) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RoleGrant, error)
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.RoleGrant, error)
	// DeleteByUserAndRole removes a single grant and reports how many rows
	// went away, so callers can tell a no-op revoke from a real one.
	DeleteByUserAndRole(ctx context.Context, userId uuid.UUID, role rbac.Role) (int64, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
