package mapper

import (
	"policyai-be/internal/entity"
	"policyai-be/internal/model"
	"policyai-be/internal/rbac"
)

type UserRoleMapper struct{}

func NewUserRoleMapper() *UserRoleMapper {
	return &UserRoleMapper{}
}

func (m *UserRoleMapper) ToEntity(r *model.UserRole) *entity.RoleGrant {
	if r == nil {
		return nil
	}
	return &entity.RoleGrant{
		Id:        r.Id,
		UserId:    r.UserId,
		Role:      rbac.Role(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

func (m *UserRoleMapper) ToModel(r *entity.RoleGrant) *model.UserRole {
	if r == nil {
		return nil
	}
	return &model.UserRole{
		Id:        r.Id,
		UserId:    r.UserId,
		Role:      string(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

func (m *UserRoleMapper) ToEntities(rows []*model.UserRole) []*entity.RoleGrant {
	entities := make([]*entity.RoleGrant, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
