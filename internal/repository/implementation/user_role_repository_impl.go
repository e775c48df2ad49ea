package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"policyai-be/internal/entity"
	"policyai-be/internal/mapper"
	"policyai-be/internal/model"
	"policyai-be/internal/rbac"
	"policyai-be/internal/repository/contract"
	"policyai-be/internal/repository/specification"
)

type UserRoleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserRoleMapper
}

func NewUserRoleRepository(db *gorm.DB) contract.UserRoleRepository {
	return &UserRoleRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserRoleMapper(),
	}
}

func (r *UserRoleRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRoleRepositoryImpl) Create(ctx context.Context, grant *entity.RoleGrant) error {
	m := r.mapper.ToModel(grant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*grant = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRoleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RoleGrant, error) {
	var models []*model.UserRole
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UserRoleRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.RoleGrant, error) {
	return r.FindAll(ctx, specification.ByUserID{UserID: userId})
}

func (r *UserRoleRepositoryImpl) DeleteByUserAndRole(ctx context.Context, userId uuid.UUID, role rbac.Role) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userId, string(role)).
		Delete(&model.UserRole{})
	return result.RowsAffected, result.Error
}

func (r *UserRoleRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Delete(&model.UserRole{}).Error
}
