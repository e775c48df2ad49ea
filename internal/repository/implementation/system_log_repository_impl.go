package implementation

import (
	"context"

	"gorm.io/gorm"

	"policyai-be/internal/entity"
	"policyai-be/internal/mapper"
	"policyai-be/internal/repository/contract"
)

type SystemLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SystemLogMapper
}

func NewSystemLogRepository(db *gorm.DB) contract.SystemLogRepository {
	return &SystemLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewSystemLogMapper(),
	}
}

func (r *SystemLogRepositoryImpl) Create(ctx context.Context, log *entity.SystemLog) error {
	m := r.mapper.ToModel(log)
	return r.db.WithContext(ctx).Create(m).Error
}
