package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"policyai-be/internal/entity"
	"policyai-be/internal/mapper"
	"policyai-be/internal/model"
	"policyai-be/internal/repository/contract"
	"policyai-be/internal/repository/specification"
)

type ChatHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatHistoryRepository(db *gorm.DB) contract.ChatHistoryRepository {
	return &ChatHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatHistoryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatHistoryRepositoryImpl) Create(ctx context.Context, history *entity.ChatHistory) error {
	m, err := r.mapper.ToModel(history)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*history = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatHistoryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistory, error) {
	var models []*model.ChatHistory
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatHistoryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatHistory{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChatHistoryRepositoryImpl) DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Delete(&model.ChatHistory{}).Error
}
