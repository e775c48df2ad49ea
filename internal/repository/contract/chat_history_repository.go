package contract

import (
	"context"

	"github.com/google/uuid"

	"policyai-be/internal/entity"
	"policyai-be/internal/repository/specification"
)

type ChatHistoryRepository interface {
	Create(ctx context.Context, history *entity.ChatHistory) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistory, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
