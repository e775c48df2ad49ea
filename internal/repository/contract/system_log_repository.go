package contract

import (
	"context"

	"policyai-be/internal/entity"
)

type SystemLogRepository interface {
	Create(ctx context.Context, log *entity.SystemLog) error
}
