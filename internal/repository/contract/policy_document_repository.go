package contract

import (
	"context"

	"github.com/google/uuid"

	"policyai-be/internal/entity"
	"policyai-be/internal/repository/specification"
)

type PolicyDocumentRepository interface {
	Create(ctx context.Context, doc *entity.PolicyDocument) error
	Update(ctx context.Context, doc *entity.PolicyDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
