package contract

import (
	"context"

	"github.com/google/uuid"

	"policyai-be/internal/entity"
	"policyai-be/internal/repository/specification"
)

type SourceRepository interface {
	Create(ctx context.Context, source *entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// TransitionStatus is a compare-and-set on the status column: the row
	// only changes when it still holds from, which keeps concurrent
	// callback deliveries from rolling a terminal state back. Returns
	// false when the row was already past from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SourceStatus, errorMessage *string) (bool, error)
}
