package unitofwork

import (
	"context"

	"policyai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserRoleRepository() contract.UserRoleRepository
	PolicyDocumentRepository() contract.PolicyDocumentRepository
	SourceRepository() contract.SourceRepository
	ChatHistoryRepository() contract.ChatHistoryRepository
	SystemLogRepository() contract.SystemLogRepository
}
