package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/logger"
	"policyai-be/internal/repository/unitofwork"
	"policyai-be/pkg/events"
	pktNats "policyai-be/pkg/nats"
)

type IAuditService interface {
	Start() error
}

// auditService drains the audit stream into system_logs so role changes
// and access denials leave a durable trail.
type auditService struct {
	subscriber *pktNats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuditService(subscriber *pktNats.Subscriber, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *auditService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("AuditService", "No NATS subscriber configured, audit trail disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("audit.>", "system-logger", s.handle)
}

func levelFor(eventType string) string {
	switch eventType {
	case events.TypeAccessDenied:
		return "warn"
	default:
		return "info"
	}
}

func (s *auditService) handle(ctx context.Context, evt events.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	row := &entity.SystemLog{
		Id:        uuid.New(),
		Level:     levelFor(evt.EventType()),
		Module:    "audit",
		Message:   evt.EventType(),
		Details:   evt.Payload(),
		CreatedAt: time.Now(),
	}

	return uow.SystemLogRepository().Create(ctx, row)
}
