package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"policyai-be/internal/dto"
	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/apperr"
	"policyai-be/internal/pkg/logger"
	"policyai-be/internal/rbac"
	"policyai-be/internal/repository/specification"
	"policyai-be/internal/repository/unitofwork"
	"policyai-be/pkg/events"
	pktNats "policyai-be/pkg/nats"
)

// batchStagger spaces out queue publishes within one upload batch so the
// downstream workflow is not hit with every file at once.
const batchStagger = 150 * time.Millisecond

type ISourceService interface {
	CreateBatch(ctx context.Context, userId uuid.UUID, req *dto.CreateSourcesRequest) (*dto.CreateSourcesResponse, error)
	List(ctx context.Context, userId uuid.UUID, policyDocumentId uuid.UUID) ([]*dto.SourceResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, sourceId uuid.UUID) error
	HandleCallback(ctx context.Context, req *dto.SourceCallbackRequest) error
}

type sourceService struct {
	uowFactory       unitofwork.RepositoryFactory
	roleService      IRoleService
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewSourceService(
	uowFactory unitofwork.RepositoryFactory,
	roleService IRoleService,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISourceService {
	return &sourceService{
		uowFactory:       uowFactory,
		roleService:      roleService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *sourceService) guardDocument(ctx context.Context, uow unitofwork.UnitOfWork, userId, docId uuid.UUID) (*entity.PolicyDocument, error) {
	callerRole, err := s.roleService.ResolveRole(ctx, userId)
	if err != nil {
		return nil, err
	}

	doc, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: docId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.NotFoundf("Policy document not found")
	}
	if !rbac.CanAccessDocument(callerRole, doc.RoleAssignment) {
		return nil, apperr.Denied(rbac.DenialMessage(callerRole, doc.RoleAssignment))
	}
	return doc, nil
}

func validateItem(item *dto.CreateSourceItem) error {
	switch entity.SourceType(item.Type) {
	case entity.SourceTypePdf, entity.SourceTypeAudio:
		if item.Data == "" {
			return fmt.Errorf("%s source requires file data", item.Type)
		}
		if item.FileSize <= 0 || item.FileSize > entity.MaxSourceFileSize {
			return fmt.Errorf("file exceeds the %dMB limit", entity.MaxSourceFileSize/(1024*1024))
		}
		if !entity.AllowedSourceMimeTypes[item.MimeType] {
			return fmt.Errorf("unsupported file type: %s", item.MimeType)
		}
	case entity.SourceTypeText:
		if item.Content == "" {
			return fmt.Errorf("text source requires content")
		}
	case entity.SourceTypeWebsite, entity.SourceTypeYoutube:
		if item.Url == "" {
			return fmt.Errorf("%s source requires a url", item.Type)
		}
	default:
		return fmt.Errorf("unknown source type: %s", item.Type)
	}
	return nil
}

func toSourceResponse(src *entity.Source) *dto.SourceResponse {
	return &dto.SourceResponse{
		Id:               src.Id,
		PolicyDocumentId: src.PolicyDocumentId,
		Title:            src.Title,
		Type:             string(src.Type),
		Url:              src.Url,
		MimeType:         src.MimeType,
		FileSize:         src.FileSize,
		Status:           string(src.Status),
		ErrorMessage:     src.ErrorMessage,
		CreatedAt:        src.CreatedAt,
		UpdatedAt:        src.UpdatedAt,
	}
}

// CreateBatch registers every file as pending, then hands them to the
// ingest queue one by one with a fixed stagger. A file that fails
// validation is recorded as failed without touching its siblings.
func (s *sourceService) CreateBatch(ctx context.Context, userId uuid.UUID, req *dto.CreateSourcesRequest) (*dto.CreateSourcesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.guardDocument(ctx, uow, userId, req.PolicyDocumentId); err != nil {
		return nil, err
	}

	responses := make([]*dto.SourceResponse, 0, len(req.Sources))
	queued := make([]dto.PublishIngestSourceMessage, 0, len(req.Sources))

	for i := range req.Sources {
		item := &req.Sources[i]
		src := &entity.Source{
			Id:               uuid.New(),
			PolicyDocumentId: req.PolicyDocumentId,
			UserId:           userId,
			Title:            item.Title,
			Type:             entity.SourceType(item.Type),
			FileSize:         item.FileSize,
			MimeType:         item.MimeType,
			Status:           entity.SourceStatusPending,
			CreatedAt:        time.Now(),
		}
		if item.Content != "" {
			src.Content = &item.Content
		}
		if item.Url != "" {
			src.Url = &item.Url
		}

		if err := validateItem(item); err != nil {
			msg := err.Error()
			src.Status = entity.SourceStatusFailed
			src.ErrorMessage = &msg
		}

		if err := uow.SourceRepository().Create(ctx, src); err != nil {
			return nil, err
		}

		if src.Status == entity.SourceStatusPending {
			queued = append(queued, dto.PublishIngestSourceMessage{
				SourceId: src.Id,
				Data:     item.Data,
			})
		}
		responses = append(responses, toSourceResponse(src))
	}

	go s.publishStaggered(queued)

	resp := &dto.CreateSourcesResponse{Sources: make([]dto.SourceResponse, len(responses))}
	for i, r := range responses {
		resp.Sources[i] = *r
	}
	return resp, nil
}

func (s *sourceService) publishStaggered(messages []dto.PublishIngestSourceMessage) {
	ctx := context.Background()
	for i, msg := range messages {
		if i > 0 {
			time.Sleep(batchStagger)
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			s.logger.Error("SourceService", "Failed to marshal ingest message", map[string]interface{}{
				"source_id": msg.SourceId,
				"error":     err.Error(),
			})
			continue
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			s.logger.Error("SourceService", "Failed to queue source for ingestion", map[string]interface{}{
				"source_id": msg.SourceId,
				"error":     err.Error(),
			})
			s.failSource(ctx, msg.SourceId, entity.SourceStatusPending, "Failed to queue for processing")
		}
	}
}

func (s *sourceService) failSource(ctx context.Context, sourceId uuid.UUID, from entity.SourceStatus, reason string) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := uow.SourceRepository().TransitionStatus(ctx, sourceId, from, entity.SourceStatusFailed, &reason); err != nil {
		s.logger.Error("SourceService", "Failed to mark source failed", map[string]interface{}{
			"source_id": sourceId,
			"error":     err.Error(),
		})
	}
}

func (s *sourceService) List(ctx context.Context, userId uuid.UUID, policyDocumentId uuid.UUID) ([]*dto.SourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.guardDocument(ctx, uow, userId, policyDocumentId); err != nil {
		return nil, err
	}

	sources, err := uow.SourceRepository().FindAll(ctx,
		specification.ByPolicyDocumentID{PolicyDocumentID: policyDocumentId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.SourceResponse, len(sources))
	for i, src := range sources {
		responses[i] = toSourceResponse(src)
	}
	return responses, nil
}

func (s *sourceService) Delete(ctx context.Context, userId uuid.UUID, sourceId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	src, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: sourceId})
	if err != nil {
		return err
	}
	if src == nil {
		return apperr.NotFoundf("Source not found")
	}

	if _, err := s.guardDocument(ctx, uow, userId, src.PolicyDocumentId); err != nil {
		return err
	}

	return uow.SourceRepository().Delete(ctx, sourceId)
}

// HandleCallback applies the workflow's verdict for one source. The
// compare-and-set keeps a late or duplicate delivery from resurrecting a
// finished row.
func (s *sourceService) HandleCallback(ctx context.Context, req *dto.SourceCallbackRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	src, err := uow.SourceRepository().FindOne(ctx, specification.ByID{ID: req.SourceId})
	if err != nil {
		return err
	}
	if src == nil {
		return apperr.NotFoundf("Source not found")
	}

	target := entity.SourceStatus(req.Status)
	applied, err := uow.SourceRepository().TransitionStatus(ctx, req.SourceId, entity.SourceStatusProcessing, target, req.Error)
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Warn("SourceService", "Ignoring stale source callback", map[string]interface{}{
			"source_id": req.SourceId,
			"status":    req.Status,
			"current":   string(src.Status),
		})
		return nil
	}

	if s.eventPublisher != nil {
		evt := events.NewSourceStatusChanged(req.SourceId, string(entity.SourceStatusProcessing), req.Status)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("SourceService", "Failed to publish audit event", map[string]interface{}{
				"source_id": req.SourceId,
				"error":     err.Error(),
			})
		}
	}

	return nil
}
