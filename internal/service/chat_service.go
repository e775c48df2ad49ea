package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"policyai-be/internal/dto"
	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/apperr"
	"policyai-be/internal/pkg/logger"
	"policyai-be/internal/rbac"
	"policyai-be/internal/repository/specification"
	"policyai-be/internal/repository/unitofwork"
	"policyai-be/internal/websocket"
	"policyai-be/pkg/citation"
	"policyai-be/pkg/events"
	pktNats "policyai-be/pkg/nats"
	"policyai-be/pkg/webhook"
)

type IChatService interface {
	CheckAccess(ctx context.Context, userId, policyDocumentId uuid.UUID) (*dto.CheckAccessResponse, error)
	Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	History(ctx context.Context, userId, policyDocumentId uuid.UUID) (*dto.ChatHistoryResponse, error)
	Clear(ctx context.Context, userId, policyDocumentId uuid.UUID) error
	HandleCallback(ctx context.Context, req *dto.ChatCallbackRequest) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	roleService    IRoleService
	router         *webhook.Router
	webhookClient  *webhook.Client
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	roleService IRoleService,
	router *webhook.Router,
	webhookClient *webhook.Client,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		roleService:    roleService,
		router:         router,
		webhookClient:  webhookClient,
		hub:            hub,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// guard re-derives the caller's role from the database-backed cache and
// applies the document access rule. The client never supplies a role.
func (s *chatService) guard(ctx context.Context, uow unitofwork.UnitOfWork, userId, docId uuid.UUID) (*entity.PolicyDocument, rbac.Role, error) {
	callerRole, err := s.roleService.ResolveRole(ctx, userId)
	if err != nil {
		return nil, rbac.RoleNone, err
	}

	doc, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: docId})
	if err != nil {
		return nil, callerRole, err
	}
	if doc == nil {
		return nil, callerRole, apperr.NotFoundf("Policy document not found")
	}

	if !rbac.CanAccessDocument(callerRole, doc.RoleAssignment) {
		s.publishAudit(ctx, events.NewDocumentAccessDenied(userId, docId, string(callerRole)))
		return nil, callerRole, apperr.Denied(rbac.DenialMessage(callerRole, doc.RoleAssignment))
	}
	return doc, callerRole, nil
}

func (s *chatService) CheckAccess(ctx context.Context, userId, policyDocumentId uuid.UUID) (*dto.CheckAccessResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	callerRole, err := s.roleService.ResolveRole(ctx, userId)
	if err != nil {
		return nil, err
	}

	doc, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: policyDocumentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.NotFoundf("Policy document not found")
	}

	return &dto.CheckAccessResponse{
		Allowed: rbac.CanAccessDocument(callerRole, doc.RoleAssignment),
		Role:    string(callerRole),
	}, nil
}

// sourceTitles maps live source ids to titles for citation reconciliation.
func (s *chatService) sourceTitles(ctx context.Context, uow unitofwork.UnitOfWork, docId uuid.UUID) (map[string]string, error) {
	sources, err := uow.SourceRepository().FindAll(ctx, specification.ByPolicyDocumentID{PolicyDocumentID: docId})
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(sources))
	for _, src := range sources {
		titles[src.Id.String()] = src.Title
	}
	return titles, nil
}

func toMessageResponse(row *entity.ChatHistory, titles map[string]string) dto.ChatMessageResponse {
	var segments []citation.Segment
	if row.Message.Type == entity.ChatMessageTypeAi {
		segments = citation.Transform(row.Message.Content, titles)
	} else {
		segments = []citation.Segment{{Text: row.Message.Content, Citations: []citation.Citation{}}}
	}
	return dto.ChatMessageResponse{
		Id:        row.Id,
		Type:      row.Message.Type,
		Segments:  segments,
		CreatedAt: row.CreatedAt,
	}
}

func (s *chatService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, callerRole, err := s.guard(ctx, uow, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	// The user's message is durable before the webhook is attempted; a
	// failed send never loses the prompt.
	humanRow := &entity.ChatHistory{
		SessionId: doc.Id,
		Message: entity.ChatPayload{
			Type:    entity.ChatMessageTypeHuman,
			Content: req.Message,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ChatHistoryRepository().Create(ctx, humanRow); err != nil {
		return nil, err
	}

	titles, err := s.sourceTitles(ctx, uow, doc.Id)
	if err != nil {
		return nil, err
	}

	sentResp := toMessageResponse(humanRow, titles)
	s.pushMessage(doc.Id, &sentResp)
	s.publishAudit(ctx, events.NewChatMessageStored(doc.Id, entity.ChatMessageTypeHuman))

	payload := webhook.ChatPayload{
		SessionId:        doc.Id.String(),
		Message:          req.Message,
		UserId:           userId.String(),
		UserRole:         string(callerRole),
		PolicyDocumentId: doc.Id.String(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}

	body, err := s.webhookClient.Post(ctx, s.router.ChatURL(callerRole), payload)
	if err != nil {
		s.logger.Error("ChatService", "Chat webhook failed", map[string]interface{}{
			"session_id": doc.Id,
			"role":       string(callerRole),
			"error":      err.Error(),
		})
		return nil, apperr.Upstream("Chat workflow unavailable", err)
	}

	resp := &dto.SendChatResponse{Sent: &sentResp}

	// Some workflow deployments answer inline, others deliver the reply
	// through the callback endpoint. An empty body means the latter.
	if len(body) > 0 {
		replyRow := &entity.ChatHistory{
			SessionId: doc.Id,
			Message: entity.ChatPayload{
				Type:    entity.ChatMessageTypeAi,
				Content: string(body),
			},
			CreatedAt: time.Now(),
		}
		if err := uow.ChatHistoryRepository().Create(ctx, replyRow); err != nil {
			return nil, err
		}

		replyResp := toMessageResponse(replyRow, titles)
		s.pushMessage(doc.Id, &replyResp)
		s.publishAudit(ctx, events.NewChatMessageStored(doc.Id, entity.ChatMessageTypeAi))
		resp.Reply = &replyResp
	}

	return resp, nil
}

func (s *chatService) History(ctx context.Context, userId, policyDocumentId uuid.UUID) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, _, err := s.guard(ctx, uow, userId, policyDocumentId)
	if err != nil {
		return nil, err
	}

	rows, err := uow.ChatHistoryRepository().FindAll(ctx,
		specification.BySessionID{SessionID: doc.Id},
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	titles, err := s.sourceTitles(ctx, uow, doc.Id)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.ChatMessageResponse, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if seen[row.Id] {
			continue
		}
		seen[row.Id] = true
		messages = append(messages, toMessageResponse(row, titles))
	}

	return &dto.ChatHistoryResponse{
		SessionId: doc.Id,
		Messages:  messages,
	}, nil
}

func (s *chatService) Clear(ctx context.Context, userId, policyDocumentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, _, err := s.guard(ctx, uow, userId, policyDocumentId)
	if err != nil {
		return err
	}

	if err := uow.ChatHistoryRepository().DeleteAllBySessionId(ctx, doc.Id); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendToSession(doc.Id, "history_cleared", map[string]interface{}{
			"session_id": doc.Id.String(),
		})
	}
	s.publishAudit(ctx, events.NewChatHistoryCleared(doc.Id, userId))

	return nil
}

// HandleCallback stores an asynchronous ai reply delivered by the
// workflow and pushes it to connected listeners.
func (s *chatService) HandleCallback(ctx context.Context, req *dto.ChatCallbackRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: req.SessionId})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperr.NotFoundf("Unknown chat session")
	}

	row := &entity.ChatHistory{
		SessionId: doc.Id,
		Message: entity.ChatPayload{
			Type:    entity.ChatMessageTypeAi,
			Content: req.Content,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ChatHistoryRepository().Create(ctx, row); err != nil {
		return err
	}

	titles, err := s.sourceTitles(ctx, uow, doc.Id)
	if err != nil {
		return err
	}

	resp := toMessageResponse(row, titles)
	s.pushMessage(doc.Id, &resp)
	s.publishAudit(ctx, events.NewChatMessageStored(doc.Id, entity.ChatMessageTypeAi))

	return nil
}

func (s *chatService) pushMessage(sessionId uuid.UUID, msg *dto.ChatMessageResponse) {
	if s.hub == nil {
		return
	}
	s.hub.SendToSession(sessionId, "message", msg)
}

func (s *chatService) publishAudit(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("ChatService", "Failed to publish audit event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
