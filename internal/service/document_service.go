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
	"policyai-be/pkg/storage"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	HandleGenerationCallback(ctx context.Context, req *dto.GenerationCallbackRequest) error
}

type documentService struct {
	uowFactory  unitofwork.RepositoryFactory
	roleService IRoleService
	objectStore storage.ObjectStore
	logger      logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	roleService IRoleService,
	objectStore storage.ObjectStore,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:  uowFactory,
		roleService: roleService,
		objectStore: objectStore,
		logger:      log,
	}
}

func (s *documentService) toResponse(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.PolicyDocument) (*dto.DocumentResponse, error) {
	count, err := uow.SourceRepository().Count(ctx, specification.ByPolicyDocumentID{PolicyDocumentID: doc.Id})
	if err != nil {
		return nil, err
	}

	var roleAssignment *string
	if doc.RoleAssignment != nil {
		r := string(*doc.RoleAssignment)
		roleAssignment = &r
	}

	return &dto.DocumentResponse{
		Id:               doc.Id,
		Title:            doc.Title,
		Description:      doc.Description,
		RoleAssignment:   roleAssignment,
		GenerationStatus: string(doc.GenerationStatus),
		ExampleQuestions: doc.ExampleQuestions,
		Icon:             doc.Icon,
		SourceCount:      count,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	callerRole, err := s.roleService.ResolveRole(ctx, userId)
	if err != nil {
		return nil, err
	}
	if callerRole == rbac.RoleNone {
		return nil, apperr.Denied("No role assigned")
	}

	var roleAssignment *rbac.Role
	if req.RoleAssignment != nil {
		r := rbac.Role(*req.RoleAssignment)
		if !rbac.IsAssignable(r) {
			return nil, apperr.Invalid("Role assignment must be administrator or executive")
		}
		roleAssignment = &r
	}

	doc := &entity.PolicyDocument{
		Id:               uuid.New(),
		Title:            req.Title,
		Description:      req.Description,
		UserId:           userId,
		RoleAssignment:   roleAssignment,
		GenerationStatus: entity.GenerationStatusPending,
		CreatedAt:        time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PolicyDocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	return &dto.CreateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	callerRole, err := s.roleService.ResolveRole(ctx, userId)
	if err != nil {
		return nil, err
	}
	if callerRole == rbac.RoleNone {
		return nil, apperr.Denied("No role assigned")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.PolicyDocumentRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		if !rbac.CanAccessDocument(callerRole, doc.RoleAssignment) {
			continue
		}
		resp, err := s.toResponse(ctx, uow, doc)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// loadGuarded fetches the document and applies the access rule shared by
// every document-scoped operation.
func (s *documentService) loadGuarded(ctx context.Context, uow unitofwork.UnitOfWork, userId, docId uuid.UUID) (*entity.PolicyDocument, rbac.Role, error) {
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
		return nil, callerRole, apperr.Denied(rbac.DenialMessage(callerRole, doc.RoleAssignment))
	}
	return doc, callerRole, nil
}

func (s *documentService) Get(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, _, err := s.loadGuarded(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, uow, doc)
}

func (s *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, callerRole, err := s.loadGuarded(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	var newAssignment *rbac.Role
	if req.RoleAssignment != nil {
		r := rbac.Role(*req.RoleAssignment)
		if !rbac.IsAssignable(r) {
			return nil, apperr.Invalid("Role assignment must be administrator or executive")
		}
		newAssignment = &r
	}

	// Re-gating a document changes who can read it; only the bypass role
	// may do that.
	if !equalAssignment(doc.RoleAssignment, newAssignment) && callerRole != rbac.RoleBoard {
		return nil, apperr.Denied("Only board members can change a document's role assignment")
	}

	now := time.Now()
	doc.Title = req.Title
	doc.Description = req.Description
	doc.RoleAssignment = newAssignment
	doc.UpdatedAt = &now

	if err := uow.PolicyDocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, uow, doc)
}

func equalAssignment(a, b *rbac.Role) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, callerRole, err := s.loadGuarded(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if callerRole != rbac.RoleBoard && doc.UserId != userId {
		return apperr.Denied("Only the owner or a board member can delete a document")
	}

	sources, err := uow.SourceRepository().FindAll(ctx, specification.ByPolicyDocumentID{PolicyDocumentID: id})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, src := range sources {
		if err := uow.SourceRepository().Delete(ctx, src.Id); err != nil {
			return err
		}
	}
	if err := uow.ChatHistoryRepository().DeleteAllBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.PolicyDocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Blob cleanup happens after commit; a leaked object is preferable to
	// a half-deleted document.
	if s.objectStore != nil {
		for _, src := range sources {
			if src.FilePath == nil {
				continue
			}
			if err := s.objectStore.Delete(ctx, *src.FilePath); err != nil {
				s.logger.Warn("DocumentService", "Failed to delete stored object", map[string]interface{}{
					"source_id": src.Id,
					"key":       *src.FilePath,
					"error":     err.Error(),
				})
			}
		}
	}

	return nil
}

func (s *documentService) HandleGenerationCallback(ctx context.Context, req *dto.GenerationCallbackRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.ByID{ID: req.PolicyDocumentId})
	if err != nil {
		return err
	}
	if doc == nil {
		return apperr.NotFoundf("Policy document not found")
	}

	now := time.Now()
	doc.UpdatedAt = &now

	if req.Status == "completed" {
		doc.GenerationStatus = entity.GenerationStatusCompleted
		if req.Title != "" {
			doc.Title = req.Title
		}
		if req.Description != "" {
			doc.Description = req.Description
		}
		if len(req.ExampleQuestions) > 0 {
			doc.ExampleQuestions = req.ExampleQuestions
		}
		if req.Icon != "" {
			doc.Icon = req.Icon
		}
	} else {
		// Back to pending so the next ingested source can retry.
		doc.GenerationStatus = entity.GenerationStatusPending
		s.logger.Warn("DocumentService", "Generation failed for document", map[string]interface{}{
			"policy_document_id": req.PolicyDocumentId,
		})
	}

	return uow.PolicyDocumentRepository().Update(ctx, doc)
}
