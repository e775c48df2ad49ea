package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

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

type IRoleService interface {
	// ResolveRole returns the caller's effective role. The result is the
	// same for any ordering of the underlying grants.
	ResolveRole(ctx context.Context, userId uuid.UUID) (rbac.Role, error)
	GetUserRoles(ctx context.Context, actorId, userId uuid.UUID) (*dto.UserRolesResponse, error)
	AssignRole(ctx context.Context, actorId uuid.UUID, req *dto.AssignRoleRequest) (*dto.RoleChangeResponse, error)
	RevokeRole(ctx context.Context, actorId uuid.UUID, req *dto.RevokeRoleRequest) (*dto.RoleChangeResponse, error)
	InvalidateCache(userId uuid.UUID)
}

type roleService struct {
	uowFactory     unitofwork.RepositoryFactory
	cache          *gocache.Cache
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewRoleService(
	uowFactory unitofwork.RepositoryFactory,
	cacheTTL time.Duration,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IRoleService {
	return &roleService{
		uowFactory:     uowFactory,
		cache:          gocache.New(cacheTTL, 2*cacheTTL),
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func cacheKey(userId uuid.UUID) string {
	return "role:" + userId.String()
}

func (s *roleService) ResolveRole(ctx context.Context, userId uuid.UUID) (rbac.Role, error) {
	if cached, found := s.cache.Get(cacheKey(userId)); found {
		return cached.(rbac.Role), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	grants, err := uow.UserRoleRepository().FindAllByUserId(ctx, userId)
	if err != nil {
		// A failed lookup must never widen access.
		return rbac.RoleNone, err
	}

	roles := make([]rbac.Role, len(grants))
	for i, g := range grants {
		roles[i] = g.Role
	}
	role := rbac.Resolve(roles)

	s.cache.Set(cacheKey(userId), role, gocache.DefaultExpiration)
	return role, nil
}

func (s *roleService) InvalidateCache(userId uuid.UUID) {
	s.cache.Delete(cacheKey(userId))
}

func (s *roleService) requireBoard(ctx context.Context, actorId uuid.UUID) error {
	actorRole, err := s.ResolveRole(ctx, actorId)
	if err != nil {
		return err
	}
	if actorRole != rbac.RoleBoard {
		return apperr.Denied("Only board members can manage role assignments")
	}
	return nil
}

func (s *roleService) GetUserRoles(ctx context.Context, actorId, userId uuid.UUID) (*dto.UserRolesResponse, error) {
	if err := s.requireBoard(ctx, actorId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	grants, err := uow.UserRoleRepository().FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}

	roles := make([]string, len(grants))
	resolved := make([]rbac.Role, len(grants))
	for i, g := range grants {
		roles[i] = string(g.Role)
		resolved[i] = g.Role
	}

	return &dto.UserRolesResponse{
		UserId:        userId,
		Roles:         roles,
		EffectiveRole: string(rbac.Resolve(resolved)),
	}, nil
}

func (s *roleService) AssignRole(ctx context.Context, actorId uuid.UUID, req *dto.AssignRoleRequest) (*dto.RoleChangeResponse, error) {
	if err := s.requireBoard(ctx, actorId); err != nil {
		return nil, err
	}

	role := rbac.Role(req.Role)
	if !rbac.IsValid(role) {
		return nil, apperr.Invalid(fmt.Sprintf("Unknown role: %s", req.Role))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFoundf("User not found")
	}

	grants, err := uow.UserRoleRepository().FindAllByUserId(ctx, req.UserId)
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		if g.Role == role {
			return &dto.RoleChangeResponse{
				Changed: false,
				Message: fmt.Sprintf("User already has %s role", role),
			}, nil
		}
	}

	grant := &entity.RoleGrant{
		Id:        uuid.New(),
		UserId:    req.UserId,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRoleRepository().Create(ctx, grant); err != nil {
		return nil, err
	}

	s.InvalidateCache(req.UserId)
	s.publishAudit(ctx, events.NewRoleAssigned(actorId, req.UserId, string(role)))

	return &dto.RoleChangeResponse{
		Changed: true,
		Message: fmt.Sprintf("Assigned %s role", role),
	}, nil
}

func (s *roleService) RevokeRole(ctx context.Context, actorId uuid.UUID, req *dto.RevokeRoleRequest) (*dto.RoleChangeResponse, error) {
	if err := s.requireBoard(ctx, actorId); err != nil {
		return nil, err
	}

	role := rbac.Role(req.Role)
	if !rbac.IsValid(role) {
		return nil, apperr.Invalid(fmt.Sprintf("Unknown role: %s", req.Role))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.UserRoleRepository().DeleteByUserAndRole(ctx, req.UserId, role)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return &dto.RoleChangeResponse{
			Changed: false,
			Message: fmt.Sprintf("User does not have %s role", role),
		}, nil
	}

	s.InvalidateCache(req.UserId)
	s.publishAudit(ctx, events.NewRoleRevoked(actorId, req.UserId, string(role)))

	return &dto.RoleChangeResponse{
		Changed: true,
		Message: fmt.Sprintf("Revoked %s role", role),
	}, nil
}

func (s *roleService) publishAudit(ctx context.Context, evt events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("RoleService", "Failed to publish audit event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
