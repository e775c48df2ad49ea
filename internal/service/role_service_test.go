package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyai-be/internal/dto"
	"policyai-be/internal/pkg/apperr"
	"policyai-be/internal/rbac"
)

func newRoleServiceForTest(store *fakeStore) IRoleService {
	return NewRoleService(newFakeFactory(store), time.Minute, nil, noopLogger{})
}

func TestResolveRoleUsesHighestGrant(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("multi@corp.test")
	store.addGrant(userId, rbac.RoleExecutive)
	store.addGrant(userId, rbac.RoleBoard)
	store.addGrant(userId, rbac.RoleAdministrator)

	svc := newRoleServiceForTest(store)

	role, err := svc.ResolveRole(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleBoard, role)
}

func TestResolveRoleNoGrants(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("nobody@corp.test")

	svc := newRoleServiceForTest(store)

	role, err := svc.ResolveRole(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleNone, role)
}

func TestAssignRoleRequiresBoard(t *testing.T) {
	store := newFakeStore()
	actorId := store.addUser("admin@corp.test")
	store.addGrant(actorId, rbac.RoleAdministrator)
	targetId := store.addUser("target@corp.test")

	svc := newRoleServiceForTest(store)

	_, err := svc.AssignRole(context.Background(), actorId, &dto.AssignRoleRequest{
		UserId: targetId,
		Role:   "executive",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))
}

func TestAssignRoleIdempotent(t *testing.T) {
	store := newFakeStore()
	actorId := store.addUser("board@corp.test")
	store.addGrant(actorId, rbac.RoleBoard)
	targetId := store.addUser("target@corp.test")

	svc := newRoleServiceForTest(store)
	ctx := context.Background()
	req := &dto.AssignRoleRequest{UserId: targetId, Role: "executive"}

	first, err := svc.AssignRole(ctx, actorId, req)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := svc.AssignRole(ctx, actorId, req)
	require.NoError(t, err)
	assert.False(t, second.Changed)

	grants, err := (&fakeUserRoleRepo{store: store}).FindAllByUserId(ctx, targetId)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestAssignRoleUnknownUser(t *testing.T) {
	store := newFakeStore()
	actorId := store.addUser("board@corp.test")
	store.addGrant(actorId, rbac.RoleBoard)

	svc := newRoleServiceForTest(store)

	_, err := svc.AssignRole(context.Background(), actorId, &dto.AssignRoleRequest{
		UserId: uuid.New(),
		Role:   "executive",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestRevokeRoleIdempotent(t *testing.T) {
	store := newFakeStore()
	actorId := store.addUser("board@corp.test")
	store.addGrant(actorId, rbac.RoleBoard)
	targetId := store.addUser("target@corp.test")
	store.addGrant(targetId, rbac.RoleAdministrator)

	svc := newRoleServiceForTest(store)
	ctx := context.Background()
	req := &dto.RevokeRoleRequest{UserId: targetId, Role: "administrator"}

	first, err := svc.RevokeRole(ctx, actorId, req)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := svc.RevokeRole(ctx, actorId, req)
	require.NoError(t, err)
	assert.False(t, second.Changed)
}

func TestRoleChangeInvalidatesResolveCache(t *testing.T) {
	store := newFakeStore()
	actorId := store.addUser("board@corp.test")
	store.addGrant(actorId, rbac.RoleBoard)
	targetId := store.addUser("target@corp.test")
	store.addGrant(targetId, rbac.RoleExecutive)

	svc := newRoleServiceForTest(store)
	ctx := context.Background()

	role, err := svc.ResolveRole(ctx, targetId)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleExecutive, role)

	_, err = svc.RevokeRole(ctx, actorId, &dto.RevokeRoleRequest{UserId: targetId, Role: "executive"})
	require.NoError(t, err)

	role, err = svc.ResolveRole(ctx, targetId)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleNone, role)
}

func TestGetUserRolesBoardOnly(t *testing.T) {
	store := newFakeStore()
	actorId := store.addUser("exec@corp.test")
	store.addGrant(actorId, rbac.RoleExecutive)
	targetId := store.addUser("target@corp.test")

	svc := newRoleServiceForTest(store)

	_, err := svc.GetUserRoles(context.Background(), actorId, targetId)
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))
}
