package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyai-be/internal/dto"
	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/apperr"
	"policyai-be/internal/rbac"
)

func newDocumentServiceForTest(store *fakeStore) IDocumentService {
	factory := newFakeFactory(store)
	roleService := NewRoleService(factory, time.Minute, nil, noopLogger{})
	return NewDocumentService(factory, roleService, nil, noopLogger{})
}

func strPtr(s string) *string { return &s }

func TestCreateDocumentRequiresRole(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("nobody@corp.test")

	svc := newDocumentServiceForTest(store)

	_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{Title: "HR policy"})
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))
}

func TestCreateDocumentRejectsBoardAssignment(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("board@corp.test")
	store.addGrant(userId, rbac.RoleBoard)

	svc := newDocumentServiceForTest(store)

	_, err := svc.Create(context.Background(), userId, &dto.CreateDocumentRequest{
		Title:          "Board minutes",
		RoleAssignment: strPtr("board"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.ValidationFailed, apperr.KindOf(err))
}

func TestListFiltersByAccess(t *testing.T) {
	store := newFakeStore()
	ownerId := store.addUser("owner@corp.test")
	store.addGrant(ownerId, rbac.RoleBoard)

	execRole := rbac.RoleExecutive
	adminRole := rbac.RoleAdministrator
	store.addDoc(ownerId, &execRole)
	store.addDoc(ownerId, &adminRole)
	store.addDoc(ownerId, nil)

	execId := store.addUser("exec@corp.test")
	store.addGrant(execId, rbac.RoleExecutive)

	svc := newDocumentServiceForTest(store)
	ctx := context.Background()

	// Executive sees the executive doc and the unassigned one.
	docs, err := svc.List(ctx, execId)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	// Board sees everything.
	docs, err = svc.List(ctx, ownerId)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestUpdateAssignmentChangeIsBoardOnly(t *testing.T) {
	store := newFakeStore()
	adminId := store.addUser("admin@corp.test")
	store.addGrant(adminId, rbac.RoleAdministrator)
	adminRole := rbac.RoleAdministrator
	docId := store.addDoc(adminId, &adminRole)

	svc := newDocumentServiceForTest(store)
	ctx := context.Background()

	// Same assignment: a plain rename is allowed for any reader.
	_, err := svc.Update(ctx, adminId, &dto.UpdateDocumentRequest{
		Id:             docId,
		Title:          "renamed",
		RoleAssignment: strPtr("administrator"),
	})
	require.NoError(t, err)

	// Changing who can read it is not.
	_, err = svc.Update(ctx, adminId, &dto.UpdateDocumentRequest{
		Id:             docId,
		Title:          "renamed again",
		RoleAssignment: strPtr("executive"),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))

	boardId := store.addUser("board@corp.test")
	store.addGrant(boardId, rbac.RoleBoard)
	res, err := svc.Update(ctx, boardId, &dto.UpdateDocumentRequest{
		Id:             docId,
		Title:          "regated",
		RoleAssignment: strPtr("executive"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.RoleAssignment)
	assert.Equal(t, "executive", *res.RoleAssignment)
}

func TestDeleteOwnerOrBoardOnly(t *testing.T) {
	store := newFakeStore()
	ownerId := store.addUser("owner@corp.test")
	store.addGrant(ownerId, rbac.RoleAdministrator)
	docId := store.addDoc(ownerId, nil)

	otherId := store.addUser("other@corp.test")
	store.addGrant(otherId, rbac.RoleAdministrator)

	svc := newDocumentServiceForTest(store)
	ctx := context.Background()

	err := svc.Delete(ctx, otherId, docId)
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))

	require.NoError(t, svc.Delete(ctx, ownerId, docId))

	store.mu.Lock()
	_, exists := store.docs[docId]
	store.mu.Unlock()
	assert.False(t, exists)
}

func TestGenerationCallbackAppliesArtifacts(t *testing.T) {
	store := newFakeStore()
	ownerId := store.addUser("owner@corp.test")
	docId := store.addDoc(ownerId, nil)

	svc := newDocumentServiceForTest(store)

	err := svc.HandleGenerationCallback(context.Background(), &dto.GenerationCallbackRequest{
		PolicyDocumentId: docId,
		Status:           "completed",
		Title:            "Remote Work Policy",
		Description:      "Hybrid and remote work rules",
		ExampleQuestions: []string{"Who approves remote days?"},
		Icon:             "laptop",
	})
	require.NoError(t, err)

	store.mu.Lock()
	doc := store.docs[docId]
	store.mu.Unlock()
	assert.Equal(t, entity.GenerationStatusCompleted, doc.GenerationStatus)
	assert.Equal(t, "Remote Work Policy", doc.Title)
	assert.Equal(t, []string{"Who approves remote days?"}, doc.ExampleQuestions)
	assert.Equal(t, "laptop", doc.Icon)
}

func TestGenerationCallbackFailureResetsToPending(t *testing.T) {
	store := newFakeStore()
	ownerId := store.addUser("owner@corp.test")
	docId := store.addDoc(ownerId, nil)
	store.mu.Lock()
	store.docs[docId].GenerationStatus = entity.GenerationStatusGenerating
	store.mu.Unlock()

	svc := newDocumentServiceForTest(store)

	err := svc.HandleGenerationCallback(context.Background(), &dto.GenerationCallbackRequest{
		PolicyDocumentId: docId,
		Status:           "failed",
	})
	require.NoError(t, err)

	store.mu.Lock()
	doc := store.docs[docId]
	store.mu.Unlock()
	assert.Equal(t, entity.GenerationStatusPending, doc.GenerationStatus)
	assert.Equal(t, "doc", doc.Title)
}
