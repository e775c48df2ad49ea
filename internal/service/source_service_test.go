package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyai-be/internal/dto"
	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/apperr"
	"policyai-be/internal/rbac"
)

// fakePublisher records queue publishes and can be told to fail.
type fakePublisher struct {
	mu        sync.Mutex
	published []dto.PublishIngestSourceMessage
	err       error
	notify    chan struct{}
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{notify: make(chan struct{}, 32)}
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() { p.notify <- struct{}{} }()
	if p.err != nil {
		return p.err
	}
	var msg dto.PublishIngestSourceMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	p.published = append(p.published, msg)
	return nil
}

func (p *fakePublisher) waitForPublishes(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.notify:
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out waiting for publish %d of %d", i+1, n)
		}
	}
}

func newSourceServiceForTest(store *fakeStore, pub IPublisherService) ISourceService {
	factory := newFakeFactory(store)
	roleService := NewRoleService(factory, time.Minute, nil, noopLogger{})
	return NewSourceService(factory, roleService, pub, nil, noopLogger{})
}

func TestCreateBatchIsolatesInvalidFiles(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("admin@corp.test")
	store.addGrant(userId, rbac.RoleAdministrator)
	docId := store.addDoc(userId, nil)

	pub := newFakePublisher()
	svc := newSourceServiceForTest(store, pub)

	res, err := svc.CreateBatch(context.Background(), userId, &dto.CreateSourcesRequest{
		PolicyDocumentId: docId,
		Sources: []dto.CreateSourceItem{
			{Title: "handbook.pdf", Type: "pdf", MimeType: "application/pdf", FileSize: 1024, Data: "aGVsbG8="},
			{Title: "malware.exe", Type: "pdf", MimeType: "application/x-msdownload", FileSize: 1024, Data: "aGVsbG8="},
			{Title: "huge.pdf", Type: "pdf", MimeType: "application/pdf", FileSize: entity.MaxSourceFileSize + 1, Data: "aGVsbG8="},
			{Title: "pasted notes", Type: "text", Content: "remote work policy draft"},
			{Title: "intranet page", Type: "website", Url: "https://intranet.corp.test/policies"},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Sources, 5)

	byTitle := make(map[string]dto.SourceResponse, len(res.Sources))
	for _, src := range res.Sources {
		byTitle[src.Title] = src
	}

	assert.Equal(t, string(entity.SourceStatusPending), byTitle["handbook.pdf"].Status)
	assert.Equal(t, string(entity.SourceStatusPending), byTitle["pasted notes"].Status)
	assert.Equal(t, string(entity.SourceStatusPending), byTitle["intranet page"].Status)
	assert.Equal(t, string(entity.SourceStatusFailed), byTitle["malware.exe"].Status)
	require.NotNil(t, byTitle["malware.exe"].ErrorMessage)
	assert.Equal(t, string(entity.SourceStatusFailed), byTitle["huge.pdf"].Status)

	// Only the valid items reach the ingest queue.
	pub.waitForPublishes(t, 3)
	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Len(t, pub.published, 3)
}

func TestCreateBatchGuarded(t *testing.T) {
	store := newFakeStore()
	ownerId := store.addUser("owner@corp.test")
	execDoc := rbac.RoleExecutive
	docId := store.addDoc(ownerId, &execDoc)

	adminId := store.addUser("admin@corp.test")
	store.addGrant(adminId, rbac.RoleAdministrator)

	svc := newSourceServiceForTest(store, newFakePublisher())

	_, err := svc.CreateBatch(context.Background(), adminId, &dto.CreateSourcesRequest{
		PolicyDocumentId: docId,
		Sources: []dto.CreateSourceItem{
			{Title: "handbook.pdf", Type: "pdf", MimeType: "application/pdf", FileSize: 1024, Data: "aGVsbG8="},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "executive")
	assert.Contains(t, err.Error(), "administrator")
}

func TestCreateBatchMarksFailedWhenQueueRejects(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("admin@corp.test")
	store.addGrant(userId, rbac.RoleAdministrator)
	docId := store.addDoc(userId, nil)

	pub := newFakePublisher()
	pub.err = errors.New("queue closed")
	svc := newSourceServiceForTest(store, pub)

	res, err := svc.CreateBatch(context.Background(), userId, &dto.CreateSourcesRequest{
		PolicyDocumentId: docId,
		Sources: []dto.CreateSourceItem{
			{Title: "handbook.pdf", Type: "pdf", MimeType: "application/pdf", FileSize: 1024, Data: "aGVsbG8="},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)

	pub.waitForPublishes(t, 1)

	store.mu.Lock()
	src := store.sources[res.Sources[0].Id]
	store.mu.Unlock()
	assert.Equal(t, entity.SourceStatusFailed, src.Status)
	require.NotNil(t, src.ErrorMessage)
}

func TestHandleCallbackAppliesVerdict(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("admin@corp.test")
	docId := store.addDoc(userId, nil)
	srcId := store.addSource(docId, userId, "handbook.pdf", entity.SourceStatusProcessing)

	svc := newSourceServiceForTest(store, newFakePublisher())

	err := svc.HandleCallback(context.Background(), &dto.SourceCallbackRequest{
		SourceId: srcId,
		Status:   string(entity.SourceStatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceStatusCompleted, store.sources[srcId].Status)
}

func TestHandleCallbackPartialCompletion(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("admin@corp.test")
	docId := store.addDoc(userId, nil)
	srcId := store.addSource(docId, userId, "scan.pdf", entity.SourceStatusProcessing)

	svc := newSourceServiceForTest(store, newFakePublisher())

	reason := "3 of 40 pages unreadable"
	err := svc.HandleCallback(context.Background(), &dto.SourceCallbackRequest{
		SourceId: srcId,
		Status:   string(entity.SourceStatusCompletedPartial),
		Error:    &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceStatusCompletedPartial, store.sources[srcId].Status)
	require.NotNil(t, store.sources[srcId].ErrorMessage)
}

func TestHandleCallbackIgnoresStaleDelivery(t *testing.T) {
	store := newFakeStore()
	userId := store.addUser("admin@corp.test")
	docId := store.addDoc(userId, nil)
	srcId := store.addSource(docId, userId, "handbook.pdf", entity.SourceStatusCompleted)

	svc := newSourceServiceForTest(store, newFakePublisher())

	// A late "failed" must not roll the row back.
	err := svc.HandleCallback(context.Background(), &dto.SourceCallbackRequest{
		SourceId: srcId,
		Status:   string(entity.SourceStatusFailed),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SourceStatusCompleted, store.sources[srcId].Status)
}

func TestHandleCallbackUnknownSource(t *testing.T) {
	store := newFakeStore()
	svc := newSourceServiceForTest(store, newFakePublisher())

	err := svc.HandleCallback(context.Background(), &dto.SourceCallbackRequest{
		SourceId: uuid.New(),
		Status:   string(entity.SourceStatusCompleted),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteGuardedByDocumentAccess(t *testing.T) {
	store := newFakeStore()
	ownerId := store.addUser("owner@corp.test")
	execDoc := rbac.RoleExecutive
	docId := store.addDoc(ownerId, &execDoc)
	srcId := store.addSource(docId, ownerId, "handbook.pdf", entity.SourceStatusCompleted)

	adminId := store.addUser("admin@corp.test")
	store.addGrant(adminId, rbac.RoleAdministrator)

	svc := newSourceServiceForTest(store, newFakePublisher())

	err := svc.Delete(context.Background(), adminId, srcId)
	require.Error(t, err)
	assert.Equal(t, apperr.AuthorizationDenied, apperr.KindOf(err))

	execId := store.addUser("exec@corp.test")
	store.addGrant(execId, rbac.RoleExecutive)
	require.NoError(t, svc.Delete(context.Background(), execId, srcId))
}
