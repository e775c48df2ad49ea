package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"policyai-be/internal/entity"
	"policyai-be/internal/pkg/logger"
	"policyai-be/internal/rbac"
	"policyai-be/internal/repository/contract"
	"policyai-be/internal/repository/specification"
	"policyai-be/internal/repository/unitofwork"
)

// fakeStore is a shared in-memory backing store for the fake
// repositories, so services under test see consistent data across
// repository boundaries.
type fakeStore struct {
	mu sync.Mutex

	users   map[uuid.UUID]*entity.User
	grants  []*entity.RoleGrant
	docs    map[uuid.UUID]*entity.PolicyDocument
	sources map[uuid.UUID]*entity.Source
	chat    []*entity.ChatHistory
	logs    []*entity.SystemLog

	nextChatId int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[uuid.UUID]*entity.User),
		docs:    make(map[uuid.UUID]*entity.PolicyDocument),
		sources: make(map[uuid.UUID]*entity.Source),
	}
}

func (s *fakeStore) addUser(email string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = &entity.User{Id: id, Email: email, FullName: email, CreatedAt: time.Now()}
	return id
}

func (s *fakeStore) addGrant(userId uuid.UUID, role rbac.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants = append(s.grants, &entity.RoleGrant{
		Id:        uuid.New(),
		UserId:    userId,
		Role:      role,
		CreatedAt: time.Now(),
	})
}

func (s *fakeStore) addDoc(ownerId uuid.UUID, assignment *rbac.Role) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.docs[id] = &entity.PolicyDocument{
		Id:               id,
		Title:            "doc",
		UserId:           ownerId,
		RoleAssignment:   assignment,
		GenerationStatus: entity.GenerationStatusPending,
		CreatedAt:        time.Now(),
	}
	return id
}

func (s *fakeStore) addSource(docId, userId uuid.UUID, title string, status entity.SourceStatus) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.sources[id] = &entity.Source{
		Id:               id,
		PolicyDocumentId: docId,
		UserId:           userId,
		Title:            title,
		Type:             entity.SourceTypePdf,
		MimeType:         "application/pdf",
		FileSize:         100,
		Status:           status,
		CreatedAt:        time.Now(),
	}
	return id
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

func newFakeFactory(store *fakeStore) unitofwork.RepositoryFactory {
	return &fakeFactory{store: store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}
func (u *fakeUow) UserRoleRepository() contract.UserRoleRepository {
	return &fakeUserRoleRepo{store: u.store}
}
func (u *fakeUow) PolicyDocumentRepository() contract.PolicyDocumentRepository {
	return &fakeDocRepo{store: u.store}
}
func (u *fakeUow) SourceRepository() contract.SourceRepository {
	return &fakeSourceRepo{store: u.store}
}
func (u *fakeUow) ChatHistoryRepository() contract.ChatHistoryRepository {
	return &fakeChatRepo{store: u.store}
}
func (u *fakeUow) SystemLogRepository() contract.SystemLogRepository {
	return &fakeSystemLogRepo{store: u.store}
}

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, sp := range specs {
		if byID, ok := sp.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		return r.store.users[id], nil
	}
	for _, sp := range specs {
		if byEmail, ok := sp.(specification.ByEmail); ok {
			for _, u := range r.store.users {
				if u.Email == byEmail.Email {
					return u, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, _ := r.FindAll(ctx, specs...)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	return nil
}

func (r *fakeUserRepo) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.UserRefreshToken, error) {
	return nil, nil
}

func (r *fakeUserRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeUserRepo) RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID) error {
	return nil
}

type fakeUserRoleRepo struct {
	store *fakeStore
}

func (r *fakeUserRoleRepo) Create(ctx context.Context, grant *entity.RoleGrant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.grants = append(r.store.grants, grant)
	return nil
}

func (r *fakeUserRoleRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RoleGrant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]*entity.RoleGrant(nil), r.store.grants...), nil
}

func (r *fakeUserRoleRepo) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.RoleGrant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.RoleGrant
	for _, g := range r.store.grants {
		if g.UserId == userId {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeUserRoleRepo) DeleteByUserAndRole(ctx context.Context, userId uuid.UUID, role rbac.Role) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.RoleGrant
	var removed int64
	for _, g := range r.store.grants {
		if g.UserId == userId && g.Role == role {
			removed++
			continue
		}
		kept = append(kept, g)
	}
	r.store.grants = kept
	return removed, nil
}

func (r *fakeUserRoleRepo) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.RoleGrant
	for _, g := range r.store.grants {
		if g.UserId != userId {
			kept = append(kept, g)
		}
	}
	r.store.grants = kept
	return nil
}

type fakeDocRepo struct {
	store *fakeStore
}

func (r *fakeDocRepo) Create(ctx context.Context, doc *entity.PolicyDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.docs[doc.Id] = doc
	return nil
}

func (r *fakeDocRepo) Update(ctx context.Context, doc *entity.PolicyDocument) error {
	return r.Create(ctx, doc)
}

func (r *fakeDocRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.docs, id)
	return nil
}

func (r *fakeDocRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		return r.store.docs[id], nil
	}
	return nil, nil
}

func (r *fakeDocRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.PolicyDocument, 0, len(r.store.docs))
	for _, d := range r.store.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDocRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	docs, _ := r.FindAll(ctx, specs...)
	return int64(len(docs)), nil
}

type fakeSourceRepo struct {
	store *fakeStore
}

func (r *fakeSourceRepo) Create(ctx context.Context, source *entity.Source) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sources[source.Id] = source
	return nil
}

func (r *fakeSourceRepo) Update(ctx context.Context, source *entity.Source) error {
	return r.Create(ctx, source)
}

func (r *fakeSourceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sources, id)
	return nil
}

func (r *fakeSourceRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		return r.store.sources[id], nil
	}
	return nil, nil
}

func (r *fakeSourceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var docFilter *uuid.UUID
	for _, sp := range specs {
		if byDoc, ok := sp.(specification.ByPolicyDocumentID); ok {
			id := byDoc.PolicyDocumentID
			docFilter = &id
		}
	}
	var out []*entity.Source
	for _, src := range r.store.sources {
		if docFilter != nil && src.PolicyDocumentId != *docFilter {
			continue
		}
		out = append(out, src)
	}
	return out, nil
}

func (r *fakeSourceRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	sources, _ := r.FindAll(ctx, specs...)
	return int64(len(sources)), nil
}

func (r *fakeSourceRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.SourceStatus, errorMessage *string) (bool, error) {
	if !from.CanTransition(to) {
		return false, nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	src, ok := r.store.sources[id]
	if !ok || src.Status != from {
		return false, nil
	}
	src.Status = to
	src.ErrorMessage = errorMessage
	now := time.Now()
	src.UpdatedAt = &now
	return true, nil
}

type fakeChatRepo struct {
	store *fakeStore
}

func (r *fakeChatRepo) Create(ctx context.Context, history *entity.ChatHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextChatId++
	history.Id = r.store.nextChatId
	r.store.chat = append(r.store.chat, history)
	return nil
}

func (r *fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatHistory, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sessionFilter *uuid.UUID
	for _, sp := range specs {
		if bySession, ok := sp.(specification.BySessionID); ok {
			id := bySession.SessionID
			sessionFilter = &id
		}
	}
	var out []*entity.ChatHistory
	for _, row := range r.store.chat {
		if sessionFilter != nil && row.SessionId != *sessionFilter {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

func (r *fakeChatRepo) DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var kept []*entity.ChatHistory
	for _, row := range r.store.chat {
		if row.SessionId != sessionId {
			kept = append(kept, row)
		}
	}
	r.store.chat = kept
	return nil
}

type fakeSystemLogRepo struct {
	store *fakeStore
}

func (r *fakeSystemLogRepo) Create(ctx context.Context, log *entity.SystemLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.logs = append(r.store.logs, log)
	return nil
}

// noopLogger keeps test output quiet.
type noopLogger struct{}

func (noopLogger) Debug(module string, message string, details map[string]interface{}) {}
func (noopLogger) Info(module string, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module string, message string, details map[string]interface{})  {}
func (noopLogger) Error(module string, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                         { return nil }

var _ logger.ILogger = noopLogger{}
