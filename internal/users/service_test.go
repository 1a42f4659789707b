package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/shared"
)

type stubRepo struct {
	users      map[int64]*User
	lastHash   string
	lastInput  NewUserInput
	nextID     int64
	setAdminTo *bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: make(map[int64]*User), nextID: 1}
}

func (s *stubRepo) ListUsers(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubRepo) GetUser(ctx context.Context, id int64) (*User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, input NewUserInput, passwordHash string) (int64, error) {
	id := s.nextID
	s.nextID++
	s.lastHash = passwordHash
	s.lastInput = input
	s.users[id] = &User{ID: id, Email: input.Email, Name: input.Name, Role: input.Role, IsAdmin: input.IsAdmin, IsActive: true}
	return id, nil
}

func (s *stubRepo) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) error {
	user, ok := s.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.Email = input.Email
	user.Name = input.Name
	user.Role = input.Role
	user.IsAdmin = input.IsAdmin
	return nil
}

func (s *stubRepo) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	user, ok := s.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.IsAdmin = isAdmin
	s.setAdminTo = &isAdmin
	return nil
}

func (s *stubRepo) DeactivateUser(ctx context.Context, id int64) error {
	user, ok := s.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.IsActive = false
	return nil
}

type memorySink struct {
	entries []shared.AuditEntry
}

func (m *memorySink) Record(ctx context.Context, entry shared.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestCreateUserHashesPasswordAndRecordsAudit(t *testing.T) {
	repo := newStubRepo()
	sink := &memorySink{}
	service := NewService(repo, sink, nil)

	id, err := service.CreateUser(context.Background(), 42, NewUserInput{
		Email:    "owner@club.local",
		Name:     "صاحب النادي",
		Password: "supersecret",
		Role:     access.RoleOwner,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.lastHash), []byte("supersecret")))

	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	require.Equal(t, shared.ActionUserCreated, entry.Action)
	require.Equal(t, int64(42), entry.ActorUserID)
	require.Equal(t, "owner@club.local", entry.Details["email"])
}

func TestSetAdminRecordsUpdateEntry(t *testing.T) {
	repo := newStubRepo()
	repo.users[5] = &User{ID: 5, Name: "مشرف", Role: access.RoleManager, IsActive: true}
	sink := &memorySink{}
	service := NewService(repo, sink, nil)

	require.NoError(t, service.SetAdmin(context.Background(), 1, 5, true))
	require.NotNil(t, repo.setAdminTo)
	require.True(t, *repo.setAdminTo)

	require.Len(t, sink.entries, 1)
	require.Equal(t, shared.ActionUserUpdated, sink.entries[0].Action)
	require.Equal(t, true, sink.entries[0].Details["is_admin"])
}

func TestDeactivateUserRecordsDeleteEntry(t *testing.T) {
	repo := newStubRepo()
	repo.users[9] = &User{ID: 9, Name: "قديم", Role: access.RoleTeacher, IsActive: true}
	sink := &memorySink{}
	service := NewService(repo, sink, nil)

	require.NoError(t, service.DeactivateUser(context.Background(), 1, 9))
	require.False(t, repo.users[9].IsActive)
	require.Len(t, sink.entries, 1)
	require.Equal(t, shared.ActionUserDeleted, sink.entries[0].Action)
}

func TestLookupIdentity(t *testing.T) {
	repo := newStubRepo()
	repo.users[3] = &User{ID: 3, Name: "مدير القاعات", Role: access.RoleSpaceManager, IsAdmin: true, IsActive: true}
	repo.users[4] = &User{ID: 4, Name: "معطل", Role: access.RoleManager, IsActive: false}
	service := NewService(repo, &memorySink{}, nil)

	identity, err := service.LookupIdentity(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, access.RoleSpaceManager, identity.Role)
	require.True(t, identity.IsAdmin)

	_, err = service.LookupIdentity(context.Background(), 4)
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = service.LookupIdentity(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
