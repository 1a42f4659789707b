package users

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/shared"
)

// Service handles account management business logic. Every mutation is
// recorded in the audit trail with the acting user id.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditSink
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditSink, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser returns one account.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

// CreateUser hashes the password and inserts the account.
func (s *Service) CreateUser(ctx context.Context, actorID int64, input NewUserInput) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.CreateUser(ctx, input, string(hash))
	if err != nil {
		return 0, err
	}
	s.record(ctx, actorID, shared.ActionUserCreated, map[string]any{
		"user_id": id,
		"email":   input.Email,
		"role":    string(input.Role),
	})
	return id, nil
}

// UpdateUser rewrites account fields.
func (s *Service) UpdateUser(ctx context.Context, actorID, id int64, input UpdateUserInput) error {
	if err := s.repo.UpdateUser(ctx, id, input); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionUserUpdated, map[string]any{
		"user_id": id,
		"email":   input.Email,
		"role":    string(input.Role),
	})
	return nil
}

// SetAdmin grants or revokes the system admin flag.
func (s *Service) SetAdmin(ctx context.Context, actorID, id int64, isAdmin bool) error {
	if err := s.repo.SetAdmin(ctx, id, isAdmin); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionUserUpdated, map[string]any{
		"user_id":  id,
		"is_admin": isAdmin,
	})
	return nil
}

// DeactivateUser soft deletes the account.
func (s *Service) DeactivateUser(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeactivateUser(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionUserDeleted, map[string]any{"user_id": id})
	return nil
}

// LookupIdentity resolves a user id into an access identity. Inactive
// accounts resolve to not found so their sessions lose access immediately.
func (s *Service) LookupIdentity(ctx context.Context, userID int64) (access.Identity, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return access.Identity{}, err
	}
	if !user.IsActive {
		return access.Identity{}, shared.ErrNotFound
	}
	return access.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		Role:    user.Role,
		IsAdmin: user.IsAdmin,
	}, nil
}

var _ access.Directory = (*Service)(nil)

func (s *Service) record(ctx context.Context, actorID int64, action string, details map[string]any) {
	err := s.audit.Record(ctx, shared.AuditEntry{
		ActorUserID: actorID,
		Action:      action,
		Details:     details,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit entry", slog.String("action", action), slog.Any("error", err))
	}
}
