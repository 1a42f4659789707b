package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/shared"
)

// RepositoryPort defines data access methods for user accounts.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, input NewUserInput, passwordHash string) (int64, error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) error
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
	DeactivateUser(ctx context.Context, id int64) error
}

// PGRepository implements RepositoryPort on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, name, role, is_admin, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var (
		user User
		role string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&role,
		&user.IsAdmin,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	user.Role = access.ParseRole(role)
	return &user, nil
}

// ListUsers returns all accounts ordered by name.
func (r *PGRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// GetUser fetches one account by id.
func (r *PGRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// CreateUser inserts a new account and returns its id.
func (r *PGRepository) CreateUser(ctx context.Context, input NewUserInput, passwordHash string) (int64, error) {
	const query = `
		INSERT INTO users (email, name, password_hash, role, is_admin, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query, input.Email, input.Name, passwordHash, string(input.Role), input.IsAdmin).Scan(&id)
	return id, err
}

// UpdateUser rewrites the mutable fields of an account.
func (r *PGRepository) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) error {
	const query = `
		UPDATE users
		SET email = $2, name = $3, role = $4, is_admin = $5, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, input.Email, input.Name, string(input.Role), input.IsAdmin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetAdmin flips the system admin flag on an account.
func (r *PGRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`, id, isAdmin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeactivateUser soft deletes an account. Audit history keeps pointing at
// the row, so accounts are never removed physically.
func (r *PGRepository) DeactivateUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ RepositoryPort = (*PGRepository)(nil)
