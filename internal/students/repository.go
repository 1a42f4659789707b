package students

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scienceclub/hallhub/internal/platform/db"
	"github.com/scienceclub/hallhub/internal/shared"
)

// Repository defines persistence operations for students.
type Repository interface {
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id int64) (*Student, error)
	CreateStudent(ctx context.Context, input NewStudentInput) (*Student, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const studentColumns = `id, serial_number, name, mobile_phone, parent_phone, city, created_at, updated_at`

// ListStudents returns all students. Ordering happens in the service with a
// proper Arabic collator, so the query only fixes a stable base order.
func (r *PGRepository) ListStudents(ctx context.Context) ([]Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.SerialNumber, &s.Name, &s.MobilePhone, &s.ParentPhone, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetStudent fetches one student by id.
func (r *PGRepository) GetStudent(ctx context.Context, id int64) (*Student, error) {
	var s Student
	err := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id).
		Scan(&s.ID, &s.SerialNumber, &s.Name, &s.MobilePhone, &s.ParentPhone, &s.City, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateStudent inserts a student, assigning the next serial number inside a
// transaction so concurrent registrations never share a serial.
func (r *PGRepository) CreateStudent(ctx context.Context, input NewStudentInput) (*Student, error) {
	var s Student
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Serial numbers form a dense human-facing sequence. The advisory lock
		// serialises registrations; the unique index on serial_number backs it up.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('students_serial'))`); err != nil {
			return err
		}
		var serial int
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(serial_number), 0) + 1 FROM students`).Scan(&serial); err != nil {
			return err
		}

		const query = `
			INSERT INTO students (serial_number, name, mobile_phone, parent_phone, city, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING ` + studentColumns
		return tx.QueryRow(ctx, query, serial, input.Name, input.MobilePhone, input.ParentPhone, input.City).
			Scan(&s.ID, &s.SerialNumber, &s.Name, &s.MobilePhone, &s.ParentPhone, &s.City, &s.CreatedAt, &s.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var _ Repository = (*PGRepository)(nil)
