package resources

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scienceclub/hallhub/internal/shared"
)

// Repository defines persistence operations for bookable resources.
type Repository interface {
	ListHalls(ctx context.Context) ([]Hall, error)
	GetHall(ctx context.Context, id int64) (Hall, error)
	CreateHall(ctx context.Context, hall Hall) (Hall, error)
	UpdateHall(ctx context.Context, id int64, hall Hall) error
	DeleteHall(ctx context.Context, id int64) error

	ListTeachers(ctx context.Context) ([]Teacher, error)
	GetTeacher(ctx context.Context, id int64) (Teacher, error)
	CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error)
	UpdateTeacher(ctx context.Context, id int64, teacher Teacher) error
	DeleteTeacher(ctx context.Context, id int64) error

	ListSubjects(ctx context.Context) ([]Subject, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)
	CreateSubject(ctx context.Context, subject Subject) (Subject, error)
	UpdateSubject(ctx context.Context, id int64, subject Subject) error
	DeleteSubject(ctx context.Context, id int64) error

	ListStages(ctx context.Context) ([]Stage, error)
	GetStage(ctx context.Context, id int64) (Stage, error)
	CreateStage(ctx context.Context, stage Stage) (Stage, error)
	UpdateStage(ctx context.Context, id int64, stage Stage) error
	DeleteStage(ctx context.Context, id int64) error
}

type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates a resource repository backed by PostgreSQL.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

func notFoundErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

// Hall operations

func (r *repo) ListHalls(ctx context.Context) ([]Hall, error) {
	query := `SELECT id, name, capacity, hourly_rate, notes, created_at, updated_at FROM halls ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var halls []Hall
	for rows.Next() {
		var h Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Capacity, &h.HourlyRate, &h.Notes, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}

func (r *repo) GetHall(ctx context.Context, id int64) (Hall, error) {
	query := `SELECT id, name, capacity, hourly_rate, notes, created_at, updated_at FROM halls WHERE id = $1`
	var h Hall
	err := r.db.QueryRow(ctx, query, id).Scan(&h.ID, &h.Name, &h.Capacity, &h.HourlyRate, &h.Notes, &h.CreatedAt, &h.UpdatedAt)
	return h, notFoundErr(err)
}

func (r *repo) CreateHall(ctx context.Context, hall Hall) (Hall, error) {
	query := `INSERT INTO halls (name, capacity, hourly_rate, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, hall.Name, hall.Capacity, hall.HourlyRate, hall.Notes, now, now).Scan(&hall.ID)
	if err != nil {
		return Hall{}, err
	}
	hall.CreatedAt = now
	hall.UpdatedAt = now
	return hall, nil
}

func (r *repo) UpdateHall(ctx context.Context, id int64, hall Hall) error {
	query := `UPDATE halls SET name = $1, capacity = $2, hourly_rate = $3, notes = $4, updated_at = $5 WHERE id = $6`
	_, err := r.db.Exec(ctx, query, hall.Name, hall.Capacity, hall.HourlyRate, hall.Notes, time.Now(), id)
	return err
}

func (r *repo) DeleteHall(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM halls WHERE id = $1`, id)
	return err
}

// Teacher operations

func (r *repo) ListTeachers(ctx context.Context) ([]Teacher, error) {
	query := `SELECT id, name, phone, specialty, created_at, updated_at FROM teachers ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Phone, &t.Specialty, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

func (r *repo) GetTeacher(ctx context.Context, id int64) (Teacher, error) {
	query := `SELECT id, name, phone, specialty, created_at, updated_at FROM teachers WHERE id = $1`
	var t Teacher
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Phone, &t.Specialty, &t.CreatedAt, &t.UpdatedAt)
	return t, notFoundErr(err)
}

func (r *repo) CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error) {
	query := `INSERT INTO teachers (name, phone, specialty, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, teacher.Name, teacher.Phone, teacher.Specialty, now, now).Scan(&teacher.ID)
	if err != nil {
		return Teacher{}, err
	}
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	return teacher, nil
}

func (r *repo) UpdateTeacher(ctx context.Context, id int64, teacher Teacher) error {
	query := `UPDATE teachers SET name = $1, phone = $2, specialty = $3, updated_at = $4 WHERE id = $5`
	_, err := r.db.Exec(ctx, query, teacher.Name, teacher.Phone, teacher.Specialty, time.Now(), id)
	return err
}

func (r *repo) DeleteTeacher(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}

// Subject operations

func (r *repo) ListSubjects(ctx context.Context) ([]Subject, error) {
	query := `SELECT id, name, created_at, updated_at FROM subjects ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *repo) GetSubject(ctx context.Context, id int64) (Subject, error) {
	query := `SELECT id, name, created_at, updated_at FROM subjects WHERE id = $1`
	var s Subject
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	return s, notFoundErr(err)
}

func (r *repo) CreateSubject(ctx context.Context, subject Subject) (Subject, error) {
	query := `INSERT INTO subjects (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, subject.Name, now, now).Scan(&subject.ID)
	if err != nil {
		return Subject{}, err
	}
	subject.CreatedAt = now
	subject.UpdatedAt = now
	return subject, nil
}

func (r *repo) UpdateSubject(ctx context.Context, id int64, subject Subject) error {
	query := `UPDATE subjects SET name = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, subject.Name, time.Now(), id)
	return err
}

func (r *repo) DeleteSubject(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	return err
}

// Stage operations

func (r *repo) ListStages(ctx context.Context) ([]Stage, error) {
	query := `SELECT id, name, sort_order, created_at, updated_at FROM stages ORDER BY sort_order, name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []Stage
	for rows.Next() {
		var s Stage
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func (r *repo) GetStage(ctx context.Context, id int64) (Stage, error) {
	query := `SELECT id, name, sort_order, created_at, updated_at FROM stages WHERE id = $1`
	var s Stage
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	return s, notFoundErr(err)
}

func (r *repo) CreateStage(ctx context.Context, stage Stage) (Stage, error) {
	query := `INSERT INTO stages (name, sort_order, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, stage.Name, stage.SortOrder, now, now).Scan(&stage.ID)
	if err != nil {
		return Stage{}, err
	}
	stage.CreatedAt = now
	stage.UpdatedAt = now
	return stage, nil
}

func (r *repo) UpdateStage(ctx context.Context, id int64, stage Stage) error {
	query := `UPDATE stages SET name = $1, sort_order = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.Exec(ctx, query, stage.Name, stage.SortOrder, time.Now(), id)
	return err
}

func (r *repo) DeleteStage(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM stages WHERE id = $1`, id)
	return err
}
