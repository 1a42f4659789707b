package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the aggregate queries behind the report pages.
type Repository interface {
	Totals(ctx context.Context, from, to time.Time) (float64, int, error)
	IncomeByHall(ctx context.Context, from, to time.Time) ([]HallIncome, error)
	Groups(ctx context.Context) ([]GroupReport, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Totals returns the overall income and booking count for the range.
func (r *PGRepository) Totals(ctx context.Context, from, to time.Time) (float64, int, error) {
	const query = `
		SELECT COALESCE(SUM(price), 0), COUNT(*)
		FROM bookings
		WHERE starts_at >= $1 AND starts_at < $2`
	var (
		total float64
		count int
	)
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&total, &count)
	return total, count, err
}

// IncomeByHall returns income aggregated per hall, highest earner first.
func (r *PGRepository) IncomeByHall(ctx context.Context, from, to time.Time) ([]HallIncome, error) {
	const query = `
		SELECT h.id, h.name, COUNT(b.id), COALESCE(SUM(b.price), 0)
		FROM halls h
		LEFT JOIN bookings b ON b.hall_id = h.id AND b.starts_at >= $1 AND b.starts_at < $2
		GROUP BY h.id, h.name
		HAVING COUNT(b.id) > 0
		ORDER BY COALESCE(SUM(b.price), 0) DESC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var halls []HallIncome
	for rows.Next() {
		var h HallIncome
		if err := rows.Scan(&h.HallID, &h.HallName, &h.BookingCount, &h.Income); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	return halls, rows.Err()
}

// Groups returns bookings aggregated by subject, stage and teacher.
func (r *PGRepository) Groups(ctx context.Context) ([]GroupReport, error) {
	const query = `
		SELECT sub.name, st.name, t.name, COUNT(b.id), COALESCE(SUM(b.price), 0)
		FROM bookings b
		JOIN subjects sub ON sub.id = b.subject_id
		JOIN stages st ON st.id = b.stage_id
		JOIN teachers t ON t.id = b.teacher_id
		GROUP BY sub.name, st.name, t.name
		ORDER BY sub.name, st.name, t.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []GroupReport
	for rows.Next() {
		var g GroupReport
		if err := rows.Scan(&g.SubjectName, &g.StageName, &g.TeacherName, &g.BookingCount, &g.Income); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
