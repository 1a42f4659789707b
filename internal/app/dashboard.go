package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// DashboardStats carries the headline counts shown on the home page.
type DashboardStats struct {
	BookingCount int64
	StudentCount int64
	HallCount    int64
}

// DashboardRepository loads home page counters.
type DashboardRepository struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts aggregates the dashboard counters concurrently.
func (r *DashboardRepository) Counts(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&stats.BookingCount)
	})
	g.Go(func() error {
		return r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&stats.StudentCount)
	})
	g.Go(func() error {
		return r.db.QueryRow(ctx, `SELECT COUNT(*) FROM halls`).Scan(&stats.HallCount)
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
