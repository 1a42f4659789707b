package reports

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const dayLayout = "2006-01-02"

// Service assembles the report pages. Aggregate queries for one page run
// concurrently and results are cached in Redis until the next bump.
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService builds a Service instance.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Summary returns the financial overview for the range.
func (s *Service) Summary(ctx context.Context, r Range) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, keySummary(r.From.Format(dayLayout), r.To.Format(dayLayout)))
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		return s.loadSummary(ctx, r)
	})
	return summary, err
}

func (s *Service) loadSummary(ctx context.Context, r Range) (Summary, error) {
	var summary Summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, count, err := s.repo.Totals(ctx, r.From, r.To)
		if err != nil {
			return err
		}
		summary.TotalIncome = total
		summary.BookingCount = count
		return nil
	})
	g.Go(func() error {
		halls, err := s.repo.IncomeByHall(ctx, r.From, r.To)
		if err != nil {
			return err
		}
		summary.Halls = halls
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Groups returns the per-group aggregates.
func (s *Service) Groups(ctx context.Context) ([]GroupReport, error) {
	key, err := s.cache.BuildKey(ctx, keyGroups())
	if err != nil {
		return nil, err
	}
	var groups []GroupReport
	err = s.cache.FetchJSON(ctx, key, &groups, func(ctx context.Context) (interface{}, error) {
		return s.repo.Groups(ctx)
	})
	return groups, err
}

// Invalidate drops every cached report. Booking mutations call this.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
