package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	totalsCalls int
	hallsCalls  int
	groupsCalls int
}

func (s *stubRepo) Totals(ctx context.Context, from, to time.Time) (float64, int, error) {
	s.totalsCalls++
	return 1250.50, 9, nil
}

func (s *stubRepo) IncomeByHall(ctx context.Context, from, to time.Time) ([]HallIncome, error) {
	s.hallsCalls++
	return []HallIncome{
		{HallID: 1, HallName: "قاعة أ", BookingCount: 6, Income: 900},
		{HallID: 2, HallName: "قاعة ب", BookingCount: 3, Income: 350.50},
	}, nil
}

func (s *stubRepo) Groups(ctx context.Context) ([]GroupReport, error) {
	s.groupsCalls++
	return []GroupReport{
		{SubjectName: "فيزياء", StageName: "ثانوي", TeacherName: "أ. محمد", BookingCount: 4, Income: 600},
	}, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &stubRepo{}
	return NewService(repo, NewCache(client, time.Minute)), repo
}

func testRange() Range {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return Range{From: from, To: from.AddDate(0, 1, 0)}
}

func TestSummaryAggregatesConcurrently(t *testing.T) {
	service, repo := newTestService(t)

	summary, err := service.Summary(context.Background(), testRange())
	require.NoError(t, err)
	require.Equal(t, 1250.50, summary.TotalIncome)
	require.Equal(t, 9, summary.BookingCount)
	require.Len(t, summary.Halls, 2)
	require.Equal(t, "قاعة أ", summary.Halls[0].HallName)
	require.Equal(t, 1, repo.totalsCalls)
	require.Equal(t, 1, repo.hallsCalls)
}

func TestSummaryServedFromCacheUntilInvalidated(t *testing.T) {
	service, repo := newTestService(t)

	_, err := service.Summary(context.Background(), testRange())
	require.NoError(t, err)
	_, err = service.Summary(context.Background(), testRange())
	require.NoError(t, err)
	require.Equal(t, 1, repo.totalsCalls, "second read must hit the cache")

	require.NoError(t, service.Invalidate(context.Background()))

	_, err = service.Summary(context.Background(), testRange())
	require.NoError(t, err)
	require.Equal(t, 2, repo.totalsCalls, "bump must force a reload")
}

func TestGroupsCached(t *testing.T) {
	service, repo := newTestService(t)

	groups, err := service.Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, "فيزياء", groups[0].SubjectName)

	_, err = service.Groups(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.groupsCalls)
}
