package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scienceclub/hallhub/internal/shared"
)

type stubRepo struct {
	Repository
	halls      map[int64]Hall
	nextHallID int64
	deletedIDs []int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{halls: make(map[int64]Hall), nextHallID: 1}
}

func (s *stubRepo) CreateHall(ctx context.Context, hall Hall) (Hall, error) {
	hall.ID = s.nextHallID
	s.nextHallID++
	s.halls[hall.ID] = hall
	return hall, nil
}

func (s *stubRepo) UpdateHall(ctx context.Context, id int64, hall Hall) error {
	if _, ok := s.halls[id]; !ok {
		return shared.ErrNotFound
	}
	hall.ID = id
	s.halls[id] = hall
	return nil
}

func (s *stubRepo) DeleteHall(ctx context.Context, id int64) error {
	delete(s.halls, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

type memorySink struct {
	entries []shared.AuditEntry
}

func (m *memorySink) Record(ctx context.Context, entry shared.AuditEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func TestCreateHallValidatesAndRecordsAudit(t *testing.T) {
	repo := newStubRepo()
	sink := &memorySink{}
	service := NewService(repo, sink, nil)

	_, err := service.CreateHall(context.Background(), 7, Hall{Name: " ", Capacity: 20, HourlyRate: 50})
	require.ErrorIs(t, err, errNameRequired)

	_, err = service.CreateHall(context.Background(), 7, Hall{Name: "قاعة أ", Capacity: 0, HourlyRate: 50})
	require.ErrorIs(t, err, errInvalidCapacity)

	_, err = service.CreateHall(context.Background(), 7, Hall{Name: "قاعة أ", Capacity: 20, HourlyRate: -1})
	require.ErrorIs(t, err, errInvalidRate)

	require.Empty(t, sink.entries, "rejected input must not reach the audit trail")

	created, err := service.CreateHall(context.Background(), 7, Hall{Name: "قاعة أ", Capacity: 20, HourlyRate: 50})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	require.Equal(t, shared.ActionHallCreated, entry.Action)
	require.Equal(t, int64(7), entry.ActorUserID)
	require.Equal(t, "قاعة أ", entry.Details["name"])
}

func TestUpdateHallRecordsUpdateEntry(t *testing.T) {
	repo := newStubRepo()
	repo.halls[3] = Hall{ID: 3, Name: "قديمة", Capacity: 10, HourlyRate: 40}
	sink := &memorySink{}
	service := NewService(repo, sink, nil)

	err := service.UpdateHall(context.Background(), 2, 3, Hall{Name: "محدثة", Capacity: 15, HourlyRate: 45})
	require.NoError(t, err)
	require.Equal(t, "محدثة", repo.halls[3].Name)

	require.Len(t, sink.entries, 1)
	require.Equal(t, shared.ActionHallUpdated, sink.entries[0].Action)
}

func TestDeleteHallRecordsDeleteEntry(t *testing.T) {
	repo := newStubRepo()
	repo.halls[5] = Hall{ID: 5, Name: "للحذف", Capacity: 8, HourlyRate: 30}
	sink := &memorySink{}
	service := NewService(repo, sink, nil)

	require.NoError(t, service.DeleteHall(context.Background(), 1, 5))
	require.Equal(t, []int64{5}, repo.deletedIDs)
	require.Len(t, sink.entries, 1)
	require.Equal(t, shared.ActionHallDeleted, sink.entries[0].Action)
	require.Equal(t, int64(5), sink.entries[0].Details["hall_id"])
}
