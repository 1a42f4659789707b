package audit

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type stubRepo struct {
	events      []Event
	actors      []Actor
	eventsErr   error
	actorsErr   error
	actorsAsked []int64
	actorCalls  int
}

func (s *stubRepo) ListEvents(ctx context.Context) ([]Event, error) {
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	return s.events, nil
}

func (s *stubRepo) ListActorsByIDs(ctx context.Context, ids []int64) ([]Actor, error) {
	s.actorCalls++
	s.actorsAsked = ids
	if s.actorsErr != nil {
		return nil, s.actorsErr
	}
	return s.actors, nil
}

func TestServiceListFetchesExactActorSet(t *testing.T) {
	repo := &stubRepo{
		events: []Event{
			{ID: 1, ActorUserID: 4, Action: "booking_created", OccurredAt: time.Now()},
			{ID: 2, ActorUserID: 9, Action: "booking_updated", OccurredAt: time.Now()},
			{ID: 3, ActorUserID: 4, Action: "booking_deleted", OccurredAt: time.Now()},
		},
		actors: []Actor{{UserID: 4, Name: "منى"}, {UserID: 9, Name: "خالد"}},
	}
	svc := NewService(repo)
	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !reflect.DeepEqual(repo.actorsAsked, []int64{4, 9}) {
		t.Fatalf("directory fetched %v, want exactly the distinct actor set", repo.actorsAsked)
	}
}

func TestServiceListSkipsDirectoryFetchWithoutEvents(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(entries))
	}
	if repo.actorCalls != 0 {
		t.Fatalf("directory must not be queried when there are no events")
	}
}

func TestServiceListPropagatesEventFetchError(t *testing.T) {
	want := errors.New("database unavailable")
	svc := NewService(&stubRepo{eventsErr: want})
	if _, err := svc.List(context.Background()); !errors.Is(err, want) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestServiceListPropagatesDirectoryFetchError(t *testing.T) {
	want := errors.New("directory unavailable")
	repo := &stubRepo{
		events:    []Event{{ID: 1, ActorUserID: 2, Action: "hall_created", OccurredAt: time.Now()}},
		actorsErr: want,
	}
	svc := NewService(repo)
	if _, err := svc.List(context.Background()); !errors.Is(err, want) {
		t.Fatalf("expected propagated error, got %v", err)
	}
}
