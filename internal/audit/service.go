package audit

import (
	"context"
	"fmt"
)

// Service coordinates audit log retrieval and reconstruction.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List fetches events, then directory entries for exactly the actor IDs
// the events reference, and reconstructs the display log. The two fetches
// are deliberately sequential: the directory filter set depends on the
// event result. Fetch failures propagate as-is; there is no retry and no
// partial result.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	actorIDs := DistinctActorIDs(events)
	var actors []Actor
	if len(actorIDs) > 0 {
		actors, err = s.repo.ListActorsByIDs(ctx, actorIDs)
		if err != nil {
			return nil, err
		}
	}
	return Reconstruct(events, actors), nil
}
