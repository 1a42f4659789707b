package resources

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/scienceclub/hallhub/internal/shared"
)

// Service wraps resource management business rules and records every
// mutation in the audit trail.
type Service struct {
	repo   Repository
	audit  shared.AuditSink
	logger *slog.Logger
}

// NewService creates a resource service.
func NewService(repo Repository, audit shared.AuditSink, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

var (
	errNameRequired    = errors.New("name is required")
	errInvalidCapacity = errors.New("capacity must be positive")
	errInvalidRate     = errors.New("hourly rate must not be negative")
)

// Hall operations

func (s *Service) ListHalls(ctx context.Context) ([]Hall, error) {
	return s.repo.ListHalls(ctx)
}

func (s *Service) GetHall(ctx context.Context, id int64) (Hall, error) {
	return s.repo.GetHall(ctx, id)
}

func (s *Service) CreateHall(ctx context.Context, actorID int64, hall Hall) (Hall, error) {
	if err := validateHall(hall); err != nil {
		return Hall{}, err
	}
	created, err := s.repo.CreateHall(ctx, hall)
	if err != nil {
		return Hall{}, err
	}
	s.record(ctx, actorID, shared.ActionHallCreated, map[string]any{"hall_id": created.ID, "name": created.Name})
	return created, nil
}

func (s *Service) UpdateHall(ctx context.Context, actorID, id int64, hall Hall) error {
	if err := validateHall(hall); err != nil {
		return err
	}
	if err := s.repo.UpdateHall(ctx, id, hall); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionHallUpdated, map[string]any{"hall_id": id, "name": hall.Name})
	return nil
}

func (s *Service) DeleteHall(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteHall(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionHallDeleted, map[string]any{"hall_id": id})
	return nil
}

func validateHall(hall Hall) error {
	if strings.TrimSpace(hall.Name) == "" {
		return errNameRequired
	}
	if hall.Capacity <= 0 {
		return errInvalidCapacity
	}
	if hall.HourlyRate < 0 {
		return errInvalidRate
	}
	return nil
}

// Teacher operations

func (s *Service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return s.repo.ListTeachers(ctx)
}

func (s *Service) GetTeacher(ctx context.Context, id int64) (Teacher, error) {
	return s.repo.GetTeacher(ctx, id)
}

func (s *Service) CreateTeacher(ctx context.Context, actorID int64, teacher Teacher) (Teacher, error) {
	if strings.TrimSpace(teacher.Name) == "" {
		return Teacher{}, errNameRequired
	}
	created, err := s.repo.CreateTeacher(ctx, teacher)
	if err != nil {
		return Teacher{}, err
	}
	s.record(ctx, actorID, shared.ActionTeacherCreated, map[string]any{"teacher_id": created.ID, "name": created.Name})
	return created, nil
}

func (s *Service) UpdateTeacher(ctx context.Context, actorID, id int64, teacher Teacher) error {
	if strings.TrimSpace(teacher.Name) == "" {
		return errNameRequired
	}
	if err := s.repo.UpdateTeacher(ctx, id, teacher); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionTeacherUpdated, map[string]any{"teacher_id": id, "name": teacher.Name})
	return nil
}

func (s *Service) DeleteTeacher(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionTeacherDeleted, map[string]any{"teacher_id": id})
	return nil
}

// Subject operations

func (s *Service) ListSubjects(ctx context.Context) ([]Subject, error) {
	return s.repo.ListSubjects(ctx)
}

func (s *Service) GetSubject(ctx context.Context, id int64) (Subject, error) {
	return s.repo.GetSubject(ctx, id)
}

func (s *Service) CreateSubject(ctx context.Context, actorID int64, subject Subject) (Subject, error) {
	if strings.TrimSpace(subject.Name) == "" {
		return Subject{}, errNameRequired
	}
	created, err := s.repo.CreateSubject(ctx, subject)
	if err != nil {
		return Subject{}, err
	}
	s.record(ctx, actorID, shared.ActionSubjectCreated, map[string]any{"subject_id": created.ID, "name": created.Name})
	return created, nil
}

func (s *Service) UpdateSubject(ctx context.Context, actorID, id int64, subject Subject) error {
	if strings.TrimSpace(subject.Name) == "" {
		return errNameRequired
	}
	if err := s.repo.UpdateSubject(ctx, id, subject); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionSubjectUpdated, map[string]any{"subject_id": id, "name": subject.Name})
	return nil
}

func (s *Service) DeleteSubject(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteSubject(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionSubjectDeleted, map[string]any{"subject_id": id})
	return nil
}

// Stage operations

func (s *Service) ListStages(ctx context.Context) ([]Stage, error) {
	return s.repo.ListStages(ctx)
}

func (s *Service) GetStage(ctx context.Context, id int64) (Stage, error) {
	return s.repo.GetStage(ctx, id)
}

func (s *Service) CreateStage(ctx context.Context, actorID int64, stage Stage) (Stage, error) {
	if strings.TrimSpace(stage.Name) == "" {
		return Stage{}, errNameRequired
	}
	created, err := s.repo.CreateStage(ctx, stage)
	if err != nil {
		return Stage{}, err
	}
	s.record(ctx, actorID, shared.ActionStageCreated, map[string]any{"stage_id": created.ID, "name": created.Name})
	return created, nil
}

func (s *Service) UpdateStage(ctx context.Context, actorID, id int64, stage Stage) error {
	if strings.TrimSpace(stage.Name) == "" {
		return errNameRequired
	}
	if err := s.repo.UpdateStage(ctx, id, stage); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionStageUpdated, map[string]any{"stage_id": id, "name": stage.Name})
	return nil
}

func (s *Service) DeleteStage(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteStage(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, shared.ActionStageDeleted, map[string]any{"stage_id": id})
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, details map[string]any) {
	err := s.audit.Record(ctx, shared.AuditEntry{
		ActorUserID: actorID,
		Action:      action,
		Details:     details,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit entry", slog.String("action", action), slog.Any("error", err))
	}
}
