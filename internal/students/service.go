package students

import (
	"context"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Service handles student registration and listing.
type Service struct {
	repo     Repository
	collator *collate.Collator
}

// NewService builds a Service instance. Listing sorts names with an Arabic
// collator because byte order scrambles Arabic script.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		collator: collate.New(language.Arabic),
	}
}

// ListStudents returns all students sorted by name under Arabic collation.
func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool {
		return s.collator.CompareString(students[i].Name, students[j].Name) < 0
	})
	return students, nil
}

// GetStudent returns one student profile.
func (s *Service) GetStudent(ctx context.Context, id int64) (*Student, error) {
	return s.repo.GetStudent(ctx, id)
}

// RegisterStudent creates a student with the next serial number.
func (s *Service) RegisterStudent(ctx context.Context, input NewStudentInput) (*Student, error) {
	return s.repo.CreateStudent(ctx, input)
}
