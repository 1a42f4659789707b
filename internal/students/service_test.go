package students

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scienceclub/hallhub/internal/shared"
)

type stubRepo struct {
	students []Student
	nextID   int64
}

func (s *stubRepo) ListStudents(ctx context.Context) ([]Student, error) {
	out := make([]Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

func (s *stubRepo) GetStudent(ctx context.Context, id int64) (*Student, error) {
	for _, st := range s.students {
		if st.ID == id {
			copied := st
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) CreateStudent(ctx context.Context, input NewStudentInput) (*Student, error) {
	s.nextID++
	maxSerial := 0
	for _, st := range s.students {
		if st.SerialNumber > maxSerial {
			maxSerial = st.SerialNumber
		}
	}
	student := Student{
		ID:           s.nextID,
		SerialNumber: maxSerial + 1,
		Name:         input.Name,
		MobilePhone:  input.MobilePhone,
		ParentPhone:  input.ParentPhone,
		City:         input.City,
	}
	s.students = append(s.students, student)
	return &student, nil
}

func TestListStudentsSortsWithArabicCollation(t *testing.T) {
	repo := &stubRepo{students: []Student{
		{ID: 1, Name: "يوسف"},
		{ID: 2, Name: "أحمد"},
		{ID: 3, Name: "محمد"},
	}}
	service := NewService(repo)

	students, err := service.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 3)

	names := []string{students[0].Name, students[1].Name, students[2].Name}
	require.Equal(t, []string{"أحمد", "محمد", "يوسف"}, names)
}

func TestRegisterStudentAssignsSequentialSerials(t *testing.T) {
	repo := &stubRepo{}
	service := NewService(repo)

	first, err := service.RegisterStudent(context.Background(), NewStudentInput{Name: "سارة", MobilePhone: "0100000000"})
	require.NoError(t, err)
	require.Equal(t, 1, first.SerialNumber)

	second, err := service.RegisterStudent(context.Background(), NewStudentInput{Name: "ليلى", MobilePhone: "0100000001"})
	require.NoError(t, err)
	require.Equal(t, 2, second.SerialNumber)
}

func TestGetStudentNotFound(t *testing.T) {
	service := NewService(&stubRepo{})
	_, err := service.GetStudent(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
