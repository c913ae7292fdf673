package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	store *db.Store
	repos *repositories.Repositories
}

// NewStudentService creates a new student service instance
func NewStudentService(store *db.Store, repos *repositories.Repositories) StudentService {
	return &studentServiceImpl{
		store: store,
		repos: repos,
	}
}

func validateStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}
	return validation.All(
		validation.Name("firstName", student.FirstName),
		validation.Name("lastName", student.LastName),
	)
}

// CreateStudent creates a new student. A positive student.ID is used as the
// new row's ID; zero lets the database assign one.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := validateStudent(student); err != nil {
		return err
	}
	if student.ID < 0 {
		return fmt.Errorf("%w: invalid student ID", apperrors.ErrValidationFailed)
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.repos.WithTx(tx).Students.Create(ctx, student)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	if err := validation.ID("student ID", id); err != nil {
		return nil, err
	}

	student, err := s.repos.Students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetAllStudents retrieves all students
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	students, err := s.repos.Students.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// UpdateStudent replaces the names of an existing student
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, student *models.Student) error {
	if err := validateStudent(student); err != nil {
		return err
	}
	if err := validation.ID("student ID", student.ID); err != nil {
		return err
	}

	if err := s.repos.Students.Update(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

// DeleteStudent deletes a student and, through the foreign keys, all of its
// enrollments and group memberships.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := validation.ID("student ID", id); err != nil {
		return err
	}

	if err := s.repos.Students.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error deleting student: %w", err)
	}
	return nil
}
