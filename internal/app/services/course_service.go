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

// CourseService defines the interface for course-related operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

type courseServiceImpl struct {
	store *db.Store
	repos *repositories.Repositories
}

// NewCourseService creates a new course service instance
func NewCourseService(store *db.Store, repos *repositories.Repositories) CourseService {
	return &courseServiceImpl{
		store: store,
		repos: repos,
	}
}

func validateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}
	return validation.All(
		validation.Name("name", course.Name),
		validation.NewStringValidation("description", course.Description).
			WithRequired(false).
			WithMaxLength(validation.DescriptionMaxLength).
			Validate(),
	)
}

// isCourseConflict reports the domain errors a write may surface unchanged
func isCourseConflict(err error) bool {
	return errors.Is(err, apperrors.ErrCourseNameAlreadyExists) ||
		errors.Is(err, apperrors.ErrCourseIDAlreadyExists)
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := validateCourse(course); err != nil {
		return err
	}
	if course.ID < 0 {
		return fmt.Errorf("%w: invalid course ID", apperrors.ErrValidationFailed)
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.repos.WithTx(tx).Courses.Create(ctx, course)
	})
	if err != nil {
		if isCourseConflict(err) {
			return err
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if err := validation.ID("course ID", id); err != nil {
		return nil, err
	}

	course, err := s.repos.Courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repos.Courses.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// UpdateCourse replaces name and description of an existing course
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := validateCourse(course); err != nil {
		return err
	}
	if err := validation.ID("course ID", course.ID); err != nil {
		return err
	}

	if err := s.repos.Courses.Update(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) || isCourseConflict(err) {
			return err
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	return nil
}

// DeleteCourse deletes a course and its enrollments
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := validation.ID("course ID", id); err != nil {
		return err
	}

	if err := s.repos.Courses.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	return nil
}
