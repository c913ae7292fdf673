package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// EnrollmentService manages which students attend which courses
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID int64) error
	Unenroll(ctx context.Context, studentID, courseID int64) error
	EnrollByCourseName(ctx context.Context, studentID int64, courseName string) error
	UnenrollByCourseName(ctx context.Context, studentID int64, courseName string) error
	GetCourseStudents(ctx context.Context, courseID int64) ([]*models.Student, error)
	GetStudentsByCourseName(ctx context.Context, courseName string) ([]*models.Student, error)
	GetStudentCourses(ctx context.Context, studentID int64) ([]*models.Course, error)
}

type enrollmentServiceImpl struct {
	store  *db.Store
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(store *db.Store, repos *repositories.Repositories, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		store:  store,
		repos:  repos,
		logger: logger,
	}
}

func validatePair(studentID, courseID int64) error {
	return validation.All(
		validation.ID("student ID", studentID),
		validation.ID("course ID", courseID),
	)
}

func validateNamedPair(studentID int64, courseName string) error {
	return validation.All(
		validation.ID("student ID", studentID),
		validation.Name("course", courseName),
	)
}

// courseRef resolves the course side of an enrollment inside the transaction
type courseRef func(ctx context.Context, repos *repositories.Repositories) (int64, error)

func courseByID(id int64) courseRef {
	return func(ctx context.Context, repos *repositories.Repositories) (int64, error) {
		return id, requireExists(ctx, repos.Courses.Exists, id, apperrors.ErrCourseNotFound)
	}
}

func courseByName(name string) courseRef {
	return func(ctx context.Context, repos *repositories.Repositories) (int64, error) {
		course, err := repos.Courses.GetByName(ctx, name)
		if err != nil {
			return 0, err
		}
		return course.ID, nil
	}
}

// Enroll adds the student to the course
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID int64) error {
	if err := validatePair(studentID, courseID); err != nil {
		return err
	}
	return s.enroll(ctx, studentID, courseByID(courseID))
}

// EnrollByCourseName adds the student to the course with the given name
func (s *enrollmentServiceImpl) EnrollByCourseName(ctx context.Context, studentID int64, courseName string) error {
	if err := validateNamedPair(studentID, courseName); err != nil {
		return err
	}
	return s.enroll(ctx, studentID, courseByName(courseName))
}

// Unenroll removes the student from the course
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, studentID, courseID int64) error {
	if err := validatePair(studentID, courseID); err != nil {
		return err
	}
	return s.unenroll(ctx, studentID, courseByID(courseID))
}

// UnenrollByCourseName removes the student from the course with the given name
func (s *enrollmentServiceImpl) UnenrollByCourseName(ctx context.Context, studentID int64, courseName string) error {
	if err := validateNamedPair(studentID, courseName); err != nil {
		return err
	}
	return s.unenroll(ctx, studentID, courseByName(courseName))
}

// enroll checks the student first, then the course, then the pair
func (s *enrollmentServiceImpl) enroll(ctx context.Context, studentID int64, course courseRef) error {
	var courseID int64
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := s.repos.WithTx(tx)
		if err := requireStudent(ctx, repos, studentID); err != nil {
			return err
		}

		var err error
		if courseID, err = course(ctx, repos); err != nil {
			return err
		}

		enrolled, err := repos.Enrollments.Exists(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			return apperrors.ErrAlreadyEnrolled
		}

		return repos.Enrollments.Add(ctx, studentID, courseID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Msg("Student enrolled in course")
	return nil
}

func (s *enrollmentServiceImpl) unenroll(ctx context.Context, studentID int64, course courseRef) error {
	var courseID int64
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := s.repos.WithTx(tx)
		if err := requireStudent(ctx, repos, studentID); err != nil {
			return err
		}

		var err error
		if courseID, err = course(ctx, repos); err != nil {
			return err
		}

		removed, err := repos.Enrollments.Remove(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.ErrNotEnrolled
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("courseID", courseID).
		Msg("Student removed from course")
	return nil
}

// GetCourseStudents lists the students enrolled in a course
func (s *enrollmentServiceImpl) GetCourseStudents(ctx context.Context, courseID int64) ([]*models.Student, error) {
	if err := validation.ID("course ID", courseID); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.repos.Courses.Exists, courseID, apperrors.ErrCourseNotFound); err != nil {
		return nil, err
	}

	students, err := s.repos.Enrollments.StudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course students: %w", err)
	}
	return students, nil
}

// GetStudentsByCourseName lists the students enrolled in the named course
func (s *enrollmentServiceImpl) GetStudentsByCourseName(ctx context.Context, courseName string) ([]*models.Student, error) {
	if err := validation.Name("course", courseName); err != nil {
		return nil, err
	}

	exists, err := s.repos.Courses.ExistsByName(ctx, courseName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrCourseNotFound
	}

	students, err := s.repos.Enrollments.StudentsByCourseName(ctx, courseName)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course students: %w", err)
	}
	return students, nil
}

// GetStudentCourses lists the courses a student is enrolled in
func (s *enrollmentServiceImpl) GetStudentCourses(ctx context.Context, studentID int64) ([]*models.Course, error) {
	if err := validation.ID("student ID", studentID); err != nil {
		return nil, err
	}
	if err := requireStudent(ctx, s.repos, studentID); err != nil {
		return nil, err
	}

	courses, err := s.repos.Enrollments.CoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student courses: %w", err)
	}
	return courses, nil
}
