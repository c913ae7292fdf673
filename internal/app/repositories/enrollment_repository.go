package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// EnrollmentRepository manages the student_courses link table
type EnrollmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(q db.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: q,
		sb: newStatementBuilder(),
	}
}

// Exists reports whether the student is enrolled in the course
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("student_courses").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Error checking enrollment")
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// Add enrolls a student in a course
func (r *EnrollmentRepository) Add(ctx context.Context, studentID, courseID int64) error {
	sql, args, err := r.sb.Insert("student_courses").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building enroll SQL")
		return fmt.Errorf("failed to build enroll query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("Student or course not found")
		}
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Error executing enroll query")
		return fmt.Errorf("error enrolling student: %w", err)
	}
	return nil
}

// Remove deletes an enrollment and reports whether one existed
func (r *EnrollmentRepository) Remove(ctx context.Context, studentID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Delete("student_courses").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building unenroll SQL")
		return false, fmt.Errorf("failed to build unenroll query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("courseID", courseID).
			Msg("Error executing unenroll query")
		return false, fmt.Errorf("error unenrolling student: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// StudentsByCourse lists the students enrolled in a course, ordered by student ID
func (r *EnrollmentRepository) StudentsByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return r.students(ctx, squirrel.Eq{"sc.course_id": courseID}, false)
}

// StudentsByCourseName lists the students enrolled in the course with the given name
func (r *EnrollmentRepository) StudentsByCourseName(ctx context.Context, courseName string) ([]*models.Student, error) {
	return r.students(ctx, squirrel.Eq{"c.name": courseName}, true)
}

func (r *EnrollmentRepository) students(ctx context.Context, where squirrel.Eq, joinCourse bool) ([]*models.Student, error) {
	query := r.sb.Select(studentColumns...).
		From("students s").
		Join("student_courses sc ON sc.student_id = s.id")
	if joinCourse {
		query = query.Join("courses c ON c.id = sc.course_id")
	}

	sql, args, err := query.Where(where).OrderBy("s.id ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building course students SQL")
		return nil, fmt.Errorf("failed to build course students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing course students query")
		return nil, fmt.Errorf("error querying course students: %w", err)
	}

	return scanStudents(rows)
}

// CoursesByStudent lists the courses a student is enrolled in, ordered by course ID
func (r *EnrollmentRepository) CoursesByStudent(ctx context.Context, studentID int64) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses c").
		Join("student_courses sc ON sc.course_id = c.id").
		Where(squirrel.Eq{"sc.student_id": studentID}).
		OrderBy("c.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student courses SQL")
		return nil, fmt.Errorf("failed to build student courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing student courses query")
		return nil, fmt.Errorf("error querying student courses: %w", err)
	}

	return scanCourses(rows)
}
