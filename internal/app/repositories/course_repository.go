package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/dberrors"
	"github.com/yigit/enrollment/internal/pkg/helpers"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

const (
	coursesPrimaryKey = "courses_pkey"
	coursesNameKey    = "courses_name_key"
)

var courseColumns = []string{"c.id", "c.name", "COALESCE(c.description, '') AS description"}

// CourseRepository handles course database operations
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(q db.DBTX) *CourseRepository {
	return &CourseRepository{
		db: q,
		sb: newStatementBuilder(),
	}
}

// courseWriteError maps constraint violations to domain errors
func courseWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, coursesNameKey):
		return apperrors.ErrCourseNameAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, coursesPrimaryKey):
		return apperrors.ErrCourseIDAlreadyExists
	default:
		return nil
	}
}

func scanCourses(rows pgx.Rows) ([]*models.Course, error) {
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Name, &course.Description); err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Create inserts a course, with a caller-supplied ID when course.ID > 0
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	insert := r.sb.Insert("courses")
	description := helpers.GetContentNullString(course.Description)
	if course.ID > 0 {
		insert = insert.Columns("id", "name", "description").
			Values(course.ID, course.Name, description)
	} else {
		insert = insert.Columns("name", "description").
			Values(course.Name, description)
	}

	sql, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	explicitID := course.ID > 0
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		if domainErr := courseWriteError(err); domainErr != nil {
			return domainErr
		}
		logger.Error().Err(err).Str("name", course.Name).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	if explicitID {
		return syncIdentity(ctx, r.db, "courses")
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id}, "id")
}

// GetByName retrieves a course by its unique name
func (r *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"c.name": name}, "name")
}

func (r *CourseRepository) getOne(ctx context.Context, where squirrel.Eq, by string) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses c").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("by", by).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Name, &course.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("by", by).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by %s: %w", by, err)
	}

	return course, nil
}

// GetAll retrieves all courses in insertion order
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses c").
		OrderBy("c.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all courses SQL")
		return nil, fmt.Errorf("failed to build get all courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}

	return scanCourses(rows)
}

// Update overwrites name and description of an existing course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"name":        course.Name,
			"description": helpers.GetContentNullString(course.Description),
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if domainErr := courseWriteError(err); domainErr != nil {
			return domainErr
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete deletes a course by ID together with its enrollments
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Exists reports whether a course with the given ID exists
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByColumn(ctx, r.db, r.sb, "courses", "id", id)
}

// ExistsByName reports whether a course with the given name exists
func (r *CourseRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return existsByColumn(ctx, r.db, r.sb, "courses", "name", name)
}
