package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// Repositories holds all the repository instances bound to one query surface
type Repositories struct {
	Students    *StudentRepository
	Courses     *CourseRepository
	Groups      *GroupRepository
	Enrollments *EnrollmentRepository
	Memberships *MembershipRepository
}

// NewRepositories initializes all repositories on q, which is either the
// pool or an open transaction.
func NewRepositories(q db.DBTX) *Repositories {
	return &Repositories{
		Students:    NewStudentRepository(q),
		Courses:     NewCourseRepository(q),
		Groups:      NewGroupRepository(q),
		Enrollments: NewEnrollmentRepository(q),
		Memberships: NewMembershipRepository(q),
	}
}

// WithTx returns a copy of the repositories that runs every query inside tx.
func (r *Repositories) WithTx(tx pgx.Tx) *Repositories {
	return NewRepositories(tx)
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// existsByColumn runs SELECT EXISTS (SELECT 1 FROM table WHERE column = value).
func existsByColumn(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, table, column string, value any) (bool, error) {
	sql, args, err := sb.Select("1").
		From(table).
		Where(squirrel.Eq{column: value}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s existence query: %w", table, err)
	}

	var exists bool
	err = q.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Str("table", table).Str("column", column).Msg("Error checking row existence")
		return false, fmt.Errorf("error checking %s existence: %w", table, err)
	}

	return exists, nil
}

// syncIdentity moves the identity sequence of table past its current MAX(id).
// Needed after inserting a caller-supplied id, otherwise a later
// auto-assigned id could collide with it.
func syncIdentity(ctx context.Context, q db.DBTX, table string) error {
	query := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT MAX(id) FROM %[1]s), 1))",
		table)
	if _, err := q.Exec(ctx, query); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error syncing identity sequence")
		return fmt.Errorf("error syncing %s identity: %w", table, err)
	}
	return nil
}
