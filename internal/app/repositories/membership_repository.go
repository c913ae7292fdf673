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

// MembershipRepository manages the student_groups link table
type MembershipRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(q db.DBTX) *MembershipRepository {
	return &MembershipRepository{
		db: q,
		sb: newStatementBuilder(),
	}
}

// Exists reports whether the student belongs to the group
func (r *MembershipRepository) Exists(ctx context.Context, studentID, groupID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("student_groups").
		Where(squirrel.Eq{"student_id": studentID, "group_id": groupID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build membership existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("groupID", groupID).
			Msg("Error checking membership")
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// GroupIDsForStudent returns the IDs of every group the student belongs to
func (r *MembershipRepository) GroupIDsForStudent(ctx context.Context, studentID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("group_id").
		From("student_groups").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("group_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student group ids query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error querying student group ids")
		return nil, fmt.Errorf("error querying student group ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group ids: %w", err)
	}

	return ids, nil
}

// Add places a student in a group
func (r *MembershipRepository) Add(ctx context.Context, studentID, groupID int64) error {
	sql, args, err := r.sb.Insert("student_groups").
		Columns("student_id", "group_id").
		Values(studentID, groupID).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add member SQL")
		return fmt.Errorf("failed to build add member query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyGroupMember
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("Student or group not found")
		}
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("groupID", groupID).
			Msg("Error executing add member query")
		return fmt.Errorf("error adding group member: %w", err)
	}
	return nil
}

// Remove deletes a membership and reports whether one existed
func (r *MembershipRepository) Remove(ctx context.Context, studentID, groupID int64) (bool, error) {
	sql, args, err := r.sb.Delete("student_groups").
		Where(squirrel.Eq{"student_id": studentID, "group_id": groupID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove member SQL")
		return false, fmt.Errorf("failed to build remove member query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).
			Int64("studentID", studentID).
			Int64("groupID", groupID).
			Msg("Error executing remove member query")
		return false, fmt.Errorf("error removing group member: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// StudentsByGroup lists the members of a group, ordered by student ID
func (r *MembershipRepository) StudentsByGroup(ctx context.Context, groupID int64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Join("student_groups sg ON sg.student_id = s.id").
		Where(squirrel.Eq{"sg.group_id": groupID}).
		OrderBy("s.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building group students SQL")
		return nil, fmt.Errorf("failed to build group students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", groupID).Msg("Error executing group students query")
		return nil, fmt.Errorf("error querying group students: %w", err)
	}

	return scanStudents(rows)
}

// GroupsByStudent lists the groups a student belongs to, ordered by group ID
func (r *MembershipRepository) GroupsByStudent(ctx context.Context, studentID int64) ([]*models.Group, error) {
	sql, args, err := r.sb.Select(groupColumns...).
		From("groups g").
		Join("student_groups sg ON sg.group_id = g.id").
		Where(squirrel.Eq{"sg.student_id": studentID}).
		OrderBy("g.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student groups SQL")
		return nil, fmt.Errorf("failed to build student groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing student groups query")
		return nil, fmt.Errorf("error querying student groups: %w", err)
	}

	return scanGroups(rows)
}
