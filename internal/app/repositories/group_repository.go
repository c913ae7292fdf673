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
	"github.com/yigit/enrollment/internal/pkg/logger"
)

const (
	groupsPrimaryKey = "groups_pkey"
	groupsNameKey    = "groups_name_key"
)

var groupColumns = []string{"g.id", "g.name"}

// GroupRepository handles group database operations
type GroupRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(q db.DBTX) *GroupRepository {
	return &GroupRepository{
		db: q,
		sb: newStatementBuilder(),
	}
}

func groupWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, groupsNameKey):
		return apperrors.ErrGroupNameAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, groupsPrimaryKey):
		return apperrors.ErrGroupIDAlreadyExists
	default:
		return nil
	}
}

func scanGroups(rows pgx.Rows) ([]*models.Group, error) {
	defer rows.Close()

	groups := []*models.Group{}
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, fmt.Errorf("error scanning group row: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}

	return groups, nil
}

// Create inserts a group, with a caller-supplied ID when group.ID > 0
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	insert := r.sb.Insert("groups")
	if group.ID > 0 {
		insert = insert.Columns("id", "name").Values(group.ID, group.Name)
	} else {
		insert = insert.Columns("name").Values(group.Name)
	}

	sql, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create group SQL")
		return fmt.Errorf("failed to build create group query: %w", err)
	}

	explicitID := group.ID > 0
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&group.ID); err != nil {
		if domainErr := groupWriteError(err); domainErr != nil {
			return domainErr
		}
		logger.Error().Err(err).Str("name", group.Name).Msg("Error executing create group query")
		return fmt.Errorf("error creating group: %w", err)
	}

	if explicitID {
		return syncIdentity(ctx, r.db, "groups")
	}
	return nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*models.Group, error) {
	return r.getOne(ctx, squirrel.Eq{"g.id": id}, "id")
}

// GetByName retrieves a group by its unique name
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	return r.getOne(ctx, squirrel.Eq{"g.name": name}, "name")
}

func (r *GroupRepository) getOne(ctx context.Context, where squirrel.Eq, by string) (*models.Group, error) {
	sql, args, err := r.sb.Select(groupColumns...).
		From("groups g").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("by", by).Msg("Error building get group SQL")
		return nil, fmt.Errorf("failed to build get group query: %w", err)
	}

	group := &models.Group{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&group.ID, &group.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		logger.Error().Err(err).Str("by", by).Msg("Error scanning group row")
		return nil, fmt.Errorf("error getting group by %s: %w", by, err)
	}

	return group, nil
}

// GetAll retrieves all groups in insertion order
func (r *GroupRepository) GetAll(ctx context.Context) ([]*models.Group, error) {
	sql, args, err := r.sb.Select(groupColumns...).
		From("groups g").
		OrderBy("g.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all groups SQL")
		return nil, fmt.Errorf("failed to build get all groups query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing get all groups query")
		return nil, fmt.Errorf("error querying groups: %w", err)
	}

	return scanGroups(rows)
}

// GetWithMaxStudents returns the groups having at most maxStudents members,
// each with its member count. Groups without members count as zero.
func (r *GroupRepository) GetWithMaxStudents(ctx context.Context, maxStudents int) ([]*models.GroupWithCount, error) {
	sql, args, err := r.sb.Select("g.id", "g.name", "COUNT(sg.student_id) AS student_count").
		From("groups g").
		LeftJoin("student_groups sg ON sg.group_id = g.id").
		GroupBy("g.id", "g.name").
		Having("COUNT(sg.student_id) <= ?", maxStudents).
		OrderBy("g.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building groups by size SQL")
		return nil, fmt.Errorf("failed to build groups by size query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int("maxStudents", maxStudents).Msg("Error executing groups by size query")
		return nil, fmt.Errorf("error querying groups by size: %w", err)
	}
	defer rows.Close()

	groups := []*models.GroupWithCount{}
	for rows.Next() {
		group := &models.GroupWithCount{}
		if err := rows.Scan(&group.ID, &group.Name, &group.StudentCount); err != nil {
			return nil, fmt.Errorf("error scanning group count row: %w", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group count rows: %w", err)
	}

	return groups, nil
}

// Update renames an existing group
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	sql, args, err := r.sb.Update("groups").
		Set("name", group.Name).
		Where(squirrel.Eq{"id": group.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update group SQL")
		return fmt.Errorf("failed to build update group query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if domainErr := groupWriteError(err); domainErr != nil {
			return domainErr
		}
		logger.Error().Err(err).Int64("groupID", group.ID).Msg("Error executing update group query")
		return fmt.Errorf("error updating group: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// Delete deletes a group by ID together with its memberships
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("groups").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete group SQL")
		return fmt.Errorf("failed to build delete group query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("groupID", id).Msg("Error executing delete group query")
		return fmt.Errorf("error deleting group: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGroupNotFound
	}

	return nil
}

// Exists reports whether a group with the given ID exists
func (r *GroupRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return existsByColumn(ctx, r.db, r.sb, "groups", "id", id)
}

// ExistsByName reports whether a group with the given name exists
func (r *GroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return existsByColumn(ctx, r.db, r.sb, "groups", "name", name)
}
