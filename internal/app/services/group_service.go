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

// GroupService defines the interface for group-related operations
type GroupService interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupByID(ctx context.Context, id int64) (*models.Group, error)
	GetAllGroups(ctx context.Context) ([]*models.Group, error)
	GetGroupsWithMaxStudents(ctx context.Context, maxStudents int) ([]*models.GroupWithCount, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id int64) error
}

type groupServiceImpl struct {
	store *db.Store
	repos *repositories.Repositories
}

// NewGroupService creates a new group service instance
func NewGroupService(store *db.Store, repos *repositories.Repositories) GroupService {
	return &groupServiceImpl{
		store: store,
		repos: repos,
	}
}

func validateGroup(group *models.Group) error {
	if group == nil {
		return fmt.Errorf("%w: group is nil", apperrors.ErrValidationFailed)
	}
	return validation.Name("name", group.Name)
}

func isGroupConflict(err error) bool {
	return errors.Is(err, apperrors.ErrGroupNameAlreadyExists) ||
		errors.Is(err, apperrors.ErrGroupIDAlreadyExists)
}

// CreateGroup creates a new group
func (s *groupServiceImpl) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := validateGroup(group); err != nil {
		return err
	}
	if group.ID < 0 {
		return fmt.Errorf("%w: invalid group ID", apperrors.ErrValidationFailed)
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.repos.WithTx(tx).Groups.Create(ctx, group)
	})
	if err != nil {
		if isGroupConflict(err) {
			return err
		}
		return fmt.Errorf("error creating group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group by ID
func (s *groupServiceImpl) GetGroupByID(ctx context.Context, id int64) (*models.Group, error) {
	if err := validation.ID("group ID", id); err != nil {
		return nil, err
	}

	group, err := s.repos.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrGroupNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}
	return group, nil
}

// GetAllGroups retrieves all groups
func (s *groupServiceImpl) GetAllGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.repos.Groups.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups: %w", err)
	}
	return groups, nil
}

// GetGroupsWithMaxStudents returns the groups with at most maxStudents
// members. The bound is inclusive and empty groups are part of the result.
func (s *groupServiceImpl) GetGroupsWithMaxStudents(ctx context.Context, maxStudents int) ([]*models.GroupWithCount, error) {
	if maxStudents < 0 {
		return nil, fmt.Errorf("%w: max_students must not be negative", apperrors.ErrValidationFailed)
	}

	groups, err := s.repos.Groups.GetWithMaxStudents(ctx, maxStudents)
	if err != nil {
		return nil, fmt.Errorf("error retrieving groups by size: %w", err)
	}
	return groups, nil
}

// UpdateGroup renames an existing group
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, group *models.Group) error {
	if err := validateGroup(group); err != nil {
		return err
	}
	if err := validation.ID("group ID", group.ID); err != nil {
		return err
	}

	if err := s.repos.Groups.Update(ctx, group); err != nil {
		if errors.Is(err, apperrors.ErrGroupNotFound) || isGroupConflict(err) {
			return err
		}
		return fmt.Errorf("error updating group: %w", err)
	}
	return nil
}

// DeleteGroup deletes a group and its memberships
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, id int64) error {
	if err := validation.ID("group ID", id); err != nil {
		return err
	}

	if err := s.repos.Groups.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrGroupNotFound) {
			return apperrors.ErrGroupNotFound
		}
		return fmt.Errorf("error deleting group: %w", err)
	}
	return nil
}
