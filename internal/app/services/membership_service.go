package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// MembershipService manages which students belong to which groups
type MembershipService interface {
	AddMember(ctx context.Context, studentID, groupID int64) error
	RemoveMember(ctx context.Context, studentID, groupID int64) error
	GetGroupStudents(ctx context.Context, groupID int64) ([]*models.Student, error)
	GetStudentGroups(ctx context.Context, studentID int64) ([]*models.Group, error)
}

type membershipServiceImpl struct {
	store       *db.Store
	repos       *repositories.Repositories
	singleGroup bool
	logger      zerolog.Logger
}

// NewMembershipService creates a new membership service instance. With
// singleGroup set a student may belong to at most one group.
func NewMembershipService(store *db.Store, repos *repositories.Repositories, singleGroup bool, logger zerolog.Logger) MembershipService {
	return &membershipServiceImpl{
		store:       store,
		repos:       repos,
		singleGroup: singleGroup,
		logger:      logger,
	}
}

func requireStudentAndGroup(ctx context.Context, repos *repositories.Repositories, studentID, groupID int64) error {
	if err := requireStudent(ctx, repos, studentID); err != nil {
		return err
	}
	return requireExists(ctx, repos.Groups.Exists, groupID, apperrors.ErrGroupNotFound)
}

func validateMembership(studentID, groupID int64) error {
	return validation.All(
		validation.ID("student ID", studentID),
		validation.ID("group ID", groupID),
	)
}

// AddMember puts the student into the group
func (s *membershipServiceImpl) AddMember(ctx context.Context, studentID, groupID int64) error {
	if err := validateMembership(studentID, groupID); err != nil {
		return err
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := s.repos.WithTx(tx)
		if err := requireStudentAndGroup(ctx, repos, studentID, groupID); err != nil {
			return err
		}

		current, err := repos.Memberships.GroupIDsForStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if slices.Contains(current, groupID) {
			return apperrors.ErrAlreadyGroupMember
		}
		if s.singleGroup && len(current) > 0 {
			return fmt.Errorf("%w (group %d)", apperrors.ErrStudentInAnotherGroup, current[0])
		}

		return repos.Memberships.Add(ctx, studentID, groupID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("groupID", groupID).
		Msg("Student added to group")
	return nil
}

// RemoveMember takes the student out of the group
func (s *membershipServiceImpl) RemoveMember(ctx context.Context, studentID, groupID int64) error {
	if err := validateMembership(studentID, groupID); err != nil {
		return err
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repos := s.repos.WithTx(tx)
		if err := requireStudentAndGroup(ctx, repos, studentID, groupID); err != nil {
			return err
		}

		removed, err := repos.Memberships.Remove(ctx, studentID, groupID)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.ErrNotGroupMember
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("groupID", groupID).
		Msg("Student removed from group")
	return nil
}

// GetGroupStudents lists the members of a group
func (s *membershipServiceImpl) GetGroupStudents(ctx context.Context, groupID int64) ([]*models.Student, error) {
	if err := validation.ID("group ID", groupID); err != nil {
		return nil, err
	}
	if err := requireExists(ctx, s.repos.Groups.Exists, groupID, apperrors.ErrGroupNotFound); err != nil {
		return nil, err
	}

	students, err := s.repos.Memberships.StudentsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group students: %w", err)
	}
	return students, nil
}

// GetStudentGroups lists the groups of a student
func (s *membershipServiceImpl) GetStudentGroups(ctx context.Context, studentID int64) ([]*models.Group, error) {
	if err := validation.ID("student ID", studentID); err != nil {
		return nil, err
	}
	if err := requireStudent(ctx, s.repos, studentID); err != nil {
		return nil, err
	}

	groups, err := s.repos.Memberships.GroupsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving student groups: %w", err)
	}
	return groups, nil
}
