package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

// Services defined in this package:
// - StudentService: student CRUD
// - CourseService: course CRUD
// - GroupService: group CRUD and size filtering
// - EnrollmentService: student <-> course associations
// - MembershipService: student <-> group associations
type Services struct {
	Students    StudentService
	Courses     CourseService
	Groups      GroupService
	Enrollments EnrollmentService
	Memberships MembershipService
}

// Options carries the behaviour switches of the service layer
type Options struct {
	SingleGroupPerStudent bool
}

// NewServices wires every service on top of the store and its pool-bound repositories
func NewServices(store *db.Store, repos *repositories.Repositories, opts Options, lgr zerolog.Logger) *Services {
	return &Services{
		Students:    NewStudentService(store, repos),
		Courses:     NewCourseService(store, repos),
		Groups:      NewGroupService(store, repos),
		Enrollments: NewEnrollmentService(store, repos, lgr),
		Memberships: NewMembershipService(store, repos, opts.SingleGroupPerStudent, lgr),
	}
}

// existsFn is the shape of the repositories' Exists methods
type existsFn func(ctx context.Context, id int64) (bool, error)

// requireExists returns notFound when exists reports false
func requireExists(ctx context.Context, exists existsFn, id int64, notFound error) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound
	}
	return nil
}

// requireStudent is the common first step of every association operation
func requireStudent(ctx context.Context, repos *repositories.Repositories, studentID int64) error {
	return requireExists(ctx, repos.Students.Exists, studentID, apperrors.ErrStudentNotFound)
}
