package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/app/repositories"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func newTestServices(t *testing.T, singleGroup bool) (*Services, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	store := db.NewStore(mock)
	return NewServices(store, repositories.NewRepositories(mock), Options{SingleGroupPerStudent: singleGroup}, zerolog.Nop()), mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

func expectExists(mock pgxmock.PgxPoolIface, table, column string, args []any, exists bool) {
	mock.ExpectQuery(q("SELECT EXISTS ( SELECT 1 FROM " + table + " WHERE " + column)).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectGroupIDs(mock pgxmock.PgxPoolIface, studentID int64, ids ...int64) {
	rows := pgxmock.NewRows([]string{"group_id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectQuery(q("SELECT group_id FROM student_groups WHERE student_id = $1")).
		WithArgs(studentID).
		WillReturnRows(rows)
}

func TestStudentService_Create(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		err := svc.Students.CreateStudent(context.Background(), &models.Student{FirstName: "", LastName: "Doe"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.Contains(t, err.Error(), "firstName")

		err = svc.Students.CreateStudent(context.Background(), &models.Student{ID: -1, FirstName: "John", LastName: "Doe"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate id rolls back", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		mock.ExpectQuery(q("INSERT INTO students (id,first_name,last_name)")).
			WithArgs(int64(1), "John", "Doe").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_pkey"})
		mock.ExpectRollback()

		err := svc.Students.CreateStudent(context.Background(), &models.Student{ID: 1, FirstName: "John", LastName: "Doe"})
		assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commits", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		mock.ExpectQuery(q("INSERT INTO students (first_name,last_name)")).
			WithArgs("John", "Doe").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
		mock.ExpectCommit()

		student := &models.Student{FirstName: "John", LastName: "Doe"}
		require.NoError(t, svc.Students.CreateStudent(context.Background(), student))
		assert.Equal(t, int64(11), student.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStudentService_GetByID(t *testing.T) {
	svc, mock := newTestServices(t, true)

	_, err := svc.Students.GetStudentByID(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	mock.ExpectQuery(q("FROM students s WHERE s.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name"}).AddRow(int64(5), "Jane", "Roe"))

	student, err := svc.Students.GetStudentByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Jane", student.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseService_CreateNameConflict(t *testing.T) {
	svc, mock := newTestServices(t, true)

	mock.ExpectBegin()
	mock.ExpectQuery(q("INSERT INTO courses")).
		WithArgs("Biology", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "courses_name_key"})
	mock.ExpectRollback()

	err := svc.Courses.CreateCourse(context.Background(), &models.Course{Name: "Biology"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNameAlreadyExists)
	assert.True(t, apperrors.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupService_GetGroupsWithMaxStudents(t *testing.T) {
	svc, mock := newTestServices(t, true)

	_, err := svc.Groups.GetGroupsWithMaxStudents(context.Background(), -1)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	mock.ExpectQuery(q("HAVING COUNT(sg.student_id) <= $1")).
		WithArgs(0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "student_count"}).AddRow(int64(2), "AB-12", int64(0)))

	groups, err := svc.Groups.GetGroupsWithMaxStudents(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "AB-12", groups[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentService_Enroll(t *testing.T) {
	t.Run("adds the pair", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "courses", "id", []any{int64(2)}, true)
		expectExists(mock, "student_courses", "course_id", []any{int64(2), int64(1)}, false)
		mock.ExpectExec(q("INSERT INTO student_courses")).
			WithArgs(int64(1), int64(2)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Enrollments.Enroll(context.Background(), 1, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second enrollment conflicts", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "courses", "id", []any{int64(2)}, true)
		expectExists(mock, "student_courses", "course_id", []any{int64(2), int64(1)}, true)
		mock.ExpectRollback()

		err := svc.Enrollments.Enroll(context.Background(), 1, 2)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
		assert.True(t, apperrors.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing course", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "courses", "id", []any{int64(9)}, false)
		mock.ExpectRollback()

		err := svc.Enrollments.Enroll(context.Background(), 1, 9)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing student", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(8)}, false)
		mock.ExpectRollback()

		err := svc.Enrollments.Enroll(context.Background(), 8, 2)
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentService_Unenroll(t *testing.T) {
	svc, mock := newTestServices(t, true)

	for _, affected := range []int64{1, 0} {
		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "courses", "id", []any{int64(1)}, true)
		mock.ExpectExec(q("DELETE FROM student_courses")).
			WithArgs(int64(1), int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", affected))
		if affected == 1 {
			mock.ExpectCommit()
		} else {
			mock.ExpectRollback()
		}
	}

	require.NoError(t, svc.Enrollments.Unenroll(context.Background(), 1, 1))
	assert.ErrorIs(t, svc.Enrollments.Unenroll(context.Background(), 1, 1), apperrors.ErrNotEnrolled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectCourseByName(mock pgxmock.PgxPoolIface, name string, id int64) {
	query := mock.ExpectQuery(q("FROM courses c WHERE c.name = $1 LIMIT 1")).WithArgs(name)
	if id == 0 {
		query.WillReturnError(pgx.ErrNoRows)
		return
	}
	query.WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).AddRow(id, name, ""))
}

func TestEnrollmentService_ByCourseName(t *testing.T) {
	t.Run("enrolls into the named course", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectCourseByName(mock, "Art", 5)
		expectExists(mock, "student_courses", "course_id", []any{int64(5), int64(1)}, false)
		mock.ExpectExec(q("INSERT INTO student_courses")).
			WithArgs(int64(1), int64(5)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Enrollments.EnrollByCourseName(context.Background(), 1, "Art"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown name", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectCourseByName(mock, "Alchemy", 0)
		mock.ExpectRollback()

		err := svc.Enrollments.EnrollByCourseName(context.Background(), 1, "Alchemy")
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unenrolls from the named course", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectCourseByName(mock, "Art", 5)
		mock.ExpectExec(q("DELETE FROM student_courses WHERE course_id = $1 AND student_id = $2")).
			WithArgs(int64(5), int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Enrollments.UnenrollByCourseName(context.Background(), 1, "Art"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty name is rejected before the transaction", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		err := svc.Enrollments.UnenrollByCourseName(context.Background(), 1, "")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnrollmentService_Queries(t *testing.T) {
	svc, mock := newTestServices(t, true)
	ctx := context.Background()

	expectExists(mock, "courses", "name", []any{"Art"}, false)
	_, err := svc.Enrollments.GetStudentsByCourseName(ctx, "Art")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	expectExists(mock, "courses", "name", []any{"Music"}, true)
	mock.ExpectQuery(q("WHERE c.name = $1")).
		WithArgs("Music").
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name"}).AddRow(int64(3), "Kim", "Lee"))
	students, err := svc.Enrollments.GetStudentsByCourseName(ctx, "Music")
	require.NoError(t, err)
	require.Len(t, students, 1)

	expectExists(mock, "students", "id", []any{int64(4)}, false)
	_, err = svc.Enrollments.GetStudentCourses(ctx, 4)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	expectExists(mock, "courses", "id", []any{int64(2)}, true)
	mock.ExpectQuery(q("WHERE sc.course_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "last_name"}))
	students, err = svc.Enrollments.GetCourseStudents(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipService_AddMember(t *testing.T) {
	t.Run("single group policy rejects a second group", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "groups", "id", []any{int64(4)}, true)
		expectGroupIDs(mock, 1, 3)
		mock.ExpectRollback()

		err := svc.Memberships.AddMember(context.Background(), 1, 4)
		assert.ErrorIs(t, err, apperrors.ErrStudentInAnotherGroup)
		assert.True(t, apperrors.IsConflict(err))
		assert.Contains(t, err.Error(), "(group 3)")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("policy off allows several groups", func(t *testing.T) {
		svc, mock := newTestServices(t, false)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "groups", "id", []any{int64(4)}, true)
		expectGroupIDs(mock, 1, 3)
		mock.ExpectExec(q("INSERT INTO student_groups")).
			WithArgs(int64(1), int64(4)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, svc.Memberships.AddMember(context.Background(), 1, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already a member", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "groups", "id", []any{int64(4)}, true)
		expectGroupIDs(mock, 1, 4)
		mock.ExpectRollback()

		err := svc.Memberships.AddMember(context.Background(), 1, 4)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyGroupMember)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing group", func(t *testing.T) {
		svc, mock := newTestServices(t, true)

		mock.ExpectBegin()
		expectExists(mock, "students", "id", []any{int64(1)}, true)
		expectExists(mock, "groups", "id", []any{int64(40)}, false)
		mock.ExpectRollback()

		err := svc.Memberships.AddMember(context.Background(), 1, 40)
		assert.ErrorIs(t, err, apperrors.ErrGroupNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMembershipService_RemoveMember(t *testing.T) {
	svc, mock := newTestServices(t, true)

	mock.ExpectBegin()
	expectExists(mock, "students", "id", []any{int64(1)}, true)
	expectExists(mock, "groups", "id", []any{int64(4)}, true)
	mock.ExpectExec(q("DELETE FROM student_groups")).
		WithArgs(int64(4), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := svc.Memberships.RemoveMember(context.Background(), 1, 4)
	assert.ErrorIs(t, err, apperrors.ErrNotGroupMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}
