package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/app/models"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
)

func TestCourseRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(q("INSERT INTO courses (name,description) VALUES ($1,$2) RETURNING id")).
		WithArgs("Biology", sql.NullString{}).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(q("INSERT INTO courses (name,description)")).
		WithArgs("Biology", sql.NullString{String: "Cells", Valid: true}).
		WillReturnError(uniqueViolation("courses_name_key"))
	mock.ExpectQuery(q("INSERT INTO courses (id,name,description)")).
		WithArgs(int64(1), "Physics", sql.NullString{}).
		WillReturnError(uniqueViolation("courses_pkey"))

	course := &models.Course{Name: "Biology"}
	require.NoError(t, repo.Create(ctx, course))
	assert.Equal(t, int64(1), course.ID)

	err := repo.Create(ctx, &models.Course{Name: "Biology", Description: "Cells"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNameAlreadyExists)

	err = repo.Create(ctx, &models.Course{ID: 1, Name: "Physics"})
	assert.ErrorIs(t, err, apperrors.ErrCourseIDAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Lookups(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)
	ctx := context.Background()
	cols := []string{"id", "name", "description"}

	mock.ExpectQuery(q("SELECT c.id, c.name, COALESCE(c.description, '') AS description FROM courses c WHERE c.id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(2), "History", ""))
	mock.ExpectQuery(q("FROM courses c WHERE c.name = $1")).
		WithArgs("Music").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(q("FROM courses c ORDER BY c.id ASC")).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), "Art", "Painting").
			AddRow(int64(2), "History", ""))

	course, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "History", course.Name)
	assert.Empty(t, course.Description)

	_, err = repo.GetByName(ctx, "Music")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	courses, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Painting", courses[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewCourseRepository(mock)
	ctx := context.Background()

	mock.ExpectExec(q("UPDATE courses SET description = $1, name = $2 WHERE id = $3")).
		WithArgs(sql.NullString{String: "Cells", Valid: true}, "Biology", int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(q("UPDATE courses")).
		WithArgs(sql.NullString{}, "Art", int64(4)).
		WillReturnError(uniqueViolation("courses_name_key"))

	require.NoError(t, repo.Update(ctx, &models.Course{ID: 4, Name: "Biology", Description: "Cells"}))
	err := repo.Update(ctx, &models.Course{ID: 4, Name: "Art"})
	assert.ErrorIs(t, err, apperrors.ErrCourseNameAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_CreateAndUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewGroupRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery(q("INSERT INTO groups (name) VALUES ($1) RETURNING id")).
		WithArgs("AB-12").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(q("INSERT INTO groups (id,name)")).
		WithArgs(int64(10), "CD-34").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectExec(q("pg_get_serial_sequence('groups', 'id')")).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(q("UPDATE groups SET name = $1 WHERE id = $2")).
		WithArgs("AB-12", int64(10)).
		WillReturnError(uniqueViolation("groups_name_key"))
	mock.ExpectExec(q("DELETE FROM groups WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	group := &models.Group{Name: "AB-12"}
	require.NoError(t, repo.Create(ctx, group))
	assert.Equal(t, int64(3), group.ID)

	require.NoError(t, repo.Create(ctx, &models.Group{ID: 10, Name: "CD-34"}))

	err := repo.Update(ctx, &models.Group{ID: 10, Name: "AB-12"})
	assert.ErrorIs(t, err, apperrors.ErrGroupNameAlreadyExists)

	assert.ErrorIs(t, repo.Delete(ctx, 99), apperrors.ErrGroupNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetWithMaxStudents(t *testing.T) {
	mock := newMock(t)
	repo := NewGroupRepository(mock)

	mock.ExpectQuery(q("SELECT g.id, g.name, COUNT(sg.student_id) AS student_count FROM groups g " +
		"LEFT JOIN student_groups sg ON sg.group_id = g.id GROUP BY g.id, g.name " +
		"HAVING COUNT(sg.student_id) <= $1 ORDER BY g.id ASC")).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "student_count"}).
			AddRow(int64(1), "AB-12", int64(2)).
			AddRow(int64(3), "EF-56", int64(0)))

	groups, err := repo.GetWithMaxStudents(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, int64(2), groups[0].StudentCount)
	assert.Equal(t, "EF-56", groups[1].Name)
	assert.Zero(t, groups[1].StudentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
