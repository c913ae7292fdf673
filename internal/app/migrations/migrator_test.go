package migrations

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/db"
)

func newMigrator(t *testing.T) (*Migrator, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewMigrator(db.NewStore(mock), zerolog.Nop()), mock
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, "001", versionOf("001_init.sql"))
	assert.Equal(t, "002", versionOf("002_add_index_on_names.sql"))
	assert.Equal(t, "003.sql", versionOf("003.sql"))
}

func TestMigrate_AppliesPendingFilesInOrder(t *testing.T) {
	m, mock := newMigrator(t)
	fsys := fstest.MapFS{
		"002_second.sql": {Data: []byte("CREATE TABLE second (id INT)")},
		"001_first.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"README.md":      {Data: []byte("not a migration")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	// 001 is already recorded
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE second").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("002", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, m.Migrate(context.Background(), fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_FailedFileIsRolledBack(t *testing.T) {
	m, mock := newMigrator(t)
	fsys := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE broken (")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err := m.Migrate(context.Background(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_broken.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropAll(t *testing.T) {
	m, mock := newMigrator(t)

	mock.ExpectExec("DROP TABLE IF EXISTS student_groups, student_courses, groups, courses, students, schema_migrations CASCADE").
		WillReturnResult(pgxmock.NewResult("DROP", 0))

	require.NoError(t, m.DropAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
