package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
	"github.com/yigit/enrollment/internal/middleware"
)

func newTestRouter(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	cfg := &config.Config{}
	cfg.Server.Mode = "production"
	cfg.Membership.SingleGroupPerStudent = true

	deps := BuildDependencies(cfg, db.NewStore(mock), zerolog.Nop())
	return SetupRouter(cfg, deps, zerolog.Nop()), mock
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSetupRouter_Ping(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong","status":"success"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSetupRouter_Health(t *testing.T) {
	router, mock := newTestRouter(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		mock.ExpectPing()
		w := serve(router, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectExists(mock pgxmock.PgxPoolIface, table string, exists bool, args ...any) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM " + table + " WHERE")).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestSetupRouter_EnrollmentConflicts(t *testing.T) {
	t.Run("already enrolled", func(t *testing.T) {
		router, mock := newTestRouter(t)

		mock.ExpectBegin()
		expectExists(mock, "students", true, int64(1))
		expectExists(mock, "courses", true, int64(2))
		expectExists(mock, "student_courses", true, int64(2), int64(1))
		mock.ExpectRollback()

		w := serve(router, http.MethodPost, "/api/v1/students/1/courses/2")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"RES_004"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not enrolled", func(t *testing.T) {
		router, mock := newTestRouter(t)

		mock.ExpectBegin()
		expectExists(mock, "students", true, int64(1))
		expectExists(mock, "courses", true, int64(2))
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_courses WHERE course_id = $1 AND student_id = $2")).
			WithArgs(int64(2), int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectRollback()

		w := serve(router, http.MethodDelete, "/api/v1/students/1/courses/2")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"RES_004"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetupRouter_InvalidID(t *testing.T) {
	router, mock := newTestRouter(t)

	w := serve(router, http.MethodGet, "/api/v1/students/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetupRouter_SwaggerDoc(t *testing.T) {
	router, _ := newTestRouter(t)

	w := serve(router, http.MethodGet, "/swagger/doc.json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/students/{id}/courses/{courseId}")
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/enrollment.yaml")
	assert.Equal(t, "/etc/enrollment.yaml", ConfigPath())
}

func TestLoadConfigAndSetupLogger_Defaults(t *testing.T) {
	cfg, _, err := LoadConfigAndSetupLogger(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestRunMigrations_MissingDirectory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cfg := &config.Config{}
	cfg.Database.MigrationsDir = filepath.Join(t.TempDir(), "nope")

	err = RunMigrations(context.Background(), cfg, db.NewStore(mock), zerolog.Nop())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
