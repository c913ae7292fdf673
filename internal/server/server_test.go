package server

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/config"
	"github.com/yigit/enrollment/internal/db"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Server.ReadTimeout = "3s"
	cfg.Server.WriteTimeout = "4s"
	cfg.Server.IdleTimeout = "bogus"
	cfg.Server.ShutdownTimeout = "1s"
	return cfg
}

func TestNew_AppliesTimeouts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(testConfig(), gin.New(), nil, zerolog.Nop())

	assert.Equal(t, ":0", srv.http.Addr)
	assert.Equal(t, 3*time.Second, srv.http.ReadTimeout)
	assert.Equal(t, 4*time.Second, srv.http.WriteTimeout)
	assert.Equal(t, 120*time.Second, srv.http.IdleTimeout)
	assert.NotNil(t, srv.Handler())
}

func TestShutdown_ClosesStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	mock.ExpectClose()

	srv := New(testConfig(), gin.New(), db.NewStore(mock), zerolog.Nop())
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
