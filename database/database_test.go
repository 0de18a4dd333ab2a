package database

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/quizline/quizline/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "quizline.db?_pragma=foreign_keys(1)", sqliteDSN("quizline.db"))
	assert.Equal(t, "file:x?mode=memory&cache=shared&_pragma=foreign_keys(1)", sqliteDSN("file:x?mode=memory&cache=shared"))
	assert.Equal(t, "file:x?_pragma=foreign_keys(0)", sqliteDSN("file:x?_pragma=foreign_keys(0)"))
}

func TestOpen_ForeignKeysOnEveryConnection(t *testing.T) {
	db, err := Open("sqlite", "file:"+filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	// no idle conns, so each query below runs on a freshly opened connection
	sqlDB.SetMaxIdleConns(0)
	for i := 0; i < 3; i++ {
		var on int
		require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&on).Error)
		assert.Equal(t, 1, on)
	}
}

func TestOpen_GormLogsThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	db, err := Open("sqlite", "file:"+filepath.Join(t.TempDir(), "log.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	buf.Reset()

	var profile model.UserProfile
	err = db.Where("user_id = ?", 42).First(&profile).Error
	require.Error(t, err)
	assert.NotContains(t, buf.String(), "record not found")

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Contains(t, buf.String(), `"component":"gorm"`)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "oracle")
}
