package database

import (
	"path/filepath"
	"testing"

	"bbscope/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "scope.db?_foreign_keys=on", SQLiteDSN("scope.db"))
	assert.Equal(t, "scope.db?cache=shared&_foreign_keys=on", SQLiteDSN("scope.db?cache=shared"))
	assert.Equal(t, "scope.db?_fk=1", SQLiteDSN("scope.db?_fk=1"))
}

func TestOpenMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabasePath:   filepath.Join(t.TempDir(), "scope.db"),
		DatabaseLog:    "silent",
	}

	db, err := Open(cfg)
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("target"))
	assert.True(t, db.Migrator().HasTable("subdomain"))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{DatabaseDriver: "mysql"})
	assert.Error(t, err)
}
