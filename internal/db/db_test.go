package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/store-admin/internal/config"
)

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "host=db user=u password=*** dbname=x", MaskDSN("host=db user=u password=s3cret dbname=x"))
	assert.Equal(t, "postgres://u:***@db:5432/x", MaskDSN("postgres://u:s3cret@db:5432/x"))
	assert.Equal(t, "store.db", MaskDSN("store.db"))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestAutoMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"}
	conn, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn, cfg, false, nil))
	assert.True(t, conn.Migrator().HasTable("drafts"))
}

func TestSQLMigrations(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "store.db")}
	conn, err := Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(conn, cfg, true, nil))
	// second run is a no-op
	require.NoError(t, Migrate(conn, cfg, true, nil))
	for _, table := range []string{"sessions", "audit_logs", "delete_intents", "drafts"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
}
