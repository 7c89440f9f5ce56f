package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: users\n")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "users", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.DB.AutoMigrate)
	assert.Equal(t, 300, c.Redis.TTLSec)
	assert.Empty(t, c.Redis.Addr)
	assert.EqualValues(t, 200, c.Limits.RPS)
	assert.EqualValues(t, 300, c.Limits.Concurrency)
}

func TestReadFileValues(t *testing.T) {
	path := writeConfig(t, `
app:
  http:
    host: 127.0.0.1
    port: 9000
log:
  level: debug
  json: true
  file:
    filename: logs/api.log
db:
  driver: postgres
  dsn: host=db user=app
  automigrate: false
redis:
  addr: 127.0.0.1:6379
  db: 2
jwt:
  secret: s3cret
`)
	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", c.App.HTTP.Host)
	assert.Equal(t, 9000, c.App.HTTP.Port)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Log.JSON)
	assert.Equal(t, "logs/api.log", c.Log.File.Filename)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.False(t, c.DB.AutoMigrate)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, 2, c.Redis.DB)
	assert.Equal(t, "s3cret", c.JWT.Secret)
}

func TestReadEnvOverride(t *testing.T) {
	path := writeConfig(t, "db:\n  dsn: from-file\n")
	t.Setenv("APP_DB_DSN", "from-env")

	c, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.DB.DSN)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
