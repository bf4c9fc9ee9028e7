package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deskops/helpdesk-groups/pkg/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaults(t *testing.T) {
	assert := require.New(t)

	cfg, err := config.NewConfig(writeConfig(t, "logging:\n  log_level: info\n"))
	assert.NoError(err)

	assert.Equal(":8080", cfg.Server.ListenAddress)
	assert.Equal("mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal("helpdesk", cfg.Mongo.Database)
	assert.Equal(10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(5*time.Second, cfg.Mongo.PingTimeout)
	assert.Equal(30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(zerolog.InfoLevel, cfg.Logging.LogLevelParsed)
	assert.True(cfg.SCIM.Enabled)
	assert.Empty(cfg.LogFile.Path)
}

func TestFileAndEnvOverrides(t *testing.T) {
	assert := require.New(t)

	t.Setenv("HELPDESK_GROUPS_MONGO_DATABASE", "from-env")

	cfg, err := config.NewConfig(writeConfig(t, `
logging:
  log_level: debug
mongo:
  uri: mongodb://mongo:27017
  ping_timeout: 2s
server:
  listen_address: ":9090"
  auth:
    bearer:
      enabled: true
      token: secret
scim:
  enabled: false
`))
	assert.NoError(err)

	assert.Equal(zerolog.DebugLevel, cfg.Logging.LogLevelParsed)
	assert.Equal("mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal("from-env", cfg.Mongo.Database)
	assert.Equal(2*time.Second, cfg.Mongo.PingTimeout)
	assert.Equal(":9090", cfg.Server.ListenAddress)
	assert.True(cfg.Server.Auth.Bearer.Enabled)
	assert.Equal("secret", cfg.Server.Auth.Bearer.Token)
	assert.False(cfg.SCIM.Enabled)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := config.NewConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestUnknownKeyRejected(t *testing.T) {
	_, err := config.NewConfig(writeConfig(t, "mongo:\n  url: mongodb://typo\n"))
	require.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	assert := require.New(t)

	cfg := &config.Config{}
	cfg.Server.Auth.Basic.Enabled = true
	cfg.Server.Auth.Bearer.Enabled = true

	err := cfg.Validate()
	assert.Error(err)
	assert.True(errors.Is(err, config.ErrInvalidConfig))
	assert.Contains(err.Error(), "server.listen_address is required")
	assert.Contains(err.Error(), "mongo.uri is required")
	assert.Contains(err.Error(), "mongo.database is required")
	assert.Contains(err.Error(), "server.auth.basic requires username and password")
	assert.Contains(err.Error(), "server.auth.bearer requires a token")
}
