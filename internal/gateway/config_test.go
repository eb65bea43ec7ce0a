package gateway

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "cardclash.db", cfg.Battle.DBPath)
	assert.Equal(t, 2*time.Second, cfg.MinThinkingDelay())
	assert.Equal(t, 4*time.Second, cfg.MaxThinkingDelay())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cardclash.hcl")
	content := `
server {
	addr      = ":9090"
	log_level = "debug"
}

battle {
	db_path         = "/tmp/test.db"
	min_thinking_ms = 100
	max_thinking_ms = 250
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/tmp/test.db", cfg.Battle.DBPath)
	assert.Equal(t, 100*time.Millisecond, cfg.MinThinkingDelay())
	assert.Equal(t, 250*time.Millisecond, cfg.MaxThinkingDelay())
}

func TestLoadConfigPartialFileFillsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cardclash.hcl")
	content := `
server {
	addr = ":7000"
}

battle {}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "cardclash.db", cfg.Battle.DBPath)
	assert.Equal(t, 2000, cfg.Battle.MinThinkingMs)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Server.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Battle.MinThinkingMs = 5000
	cfg.Battle.MaxThinkingMs = 1000
	assert.Error(t, cfg.Validate())
}
